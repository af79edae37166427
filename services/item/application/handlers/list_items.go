package handlers

import (
	"net/http"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
	"github.com/Dilyara077/practice-task/services/item/domain/query"
)

// ListOptions selects how the list endpoint reads its query and shapes its body.
type ListOptions struct {
	SupportsFiltering bool
	Envelope          bool
}

// ListItemsHandler handles GET /api/{resource} requests.
type ListItemsHandler struct {
	svc  *appsvcs.Services
	opts ListOptions
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, opts ListOptions) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, opts: opts}
}

// Execute lists documents, optionally filtered, projected and sorted.
//
//	@Summary		List products
//	@Description	Lists documents. category is an exact match, minPrice is inclusive, sort=price orders ascending and fields projects a comma-separated subset (id is always kept).
//	@Tags			products
//	@Produce		json
//	@Param			category	query		string	false	"Exact category"
//	@Param			minPrice	query		number	false	"Lowest price, inclusive"
//	@Param			sort		query		string	false	"Sort key"	Enums(price)
//	@Param			fields		query		string	false	"Comma-separated projection"
//	@Success		200			{object}	ListResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/products [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	criteria := query.All()
	if h.opts.SupportsFiltering {
		c, err := query.Build(r.URL.Query())
		if err != nil {
			writeError(w, h.svc, err)
			return
		}
		criteria = c
	}

	items, err := h.svc.Item.List(r.Context(), criteria)
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	docs := documents(items)
	if !h.opts.Envelope {
		httpx.JSON(w, http.StatusOK, docs)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"count":               len(docs),
		h.svc.Item.Resource(): docs,
	})
}
