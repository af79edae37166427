package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
)

// GetItemHandler handles GET /api/{resource}/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services) *GetItemHandler {
	return &GetItemHandler{svc: svc}
}

// Execute returns one document.
//
//	@Summary	Get product
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string	true	"24-hex document id"
//	@Success	200	{object}	ItemDocument
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/products/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Item.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.svc, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}
