package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
)

// DeleteItemHandler handles DELETE /api/{resource}/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes a document permanently.
//
//	@Summary	Delete product
//	@Tags		products
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id	path		string	true	"24-hex document id"
//	@Success	200	{object}	MessageResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/api/products/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Item.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.svc, err)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, displayName(h.svc.Item.Resource())+" deleted successfully")
}
