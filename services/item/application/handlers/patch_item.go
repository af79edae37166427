package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	pkgvalidator "github.com/Dilyara077/practice-task/pkg/validator"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

// PatchItemHandler handles PATCH /api/{resource}/{id} requests.
type PatchItemHandler struct {
	svc *appsvcs.Services
}

// NewPatchItemHandler returns a PatchItemHandler backed by the given services.
func NewPatchItemHandler(svc *appsvcs.Services) *PatchItemHandler {
	return &PatchItemHandler{svc: svc}
}

// Execute merges the supplied keys into a document.
//
//	@Summary		Update product fields
//	@Description	Sets only the supplied keys. id and _id are ignored; an empty body is rejected.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			id		path		string					true	"24-hex document id"
//	@Param			request	body		map[string]interface{}	true	"Fields to set"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/products/{id} [patch]
func (h *PatchItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := models.ParseItemID(id); err != nil {
		writeError(w, h.svc, err)
		return
	}

	body, ok := pkgvalidator.DecodeObject(w, r)
	if !ok {
		return
	}

	if err := h.svc.Item.Update(r.Context(), id, body); err != nil {
		writeError(w, h.svc, err)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, displayName(h.svc.Item.Resource())+" updated successfully")
}
