package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	pkgvalidator "github.com/Dilyara077/practice-task/pkg/validator"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

// PutItemHandler handles PUT /api/{resource}/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute overwrites the required fields of a document.
//
//	@Summary	Replace product
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		id		path		string				true	"24-hex document id"
//	@Param		request	body		models.ItemInput	true	"Document fields"
//	@Success	200		{object}	MessageResponse
//	@Failure	400		{object}	ErrorResponse
//	@Failure	401		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/api/products/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := models.ParseItemID(id); err != nil {
		writeError(w, h.svc, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[models.ItemInput](w, r, h.svc.Item.RequiredFields()...)
	if !ok {
		return
	}

	if err := h.svc.Item.Replace(r.Context(), id, req.Fields()); err != nil {
		writeError(w, h.svc, err)
		return
	}
	httpx.JSONMessage(w, http.StatusOK, displayName(h.svc.Item.Resource())+" updated successfully")
}
