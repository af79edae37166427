package handlers

import (
	"net/http"

	"github.com/Dilyara077/practice-task/pkg/httpx"
	pkgvalidator "github.com/Dilyara077/practice-task/pkg/validator"
	appsvcs "github.com/Dilyara077/practice-task/services/item/application/services"
	"github.com/Dilyara077/practice-task/services/item/domain/models"
)

// PostItemHandler handles POST /api/{resource} requests.
type PostItemHandler struct {
	svc *appsvcs.Services
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute creates a new document and echoes it with its id.
//
//	@Summary		Create product
//	@Description	Creates a document. name, price and category are required unless the deployment narrows REQUIRED_FIELDS.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			request	body		models.ItemInput	true	"Document fields"
//	@Success		201		{object}	ItemDocument
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/products [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[models.ItemInput](w, r, h.svc.Item.RequiredFields()...)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), req.Fields())
	if err != nil {
		writeError(w, h.svc, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, item)
}
