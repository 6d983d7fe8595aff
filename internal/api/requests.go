package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/izposoja/internal/service"
)

// RequestsHandler handles item request endpoints.
type RequestsHandler struct {
	Svc *service.Service
	V   *validator.Validate
}

type createItemRequestRequest struct {
	Description string `json:"description" validate:"required,notblank"`
}

// Create handles POST /requests.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.V.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	userID := GetUserID(r.Context())
	created, err := h.Svc.CreateRequest(r.Context(), userID, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item request created", "request", created.ID, "requestor", userID)
	jsonResponse(w, http.StatusCreated, created)
}

// ListOwn handles GET /requests.
func (h *RequestsHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Svc.ListOwnRequests(r.Context(), GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, requests)
}

// ListOthers handles GET /requests/all.
func (h *RequestsHandler) ListOthers(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.Svc.ListOtherRequests(r.Context(), GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Get handles GET /requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	found, err := h.Svc.GetRequest(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, found)
}
