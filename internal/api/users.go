package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/service"
)

// UsersHandler handles user management endpoints.
type UsersHandler struct {
	Svc *service.Service
	V   *validator.Validate
}

type createUserRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
}

// List handles GET /users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.V.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := h.Svc.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user created", "user", user.ID)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.Svc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PATCH /users/{id}. Fields left out of the body are kept.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var patch model.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if name, ok := patch.Name.Get(); ok {
		if err := h.V.Var(name, "notblank"); err != nil {
			jsonError(w, http.StatusBadRequest, "name must not be blank")
			return
		}
	}
	if email, ok := patch.Email.Get(); ok {
		if err := h.V.Var(email, "required,email"); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid email")
			return
		}
	}

	user, err := h.Svc.UpdateUser(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user updated", "user", user.ID)
	jsonResponse(w, http.StatusOK, user)
}

// Delete handles DELETE /users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Svc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user deleted", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
