package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/izposoja/internal/imaging"
	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/service"
)

// ItemsHandler handles item, comment and photo endpoints.
type ItemsHandler struct {
	Svc *service.Service
	V   *validator.Validate
}

type createItemRequest struct {
	Name        string `json:"name" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"request_id" validate:"omitnil,gt=0"`
}

type createCommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=200"`
}

// List handles GET /items: the caller's own items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Svc.ListOwnerItems(r.Context(), GetUserID(r.Context()), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Search handles GET /items/search?text=.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.Svc.SearchItems(r.Context(), r.URL.Query().Get("text"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.V.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	ownerID := GetUserID(r.Context())
	item, err := h.Svc.CreateItem(r.Context(), ownerID, service.NewItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item created", "item", item.ID, "owner", ownerID)
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Svc.GetItem(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PATCH /items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var patch model.ItemPatch
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

	item, err := h.Svc.UpdateItem(r.Context(), GetUserID(r.Context()), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item updated", "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Comment handles POST /items/{id}/comment.
func (h *ItemsHandler) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.V.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	authorID := GetUserID(r.Context())
	comment, err := h.Svc.AddComment(r.Context(), authorID, id, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("comment added", "comment", comment.ID, "item", id, "author", authorID)
	jsonResponse(w, http.StatusOK, comment)
}

// UploadImage handles PUT /items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := h.Svc.SetItemImage(r.Context(), GetUserID(r.Context()), id, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item image uploaded", "item", id, "width", photo.Width, "height", photo.Height)
	jsonResponse(w, http.StatusOK, map[string]any{
		"width":  photo.Width,
		"height": photo.Height,
	})
}

// GetImage handles GET /items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, false)
}

// GetThumbnail handles GET /items/{id}/thumbnail.
func (h *ItemsHandler) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	h.serveImage(w, r, true)
}

func (h *ItemsHandler) serveImage(w http.ResponseWriter, r *http.Request, thumbnail bool) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := h.Svc.ItemImage(r.Context(), id, thumbnail)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
