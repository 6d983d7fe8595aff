package api

import (
	"net/http"

	"github.com/erazemk/izposoja/internal/metrics"
	"github.com/erazemk/izposoja/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
// m may be nil, in which case /metrics answers 404.
func NewRouter(svc *service.Service, jwtSecret string, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()
	v := newValidator()

	usersHandler := &UsersHandler{Svc: svc, V: v}
	itemsHandler := &ItemsHandler{Svc: svc, V: v}
	bookingsHandler := &BookingsHandler{Svc: svc, V: v}
	requestsHandler := &RequestsHandler{Svc: svc, V: v}

	user := RequireUser(jwtSecret)

	// Users (no acting user required).
	mux.HandleFunc("GET /users", usersHandler.List)
	mux.HandleFunc("POST /users", usersHandler.Create)
	mux.HandleFunc("GET /users/{id}", usersHandler.Get)
	mux.HandleFunc("PATCH /users/{id}", usersHandler.Update)
	mux.HandleFunc("DELETE /users/{id}", usersHandler.Delete)

	// Items.
	mux.Handle("GET /items", user(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /items/search", user(http.HandlerFunc(itemsHandler.Search)))
	mux.Handle("POST /items", user(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /items/{id}", user(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PATCH /items/{id}", user(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("POST /items/{id}/comment", user(http.HandlerFunc(itemsHandler.Comment)))
	mux.Handle("PUT /items/{id}/image", user(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.HandleFunc("GET /items/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("GET /items/{id}/thumbnail", itemsHandler.GetThumbnail)

	// Bookings.
	mux.Handle("POST /bookings", user(http.HandlerFunc(bookingsHandler.Create)))
	mux.Handle("PATCH /bookings/{id}", user(http.HandlerFunc(bookingsHandler.Decide)))
	mux.Handle("GET /bookings/{id}", user(http.HandlerFunc(bookingsHandler.Get)))
	mux.Handle("GET /bookings", user(http.HandlerFunc(bookingsHandler.ListBooked)))
	mux.Handle("GET /bookings/owner", user(http.HandlerFunc(bookingsHandler.ListOwned)))

	// Item requests.
	mux.Handle("POST /requests", user(http.HandlerFunc(requestsHandler.Create)))
	mux.Handle("GET /requests", user(http.HandlerFunc(requestsHandler.ListOwn)))
	mux.Handle("GET /requests/all", user(http.HandlerFunc(requestsHandler.ListOthers)))
	mux.Handle("GET /requests/{id}", user(http.HandlerFunc(requestsHandler.Get)))

	mux.Handle("GET /metrics", m.Handler())

	return mux
}
