package router

import (
	"net/http"

	"github.com/cx-tal-miterani/flight-search/internal/handlers"
	"github.com/cx-tal-miterani/flight-search/internal/websocket"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, hub *websocket.Hub, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Flights
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodPost)
	api.HandleFunc("/flights/search", h.SearchFlightsQuery).Methods(http.MethodGet)
	api.HandleFunc("/flights/details/{id}", h.GetFlight).Methods(http.MethodGet)

	// WebSocket for search notifications on a route
	api.HandleFunc("/routes/{origin}/{destination}/ws", hub.HandleWebSocket).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	return corsHandler.Handler(r)
}
