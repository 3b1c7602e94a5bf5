package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cx-tal-miterani/flight-search/internal/service"
	"github.com/cx-tal-miterani/flight-search/shared/models"
	"github.com/gorilla/mux"
)

const (
	searchCacheControl  = "public, max-age=300"
	detailsCacheControl = "public, max-age=600"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	flightService service.FlightService
	logger        *slog.Logger
	now           func() time.Time
	health        map[string]interface{}
}

// Option configures a Handler
type Option func(*Handler)

// WithHealthDetails adds static fields, such as catalog sizes, to the health payload
func WithHealthDetails(details map[string]interface{}) Option {
	return func(h *Handler) {
		h.health = details
	}
}

// NewHandler creates a new Handler instance. now supplies the date used
// when a GET search omits departureDate.
func NewHandler(flightService service.FlightService, logger *slog.Logger, now func() time.Time, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	h := &Handler{
		flightService: flightService,
		logger:        logger,
		now:           now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondInvalid(w http.ResponseWriter, details []string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":   "Invalid search parameters",
		"details": details,
	})
}

func respondInternal(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Internal server error",
		"message": message,
	})
}

// SearchFlights handles POST /api/flights/search
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.search(w, r, req)
}

// SearchFlightsQuery handles GET /api/flights/search
func (h *Handler) SearchFlightsQuery(w http.ResponseWriter, r *http.Request) {
	req, details := h.searchRequestFromQuery(r.URL.Query())
	if len(details) > 0 {
		respondInvalid(w, details)
		return
	}

	h.search(w, r, req)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request, req models.SearchRequest) {
	resp, err := h.flightService.SearchFlights(r.Context(), req)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			respondInvalid(w, validationErr.Details)
			return
		}
		h.logger.Error("Flight search failed", "route", req.Route(), "error", err)
		respondInternal(w, "Could not complete the flight search")
		return
	}

	w.Header().Set("Cache-Control", searchCacheControl)
	respondJSON(w, http.StatusOK, resp)
}

// searchRequestFromQuery builds a search from query parameters, defaulting
// to one adult in economy from EZE to MIA departing today
func (h *Handler) searchRequestFromQuery(q url.Values) (models.SearchRequest, []string) {
	params := service.DefaultSearchParams(h.now())
	var details []string

	if v := q.Get("origin"); v != "" {
		params.Origin = v
	}
	if v := q.Get("destination"); v != "" {
		params.Destination = v
	}
	if v := q.Get("departureDate"); v != "" {
		params.DepartureDate = v
	}
	params.ReturnDate = q.Get("returnDate")
	if v := q.Get("class"); v != "" {
		params.Class = models.CabinClass(v)
	}
	if v := q.Get("tripType"); v != "" {
		params.TripType = models.TripType(v)
	}

	counts := []struct {
		key    string
		target *int
	}{
		{"adults", &params.Passengers.Adults},
		{"children", &params.Passengers.Children},
		{"infants", &params.Passengers.Infants},
	}
	for _, c := range counts {
		v := q.Get(c.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			details = append(details, c.key+" must be a whole number")
			continue
		}
		*c.target = n
	}

	req := models.SearchRequest{SearchParams: params}
	if field := q.Get("sort"); field != "" {
		direction := models.SortDirection(q.Get("direction"))
		if direction == "" {
			direction = models.SortAsc
		}
		req.Sort = &models.SortOptions{Field: models.SortField(field), Direction: direction}
	}

	return req, details
}

// GetFlight handles GET /api/flights/details/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID := mux.Vars(r)["id"]
	if flightID == "" {
		respondError(w, http.StatusBadRequest, "Flight ID is required")
		return
	}

	flight, err := h.flightService.GetFlight(r.Context(), flightID)
	if err != nil {
		if errors.Is(err, service.ErrFlightNotFound) {
			respondError(w, http.StatusNotFound, "Flight not found")
			return
		}
		h.logger.Error("Flight details failed", "flightId", flightID, "error", err)
		respondInternal(w, "Could not load the flight details")
		return
	}

	w.Header().Set("Cache-Control", detailsCacheControl)
	respondJSON(w, http.StatusOK, flight)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status": "healthy",
		"time":   h.now().Format(time.RFC3339),
	}
	for k, v := range h.health {
		body[k] = v
	}
	respondJSON(w, http.StatusOK, body)
}
