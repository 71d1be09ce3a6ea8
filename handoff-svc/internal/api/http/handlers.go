package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/handoff-svc/internal/service"
	"pizzeria-storefront/logging"
)

type Handler struct {
	Store service.StoreInterface
	Log   *logrus.Entry
}

func NewHandler(store service.StoreInterface, log *logrus.Entry) *Handler {
	return &Handler{Store: store, Log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/handoffs/{destination}", h.getInbox).Methods("GET")
}

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	handler.RegisterRoutes(r)
	r.Use(logging.Middleware(handler.Log))
	return cors.Default().Handler(r)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"service":   "handoff-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getInbox(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	messages, err := h.Store.Inbox(r.Context(), mux.Vars(r)["destination"], limit)
	if err != nil {
		h.Log.WithError(err).Error("[http] failed to read inbox")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
