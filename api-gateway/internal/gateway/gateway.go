package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/logging"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	StorefrontSvcURL string
	HandoffSvcURL    string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *logrus.Entry
}

func NewGateway(config Config, client HTTPClient, log *logrus.Entry) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	entry := g.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"target": targetURL,
	})
	entry.Debug("[gateway] proxy")

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		entry.WithError(err).Error("[gateway] failed to create request")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		entry.WithError(err).Error("[gateway] upstream unreachable")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		entry.WithError(err).Warn("[gateway] failed to copy response")
	}
}

// Target picks the upstream base URL for an API path, or "" when nothing
// serves it.
func (g *Gateway) Target(path string) string {
	switch {
	case path == "/api/menu", path == "/api/categories":
		return g.config.StorefrontSvcURL
	case hasSegmentPrefix(path, "/api/sessions"), hasSegmentPrefix(path, "/api/orders"):
		return g.config.StorefrontSvcURL
	case strings.HasPrefix(path, "/api/handoffs/"):
		return g.config.HandoffSvcURL
	}
	return ""
}

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	target := g.Target(r.URL.Path)
	if target == "" {
		g.log.WithField("path", r.URL.Path).Warn("[gateway] unmatched API route")
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}
	g.ProxyRequest(w, r, target)
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.Use(logging.Middleware(g.log))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}
