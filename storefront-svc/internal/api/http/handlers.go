package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"pizzeria-storefront/storefront-svc/internal/checkout"
	"pizzeria-storefront/storefront-svc/internal/domain"
	"pizzeria-storefront/storefront-svc/internal/notify"
	"pizzeria-storefront/storefront-svc/internal/service"
)

type Handler struct {
	Menu     service.MenuServiceInterface
	Sessions service.SessionServiceInterface
	Orders   service.OrderServiceInterface
	Log      *logrus.Entry
}

func NewHandler(menuSvc service.MenuServiceInterface, sessionSvc service.SessionServiceInterface, orderSvc service.OrderServiceInterface, log *logrus.Entry) *Handler {
	return &Handler{
		Menu:     menuSvc,
		Sessions: sessionSvc,
		Orders:   orderSvc,
		Log:      log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/categories", h.getCategories).Methods("GET")
	r.HandleFunc("/api/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/menu", h.createMenuItem).Methods("POST")

	r.HandleFunc("/api/sessions", h.createSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", h.closeSession).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/cart/items/{itemId}", h.updateCartItem).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/checkout", h.submitCheckout).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/checkout", h.getCheckout).Methods("GET")

	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{Available: true}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	if err := h.Menu.Create(r.Context(), &item); err != nil {
		if errors.Is(err, service.ErrInvalidMenuItem) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.Create(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.View())
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Close(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

type addItemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	if _, err := uuid.Parse(req.ItemID); err != nil {
		writeError(w, http.StatusNotFound, "Menu item not found")
		return
	}
	session, err := h.Sessions.AddItem(r.Context(), mux.Vars(r)["id"], req.ItemID)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	vars := mux.Vars(r)
	session, err := h.Sessions.UpdateQuantity(r.Context(), vars["id"], vars["itemId"], *req.Quantity)
	if err != nil {
		h.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	session, err := h.Sessions.RemoveItem(r.Context(), vars["id"], vars["itemId"])
	if err != nil {
		h.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

type checkoutResponse struct {
	Order         *checkout.Result  `json:"order,omitempty"`
	Error         string            `json:"error,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
	State         checkout.State    `json:"checkout_state"`
	Notifications []notify.Toast    `json:"notifications"`
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var details domain.CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}

	session, result, err := h.Sessions.Checkout(r.Context(), mux.Vars(r)["id"], details)
	if session == nil {
		h.sessionError(w, err)
		return
	}

	resp := checkoutResponse{
		Order:         result,
		State:         session.Checkout.State(),
		Notifications: session.Toasts.Drain(),
	}
	if err == nil {
		writeJSON(w, http.StatusCreated, resp)
		return
	}

	resp.Error = err.Error()
	var validation *checkout.ValidationError
	switch {
	case errors.As(err, &validation):
		resp.Fields = validation.Fields
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrSubmissionInProgress):
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, checkout.ErrOrderNotPlaced):
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		h.Log.WithError(err).Error("[http] unexpected checkout error")
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

func (h *Handler) getCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.Sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.sessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutResponse{
		State:         session.Checkout.State(),
		Notifications: session.Toasts.Drain(),
	})
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(orderID); err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	order, err := h.Orders.Get(r.Context(), orderID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]
	if _, err := uuid.Parse(orderID); err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	qrCode, err := h.Orders.GetQRCode(r.Context(), orderID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		h.internalError(w, err)
		return
	}
	if len(qrCode) == 0 {
		writeError(w, http.StatusNotFound, "QR code not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Menu item not found")
	case errors.Is(err, service.ErrItemUnavailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.internalError(w, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	h.Log.WithError(err).Error("[http] request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
