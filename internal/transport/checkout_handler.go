package transport

import (
	"bytes"
	"encoding/json"
	"net/http"

	"vibe-commerce/internal/middleware"
	"vibe-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout request payload. CartItems is
// kept raw so that a non-array value can be rejected with a precise
// message instead of a generic decode error.
type CheckoutRequest struct {
	CartItems json.RawMessage `json:"cartItems"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
}

// CheckoutResponse wraps the minted receipt
type CheckoutResponse struct {
	Receipt ReceiptResponse `json:"receipt"`
}

// ReceiptResponse represents the receipt as exposed to the UI
type ReceiptResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Total     float64 `json:"total"`
	Timestamp string  `json:"timestamp"`
}

// CheckoutHandler handles HTTP requests for checkout
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers the checkout route
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.Checkout)
}

var jsonNull = []byte("null")

// Checkout handles converting a submitted cart snapshot into a receipt
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Checkout decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Missing or null cartItems is an empty snapshot; anything present
	// must be an array.
	items := []service.CheckoutItem{}
	if len(req.CartItems) > 0 && !bytes.Equal(req.CartItems, jsonNull) {
		if err := json.Unmarshal(req.CartItems, &items); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "cartItems must be an array")
			return
		}
	}

	receipt, err := h.checkoutService.Checkout(r.Context(), userID, items, req.Name, req.Email)
	if err != nil {
		switch err {
		case service.ErrMissingCustomer:
			middleware.RespondWithError(w, http.StatusBadRequest, "name and email are required")
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to checkout")
		}
		return
	}

	h.logger.Info("Checkout completed",
		zap.String("user_id", userID),
		zap.String("receipt_id", receipt.ID),
		zap.Float64("total", receipt.Total),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CheckoutResponse{
		Receipt: ReceiptResponse{
			ID:        receipt.ID,
			Name:      receipt.Name,
			Email:     receipt.Email,
			Total:     receipt.Total,
			Timestamp: receipt.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		},
	})
}
