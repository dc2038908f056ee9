package transport

import (
	"encoding/json"
	"net/http"

	"vibe-commerce/internal/middleware"
	"vibe-commerce/internal/repository"
	"vibe-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart request payload. Qty is
// optional; anything below 1 is treated as 1.
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty"`
}

// UpdateQtyRequest represents the quantity update request payload
type UpdateQtyRequest struct {
	Qty int `json:"qty"`
}

// CartItemResponse represents a persisted line item returned from a
// cart mutation
type CartItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId,omitempty"`
	Qty       int    `json:"qty"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/", h.AddToCart)
		r.Patch("/{id}", h.UpdateQty)
		r.Delete("/{id}", h.RemoveItem)
	})
}

// GetCart handles reading the priced cart view
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// AddToCart handles merging a product into the cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))

		// A missing productId is a validation error, not a malformed body
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid productId")
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.AddToCart(r.Context(), userID, req.ProductID, req.Qty)
	if err != nil {
		switch err {
		case service.ErrInvalidProductID:
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid productId")
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		default:
			h.logger.Error("Failed to add to cart", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add to cart")
		}
		return
	}

	h.logger.Info("Item added to cart",
		zap.String("user_id", userID),
		zap.String("product_id", item.ProductID.String()),
		zap.Int("qty", item.Qty),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, CartItemResponse{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),
		Qty:       item.Qty,
	})
}

// UpdateQty handles setting a line item's quantity
func (h *CartHandler) UpdateQty(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID := chi.URLParam(r, "id")

	var req UpdateQtyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("Update qty decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.cartService.UpdateQty(r.Context(), userID, itemID, req.Qty)
	if err != nil {
		switch err {
		case service.ErrInvalidItemID:
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid id")
		case service.ErrInvalidQty:
			middleware.RespondWithError(w, http.StatusBadRequest, "qty must be >= 1")
		case repository.ErrCartItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "Cart item not found")
		default:
			h.logger.Error("Failed to update cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartItemResponse{
		ID:  item.ID.String(),
		Qty: item.Qty,
	})
}

// RemoveItem handles deleting a line item; success has no body
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	itemID := chi.URLParam(r, "id")

	if err := h.cartService.RemoveItem(r.Context(), userID, itemID); err != nil {
		switch err {
		case service.ErrInvalidItemID:
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid id")
		case repository.ErrCartItemNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "Cart item not found")
		default:
			h.logger.Error("Failed to remove cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
