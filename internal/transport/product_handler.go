package transport

import (
	"net/http"

	"vibe-commerce/internal/middleware"
	"vibe-commerce/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductResponse represents one catalog entry as exposed to the UI
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
}

// ProductHandler handles HTTP requests for catalog reads
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
}

// ListProducts handles listing the catalog, ordered by creation time
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	response := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		response = append(response, ProductResponse{
			ID:          p.ID.String(),
			Name:        p.Name,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Description: p.Description,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}
