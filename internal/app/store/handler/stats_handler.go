package handler

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/service"

	"github.com/gin-gonic/gin"
)

// StatsHandler обрабатывает HTTP запросы статистики
type StatsHandler struct {
	statsService service.StatsServiceInterface
}

// NewStatsHandler создает новый обработчик статистики
func NewStatsHandler(statsService service.StatsServiceInterface) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// CountProductsByCategory обрабатывает GET /stats/products/count-by-category
func (h *StatsHandler) CountProductsByCategory(c *gin.Context) {
	counts, err := h.statsService.CountProductsByCategory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products by category"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// AvgPriceByCategory обрабатывает GET /stats/products/avg-price-by-category
func (h *StatsHandler) AvgPriceByCategory(c *gin.Context) {
	rows, err := h.statsService.AvgPriceByCategory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get average prices"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// CategoryStats обрабатывает GET /stats/products/category-stats
func (h *StatsHandler) CategoryStats(c *gin.Context) {
	rows, err := h.statsService.CategoryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category stats"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// TopExpensiveProducts обрабатывает GET /stats/products/top-expensive?limit=5
func (h *StatsHandler) TopExpensiveProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	products, err := h.statsService.TopExpensiveProducts(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get top expensive products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{Products: products, Total: len(products)})
}

// NeverOrderedProducts обрабатывает GET /stats/products/never-ordered
func (h *StatsHandler) NeverOrderedProducts(c *gin.Context) {
	products, err := h.statsService.NeverOrderedProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get never ordered products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{Products: products, Total: len(products)})
}

// MostOrderedProducts обрабатывает GET /stats/products/most-ordered?limit=5
func (h *StatsHandler) MostOrderedProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
		return
	}

	rows, err := h.statsService.MostOrderedProducts(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get most ordered products"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

// Revenue обрабатывает GET /stats/orders/revenue
// Считаются только доставленные заказы
func (h *StatsHandler) Revenue(c *gin.Context) {
	revenue, err := h.statsService.Revenue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get revenue"})
		return
	}

	c.JSON(http.StatusOK, entity.RevenueResponse{Revenue: revenue})
}

// CountOrdersByStatus обрабатывает GET /stats/orders/count-by-status
func (h *StatsHandler) CountOrdersByStatus(c *gin.Context) {
	counts, err := h.statsService.CountOrdersByStatus(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders by status"})
		return
	}

	c.JSON(http.StatusOK, counts)
}
