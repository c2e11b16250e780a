package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/pkg/logger"
	"storefront/pkg/metrics"
)

// SetupRoutes настраивает все маршруты сервиса с использованием Gin
func SetupRoutes(
	productHandler *ProductHandler,
	categoryHandler *CategoryHandler,
	supplierHandler *SupplierHandler,
	orderHandler *OrderHandler,
	statsHandler *StatsHandler,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("store"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "store",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Products endpoints
	products := router.Group("/products")
	{
		products.GET("", productHandler.GetAllProducts)            // Список товаров одним запросом
		products.GET("/slow", productHandler.GetAllProductsSlow)   // Список с дозагрузкой связей по одной
		products.GET("/page", productHandler.GetProductsPage)      // Страница товаров
		products.GET("/search", productHandler.SearchProducts)     // Поиск по имени
		products.GET("/price-range", productHandler.GetProductsByPriceRange)
		products.GET("/count", productHandler.CountProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", productHandler.CreateProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.DELETE("/:id", productHandler.DeleteProduct)
		products.PATCH("/:id/stock", productHandler.AdjustStock)            // Корректировка остатка на дельту
		products.POST("/:id/decrease-stock", productHandler.DecreaseStock)  // Списание остатка
	}

	// Categories endpoints
	categories := router.Group("/categories")
	{
		categories.GET("", categoryHandler.GetAllCategories)
		categories.GET("/count", categoryHandler.CountCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.GET("/:id/products", categoryHandler.GetCategoryProducts)
		categories.POST("", categoryHandler.CreateCategory)
		categories.POST("/transfer", categoryHandler.TransferProducts) // Перенос товаров между категориями
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory) // Удаляет и товары категории
	}

	// Suppliers endpoints
	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", supplierHandler.GetAllSuppliers)
		suppliers.GET("/count", supplierHandler.CountSuppliers)
		suppliers.GET("/:id", supplierHandler.GetSupplier)
		suppliers.GET("/:id/products", supplierHandler.GetSupplierProducts)
		suppliers.POST("", supplierHandler.CreateSupplier)
		suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
		suppliers.DELETE("/:id", supplierHandler.DeleteSupplier) // Товары остаются без поставщика
	}

	// Orders endpoints
	orders := router.Group("/orders")
	{
		orders.POST("", orderHandler.CreateOrder) // Оформление заказа со списанием остатков
		orders.GET("", orderHandler.GetAllOrders)
		orders.GET("/count", orderHandler.CountOrders)
		orders.GET("/by-email", orderHandler.GetOrdersByEmail)
		orders.GET("/by-status/:status", orderHandler.GetOrdersByStatus)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus) // Переход по цепочке статусов
		orders.DELETE("/:id", orderHandler.DeleteOrder)
	}

	// Stats endpoints - агрегации считает база
	stats := router.Group("/stats")
	{
		stats.GET("/products/count-by-category", statsHandler.CountProductsByCategory)
		stats.GET("/products/avg-price-by-category", statsHandler.AvgPriceByCategory)
		stats.GET("/products/category-stats", statsHandler.CategoryStats)
		stats.GET("/products/top-expensive", statsHandler.TopExpensiveProducts)
		stats.GET("/products/never-ordered", statsHandler.NeverOrderedProducts)
		stats.GET("/products/most-ordered", statsHandler.MostOrderedProducts)
		stats.GET("/orders/revenue", statsHandler.Revenue)
		stats.GET("/orders/count-by-status", statsHandler.CountOrdersByStatus)
	}

	return router
}
