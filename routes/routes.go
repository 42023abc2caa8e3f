package routes

import (
	"net/http"

	"github.com/fhammsnutribites-bit/fhamms-service/handlers"
	customMiddleware "github.com/fhammsnutribites-bit/fhamms-service/middleware"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Auth
	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)

	// Users
	api.GET("/users", handlers.GetUsers, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.DELETE("/users/:id", handlers.DeleteUser, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.GET("/users/me", handlers.GetMe, customMiddleware.AuthMiddleware)
	api.PUT("/users/me", handlers.UpdateMe, customMiddleware.AuthMiddleware)
	api.POST("/users/me/address", handlers.AddAddress, customMiddleware.AuthMiddleware)
	api.PUT("/users/me/address/:idx", handlers.UpdateAddress, customMiddleware.AuthMiddleware)
	api.DELETE("/users/me/address/:idx", handlers.DeleteAddress, customMiddleware.AuthMiddleware)
	api.POST("/users/me/payment", handlers.AddPaymentMethod, customMiddleware.AuthMiddleware)
	api.PUT("/users/me/payment/:idx", handlers.UpdatePaymentMethod, customMiddleware.AuthMiddleware)
	api.DELETE("/users/me/payment/:idx", handlers.DeletePaymentMethod, customMiddleware.AuthMiddleware)

	// Products
	api.GET("/products", handlers.GetProducts)
	api.GET("/products/:id", handlers.GetProduct)
	api.POST("/products", handlers.CreateProduct, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.PUT("/products/:id", handlers.UpdateProduct, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.DELETE("/products/:id", handlers.DeleteProduct, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)

	// Cart: optional auth so both users and guests (X-Session-Id) are served
	api.GET("/cart", handlers.GetCart, customMiddleware.OptionalAuthMiddleware)
	api.DELETE("/cart", handlers.ClearCart, customMiddleware.OptionalAuthMiddleware)
	api.POST("/cart/items", handlers.AddCartItem, customMiddleware.OptionalAuthMiddleware)
	api.PUT("/cart/items/:itemId", handlers.UpdateCartItem, customMiddleware.OptionalAuthMiddleware)
	api.DELETE("/cart/items/:itemId", handlers.RemoveCartItem, customMiddleware.OptionalAuthMiddleware)
	api.POST("/cart/merge", handlers.MergeCart, customMiddleware.AuthMiddleware)

	// Promo codes
	api.POST("/promo-codes/validate", handlers.ValidatePromoCode)
	api.GET("/promo-codes", handlers.GetPromoCodes, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.GET("/promo-codes/:id", handlers.GetPromoCode, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.POST("/promo-codes", handlers.CreatePromoCode, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.PUT("/promo-codes/:id", handlers.UpdatePromoCode, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.DELETE("/promo-codes/:id", handlers.DeletePromoCode, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)

	// Delivery charges
	api.POST("/delivery-charges/calculate", handlers.CalculateDeliveryCharge)
	api.GET("/delivery-charges", handlers.GetDeliveryCharges, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.GET("/delivery-charges/:id", handlers.GetDeliveryCharge, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.POST("/delivery-charges", handlers.CreateDeliveryCharge, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.PUT("/delivery-charges/:id", handlers.UpdateDeliveryCharge, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.DELETE("/delivery-charges/:id", handlers.DeleteDeliveryCharge, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.PATCH("/delivery-charges/:id/toggle", handlers.ToggleDeliveryCharge, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)

	// Orders
	api.POST("/orders", handlers.CreateOrder, customMiddleware.AuthMiddleware)
	api.GET("/orders", handlers.GetOrders, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)
	api.GET("/orders/my", handlers.GetMyOrders, customMiddleware.AuthMiddleware)
	api.GET("/orders/:id", handlers.GetOrder, customMiddleware.AuthMiddleware)
	api.PUT("/orders/:id/deliver", handlers.DeliverOrder, customMiddleware.AuthMiddleware, customMiddleware.AdminMiddleware)

	// Reviews
	api.GET("/reviews/product/:productId", handlers.GetProductReviews)
	api.GET("/reviews/user/:productId/:orderId", handlers.GetUserReview, customMiddleware.AuthMiddleware)
	api.POST("/reviews", handlers.CreateOrUpdateReview, customMiddleware.AuthMiddleware)
	api.DELETE("/reviews/:reviewId", handlers.DeleteReview, customMiddleware.AuthMiddleware)
}
