package router

import (
	"dreamKeys/internal/rest"

	"github.com/labstack/echo/v4"
)

// Guards are the authorization policies applied per route.
type Guards struct {
	AuthRequired echo.MiddlewareFunc
	ResolveActor echo.MiddlewareFunc
	AdminOnly    echo.MiddlewareFunc
}

func (g Guards) authenticated() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.AuthRequired, g.ResolveActor}
}

func (g Guards) admin() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{g.AuthRequired, g.ResolveActor, g.AdminOnly}
}

type Handlers struct {
	Token    *rest.TokenHandler
	User     *rest.UserHandler
	Property *rest.PropertyHandler
	Bid      *rest.BidHandler
	Payments *rest.PaymentsHandler
	Webhook  *rest.WebhookHandler
	Wishlist *rest.WishlistHandler
	Report   *rest.ReportHandler
}

// Setup registers every API route on the group.
func Setup(api *echo.Group, h Handlers, g Guards) {
	SetupTokenRoutes(api, h.Token)
	SetupUserRoutes(api, h.User, g)
	SetupPropertyRoutes(api, h.Property, h.Report, g)
	SetupReportRoutes(api, h.Report, g)
	SetupWishlistRoutes(api, h.Wishlist, g)
	SetupBidRoutes(api, h.Bid, g)
	SetPaymentsRoutes(api, h.Payments, g)
	SetWebhookHandler(api, h.Webhook)
}

func SetupTokenRoutes(api *echo.Group, handler *rest.TokenHandler) {
	api.POST("/jwt", handler.IssueToken)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, g Guards) {
	users := api.Group("/users")

	users.POST("", handler.Register, g.authenticated()...)
	users.GET("/role", handler.GetRole, g.authenticated()...)
	users.GET("", handler.GetAllUsers, g.admin()...)
	users.PATCH("/:id/role", handler.UpdateRole, g.admin()...)
	users.PATCH("/:id/fraud", handler.MarkFraud, g.admin()...)
	users.DELETE("/:id", handler.DeleteUser, g.admin()...)
}

func SetupPropertyRoutes(api *echo.Group, handler *rest.PropertyHandler, reports *rest.ReportHandler, g Guards) {
	properties := api.Group("/properties")

	properties.GET("", handler.GetAllProperties)
	properties.GET("/advertised", handler.GetAdvertisedProperties)
	properties.GET("/:id", handler.GetPropertyByID)

	properties.POST("", handler.CreateProperty, g.authenticated()...)
	properties.PATCH("/:id", handler.UpdateProperty, g.authenticated()...)
	properties.PATCH("/:id/advertise", handler.AdvertiseProperty, g.authenticated()...)
	properties.PATCH("/:id/remove-advertise", handler.RemoveAdvertiseProperty, g.authenticated()...)
	properties.DELETE("/:id", handler.DeleteProperty, g.authenticated()...)
	properties.POST("/:id/report", reports.ReportProperty, g.authenticated()...)

	properties.PATCH("/:id/verify", handler.VerifyProperty, g.admin()...)
	properties.DELETE("/agent/:userId", handler.DeletePropertiesByAgent, g.admin()...)
}

func SetupReportRoutes(api *echo.Group, handler *rest.ReportHandler, g Guards) {
	reports := api.Group("/reports", g.admin()...)
	reports.GET("", handler.GetAllReports)
	reports.DELETE("/:id", handler.DeleteReport)
}

func SetupWishlistRoutes(api *echo.Group, handler *rest.WishlistHandler, g Guards) {
	wishlist := api.Group("/wishlist", g.authenticated()...)
	wishlist.POST("", handler.AddToWishlist)
	wishlist.GET("", handler.GetWishlist)
	wishlist.GET("/:id", handler.GetWishlistItem)
	wishlist.DELETE("/:id", handler.RemoveFromWishlist)
}

func SetupBidRoutes(api *echo.Group, handler *rest.BidHandler, g Guards) {
	api.POST("/bids", handler.CreateBid, g.authenticated()...)
	api.GET("/bids/:email", handler.GetBuyerBids, g.authenticated()...)
	api.PATCH("/bids/:id", handler.UpdateBidStatus, g.authenticated()...)
	api.GET("/agentBids/:email", handler.GetAgentBids, g.authenticated()...)
	api.GET("/get-bid/:id", handler.GetBid, g.authenticated()...)
}

func SetPaymentsRoutes(api *echo.Group, handler *rest.PaymentsHandler, g Guards) {
	payments := api.Group("/payments", g.authenticated()...)
	payments.POST("/intent", handler.CreateIntent)
	payments.POST("", handler.Settle)
	payments.GET("", handler.GetAllPayments)
	payments.GET("/:email", handler.GetBuyerPayments)
}

func SetWebhookHandler(api *echo.Group, handler *rest.WebhookHandler) {
	webhook := api.Group("/webhook")
	webhook.POST("/stripe", handler.HandleStripeWebhook)
}
