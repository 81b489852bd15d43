package echoServer

import (
	"github.com/labstack/echo/v4"

	"campusbooks/app/echoServer/controller/auth"
	"campusbooks/app/echoServer/controller/book"
	"campusbooks/app/echoServer/controller/cart"
	"campusbooks/app/echoServer/controller/order"
	"campusbooks/app/echoServer/controller/request"
	"campusbooks/app/echoServer/controller/user"
	"campusbooks/app/echoServer/controller/wishlist"
)

type C struct {
	Auth     *auth.Controller
	Book     *book.Controller
	Cart     *cart.Controller
	Order    *order.Controller
	Request  *request.Controller
	User     *user.Controller
	Wishlist *wishlist.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.POST("/auth/forgot-password", c.Auth.ForgotPassword)
	pub.POST("/auth/reset-password/:token", c.Auth.ResetPassword)

	// Authenticated. Role and ownership checks live in the services, not
	// here; the routes only require a valid token.
	api := e.Group("/v1", JWT(c.JWTSecret)...)

	// Catalog
	api.GET("/books", c.Book.List)
	api.GET("/books/:id", c.Book.Detail)

	// Profile
	api.GET("/profile", c.User.Profile)
	api.PUT("/profile", c.User.UpdateProfile)

	// Cart
	api.GET("/cart", c.Cart.List)
	api.POST("/cart/items", c.Cart.Add)
	api.DELETE("/cart/items/:id", c.Cart.Remove)
	api.POST("/cart/checkout", c.Order.Checkout)

	// Orders
	api.POST("/orders", c.Order.Place)
	api.GET("/orders/my", c.Order.ListMine)
	api.POST("/orders/:id/cancel", c.Order.Cancel)
	api.PUT("/orders/:id/quantity", c.Order.EditQuantity)

	// Wishlist
	api.GET("/wishlist", c.Wishlist.List)
	api.POST("/wishlist/:bookID/toggle", c.Wishlist.Toggle)

	// Book requests
	api.GET("/book-requests", c.Request.List)
	api.POST("/book-requests", c.Request.Create)

	// Admin
	api.POST("/admin/books", c.Book.Create)
	api.PUT("/admin/books/:id", c.Book.Update)
	api.DELETE("/admin/books/:id", c.Book.Delete)

	api.GET("/admin/orders", c.Order.ListAll)
	api.POST("/admin/orders/:id/approve", c.Order.Approve)
	api.POST("/admin/orders/:id/cancel", c.Order.AdminCancel)
	api.GET("/admin/stats", c.Order.Stats)

	api.GET("/admin/students", c.User.ListStudents)
	api.PUT("/admin/students/:id", c.User.UpdateStudent)
	api.DELETE("/admin/students/:id", c.User.DeleteStudent)

	api.POST("/admin/book-requests/:id/approve", c.Request.Approve)
	api.POST("/admin/book-requests/:id/reject", c.Request.Reject)
}
