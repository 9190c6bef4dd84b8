package server

import (
	"context"
	"log/slog"
	"net/http"

	"secondhand-market/internal/auth"
	"secondhand-market/internal/handler"
	mw "secondhand-market/internal/middleware"
	"secondhand-market/internal/model"
	"secondhand-market/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Users    service.UserService
	Products service.ProductService
	Bookings service.BookingService
	Wishlist service.WishlistService
	Payments service.PaymentService
}

type Server struct {
	echo           *echo.Echo
	tokens         *auth.TokenService
	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	bookingHandler *handler.BookingHandler
	paymentHandler *handler.PaymentHandler
}

func NewServer(services Services, tokens *auth.TokenService, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		tokens:         tokens,
		userHandler:    handler.NewUserHandler(services.Users, tokens),
		productHandler: handler.NewProductHandler(services.Products),
		bookingHandler: handler.NewBookingHandler(services.Bookings, services.Wishlist),
		paymentHandler: handler.NewPaymentHandler(services.Payments),
	}

	s.setupRoutes()
	return s
}

// only builds the middleware chain for a role-gated route
func (s *Server) only(role model.Role) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{mw.Authenticate(s.tokens), mw.RequireRole(role)}
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth / users --------
	e.GET("/auth", s.userHandler.IssueToken)
	e.GET("/users", s.userHandler.ListUsers)
	e.GET("/users/:id", s.userHandler.GetUser)
	e.POST("/users", s.userHandler.CreateUser)
	e.PATCH("/users", s.userHandler.VerifyUser, s.only(model.RoleAdmin)...)
	e.DELETE("/delete-buyer", s.userHandler.DeleteBuyer, s.only(model.RoleAdmin)...)
	e.DELETE("/delete-seller", s.userHandler.DeleteSeller, s.only(model.RoleAdmin)...)

	// -------- catalog --------
	e.GET("/categories", s.productHandler.ListCategories)
	e.GET("/products", s.productHandler.ListProducts)
	e.GET("/my-products", s.productHandler.MyProducts, s.only(model.RoleSeller)...)
	e.POST("/products", s.productHandler.CreateProduct, s.only(model.RoleSeller)...)
	e.PATCH("/products", s.productHandler.Advertise, s.only(model.RoleSeller)...)
	e.DELETE("/delete-products", s.productHandler.DeleteProduct, s.only(model.RoleSeller)...)

	// -------- bookings / wishlist --------
	e.GET("/bookings", s.bookingHandler.ListBookings, s.only(model.RoleBuyer)...)
	e.POST("/bookings", s.bookingHandler.Book, s.only(model.RoleBuyer)...)
	e.GET("/wishlist", s.bookingHandler.ListWishlist, s.only(model.RoleBuyer)...)
	e.POST("/wishlist", s.bookingHandler.AddToWishlist, s.only(model.RoleBuyer)...)
	e.DELETE("/wishlist", s.bookingHandler.RemoveFromWishlist, s.only(model.RoleBuyer)...)

	// -------- payments --------
	e.POST("/create-payment-intent", s.paymentHandler.CreatePaymentIntent)
	e.POST("/payment", s.paymentHandler.RecordPayment)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
