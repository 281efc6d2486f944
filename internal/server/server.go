package server

import (
	"course-store/internal/handler"
	appmiddleware "course-store/internal/middleware"
	"course-store/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	sessions        *service.SessionCoordinator
	authHandler     *handler.AuthHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	webhookHandler  *handler.WebhookHandler
	courseHandler   *handler.CourseHandler
}

func NewServer(
	sessions *service.SessionCoordinator,
	authHandler *handler.AuthHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	webhookHandler *handler.WebhookHandler,
	courseHandler *handler.CourseHandler,
) *Server {
	e := echo.New()

	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		sessions:        sessions,
		authHandler:     authHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		webhookHandler:  webhookHandler,
		courseHandler:   courseHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/courses", s.courseHandler.ListCourses)

	// -------- auth --------
	auth := api.Group("/auth")
	auth.POST("/register", s.authHandler.Register)
	auth.POST("/login", s.authHandler.Login)
	auth.POST("/logout", s.authHandler.Logout)
	auth.GET("/me", s.authHandler.Me, appmiddleware.RequireAuth(s.sessions))

	// -------- buyer surface --------
	requireAuth := appmiddleware.RequireAuth(s.sessions)
	api.GET("/me/courses", s.courseHandler.MyCourses, requireAuth)

	cart := api.Group("/cart", requireAuth)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items/:id", s.cartHandler.SetQuantity)
	cart.DELETE("/items/:id", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)

	checkout := api.Group("/checkout", requireAuth)
	checkout.POST("/preference", s.checkoutHandler.CreatePreference)

	// -------- gateway webhooks --------
	api.POST("/payments/webhook", s.webhookHandler.HandleNotification)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
