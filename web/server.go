package web

import (
	"net/http"
	"time"

	"tradesim/config"
	"tradesim/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Server is the HTTP presentation layer. It translates form values into
// typed service calls and typed failures into status codes; it never touches
// the ledger store directly.
type Server struct {
	router    *gin.Engine
	users     service.UserService
	trading   service.TradingService
	quotes    service.QuoteProvider
	jwtSecret []byte
}

// NewServer creates the HTTP server and registers all routes
func NewServer(cfg *config.Config, users service.UserService, trading service.TradingService, quotes service.QuoteProvider) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		users:     users,
		trading:   trading,
		quotes:    quotes,
		jwtSecret: []byte(cfg.JWTSecret),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	// Public routes
	router.POST("/register", s.handleRegister)
	router.POST("/login", s.handleLogin)

	// Protected routes
	auth := router.Group("/")
	auth.Use(s.jwtAuth())
	{
		auth.GET("/quote/:symbol", s.handleQuote)
		auth.POST("/buy", s.handleBuy)
		auth.POST("/sell", s.handleSell)
		auth.POST("/deposit", s.handleDeposit)
		auth.GET("/portfolio", s.handlePortfolio)
		auth.GET("/history", s.handleHistory)
		auth.GET("/profile", s.handleProfile)
		auth.POST("/password", s.handleChangePassword)
	}

	s.router = router
	return s
}

// Handler returns the root http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs each request with structured fields
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Info("Request handled")
	}
}
