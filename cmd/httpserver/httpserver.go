// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sara115al/banking-transaction-system/internal/accountdelivery"
	"github.com/sara115al/banking-transaction-system/internal/accountrepo"
	"github.com/sara115al/banking-transaction-system/internal/accountservice"
	"github.com/sara115al/banking-transaction-system/internal/customerdelivery"
	"github.com/sara115al/banking-transaction-system/internal/customerrepo"
	"github.com/sara115al/banking-transaction-system/internal/customerservice"
	"github.com/sara115al/banking-transaction-system/internal/middleware"
	"github.com/sara115al/banking-transaction-system/internal/transferdelivery"
	"github.com/sara115al/banking-transaction-system/internal/transferrepo"
	"github.com/sara115al/banking-transaction-system/internal/transferservice"
	"github.com/sara115al/banking-transaction-system/pkg/configpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	customerRepo := customerrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)

	accountService := accountservice.New(accountRepo, transferRepo)
	transferService := transferservice.New(transferRepo, accountService)
	customerService := customerservice.New(customerRepo, accountService)

	customerHandler := customerdelivery.NewHandler(customerService)
	accountHandler := accountdelivery.NewHandler(accountService, customerService)
	transferHandler := transferdelivery.NewHandler(transferService, accountService, customerService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.GET("/customers", customerHandler.List)
	engine.POST("/customers", customerHandler.Create)
	engine.GET("/customers/:customer_id", customerHandler.Get)
	engine.PATCH("/customers/:customer_id", customerHandler.Update)
	engine.DELETE("/customers/:customer_id", customerHandler.Delete)

	engine.GET("/customers/:customer_id/accounts", accountHandler.List)
	engine.POST("/customers/:customer_id/accounts", accountHandler.Create)
	engine.GET("/customers/:customer_id/accounts/:account_id", accountHandler.Get)
	engine.GET("/customers/:customer_id/accounts/:account_id/balance", accountHandler.GetBalance)
	engine.PATCH("/customers/:customer_id/accounts/:account_id", accountHandler.SetBalance)
	engine.DELETE("/customers/:customer_id/accounts/:account_id", accountHandler.Delete)

	engine.GET("/customers/:customer_id/accounts/:account_id/transfers", transferHandler.List)
	engine.POST("/customers/:customer_id/accounts/:account_id/transfers", transferHandler.Create)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
