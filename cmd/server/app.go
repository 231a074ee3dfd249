package main

import (
	"net/http"

	"github.com/diewo77/go-facturas/internal/handlers"
	"github.com/diewo77/go-facturas/internal/middleware"
	"github.com/diewo77/go-facturas/internal/screens"
	"github.com/diewo77/go-facturas/internal/services"
	"github.com/diewo77/go-facturas/session"
	"github.com/diewo77/go-facturas/view"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	handler  http.Handler
	db       *gorm.DB
	api      services.InvoiceAPI
	registry *screens.Registry
	runner   *handlers.Runner
	sessions *session.Manager
	pageSize int
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, api services.InvoiceAPI, reg *screens.Registry, runner *handlers.Runner, sessions *session.Manager, pageSize int, log *zap.Logger) *App {
	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		api:      api,
		registry: reg,
		runner:   runner,
		sessions: sessions,
		pageSize: pageSize,
	}
	app.setupRoutes()
	app.handler = middleware.Chain(app.mux,
		middleware.Logging(log),
		middleware.Recover,
		sessions.Middleware,
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// Customer entry
	eh := handlers.NewEntryHandler(a.registry)
	a.mux.HandleFunc("GET /{$}", eh.Show)
	a.mux.HandleFunc("POST /{$}", eh.Submit)

	// Customer invoice view
	ih := handlers.NewInvoiceHandler(a.registry, a.runner)
	a.mux.HandleFunc("GET /facturas", ih.Index)
	a.mux.HandleFunc("GET /facturas/{$}", ih.Index)
	a.mux.HandleFunc("GET /facturas/{idCliente}", ih.Show)
	a.mux.HandleFunc("POST /facturas/{idCliente}/recargar", ih.Reload)
	a.mux.HandleFunc("POST /facturas/{idCliente}/pago", ih.OpenPayment)
	a.mux.HandleFunc("POST /facturas/{idCliente}/pago/confirmar", ih.ConfirmPayment)
	a.mux.HandleFunc("POST /facturas/{idCliente}/pago/cancelar", ih.ClosePayment)
	a.mux.HandleFunc("POST /facturas/{idCliente}/detalle", ih.OpenDetail)
	a.mux.HandleFunc("POST /facturas/{idCliente}/detalle/cerrar", ih.CloseDetail)

	// Admin invoice view
	ah := handlers.NewAdminHandler(a.registry, a.runner)
	a.mux.HandleFunc("GET "+handlers.AdminBase, ah.Show)
	a.mux.HandleFunc("POST "+handlers.AdminBase+"/buscar", ah.Search)
	a.mux.HandleFunc("POST "+handlers.AdminBase+"/limpiar", ah.Clear)
	a.mux.HandleFunc("POST "+handlers.AdminBase+"/recargar", ah.Reload)
	a.mux.HandleFunc("POST "+handlers.AdminBase+"/detalle", ah.OpenDetail)
	a.mux.HandleFunc("POST "+handlers.AdminBase+"/detalle/cerrar", ah.CloseDetail)

	// JSON API
	api := handlers.NewAPIHandler(a.api, a.pageSize)
	a.mux.HandleFunc("GET /api/clientes/{idCliente}/facturas", api.ListByCustomer)
	a.mux.HandleFunc("POST /api/facturas/{id}/pago", api.Pay)

	a.mux.HandleFunc("GET /healthz", handlers.NewHealthHandler(a.db).Health)

	// Static files
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", view.Static()))
}
