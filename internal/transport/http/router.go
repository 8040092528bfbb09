package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yagoscalfoni/order-processing/internal/app"
)

// Strategy binds a persistence back-end to its creation route.
// Aliases register the same handler under additional names.
type Strategy struct {
	Name    string
	Creator app.OrderCreator
	Aliases []string
}

type RouterConfig struct {
	Orders     OrderCreatorService
	Strategies []Strategy
	Reader     OrderReader
	Recorder   OutcomeRecorder
	Health     http.Handler
	Metrics    http.Handler
}

// NewRouter builds the route table:
//
//	POST /orders/{strategy}   one route per strategy and alias
//	GET  /orders/{id}         read-back, when a reader is configured
//	GET  /health
//	GET  /metrics             when a metrics handler is configured
func NewRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = NotFoundHandler()
	router.MethodNotAllowedHandler = MethodNotAllowedHandler()

	for _, s := range cfg.Strategies {
		handler := HandleCreateOrder(cfg.Orders, s.Creator, s.Name, cfg.Recorder)
		router.Handle("/orders/"+s.Name, handler).Methods(http.MethodPost)
		for _, alias := range s.Aliases {
			router.Handle("/orders/"+alias, handler).Methods(http.MethodPost)
		}
	}
	if cfg.Reader != nil {
		router.Handle("/orders/{id}", HandleGetOrder(cfg.Reader)).Methods(http.MethodGet)
	}

	health := cfg.Health
	if health == nil {
		health = HealthHandler()
	}
	router.Handle("/health", health).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}
	return router
}
