package server

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/shared"
)

// Options configures [NewRouter].
type Options struct {
	Store      models.Store
	Config     shared.ServerConfig
	CodeLength int
	Logger     *log.Logger
	Metrics    *Metrics // optional; nil disables /metrics and request instrumentation
}

// NewRouter assembles the composition service: API, health, metrics, and static client routes behind the
// middleware stack.
//
// Middleware order, outermost first: request id, recover, logging, metrics, CORS, rate limit.
func NewRouter(opts Options) (*BasicRouter, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Recover(opts.Logger), Logging(opts.Logger))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(CORS(opts.Config.AllowedOrigins), RateLimit(opts.Config.RateLimit, opts.Config.RateBurst))

	router.Handler(NewCompositionHandler(opts.Store, opts.CodeLength, opts.Logger))
	router.Handler(NewHealthHandler(opts.Store))
	if opts.Metrics != nil {
		router.Handle("GET", "/metrics", opts.Metrics.Handler())
	}

	if opts.Config.StaticDir != "" {
		static, err := NewStaticHandler(opts.Config.StaticDir)
		if err != nil {
			return nil, err
		}
		router.Handler(static)
	}

	return router, nil
}
