package server

// #region imports
import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/danielpatrickdp/orchestra/internal/logging"
	"github.com/danielpatrickdp/orchestra/internal/orchestrator"
)

// #endregion

// #region options

// Options configure the HTTP front end.
type Options struct {
	Addr         string
	RateLimit    float64 // requests per second across all clients, 0 = unlimited
	RateBurst    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Gatherer     prometheus.Gatherer // nil = default registry
	Logger       *zerolog.Logger
}

// #endregion

// #region server

// Server exposes a Manager over HTTP.
type Server struct {
	manager    *orchestrator.Manager
	router     *chi.Mux
	httpServer *http.Server
	log        zerolog.Logger
}

func New(m *orchestrator.Manager, opts Options) *Server {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	s := &Server{
		manager: m,
		log:     logging.Component(logger, "server"),
	}
	s.router = s.routes(opts)
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) routes(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(accessLog(s.log))

	r.Get("/health", s.handleHealth)

	metricsHandler := promhttp.Handler()
	if opts.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimit > 0 {
			burst := opts.RateBurst
			if burst < 1 {
				burst = 1
			}
			r.Use(rateLimit(rate.NewLimiter(rate.Limit(opts.RateLimit), burst)))
		}
		r.Post("/query", s.handleQuery)
		r.Get("/conversations/{id}", s.handleHistory)
		r.Get("/agents", s.handleAgents)
		r.Get("/agents/{id}/metrics", s.handleAgentMetrics)
	})
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// #endregion
