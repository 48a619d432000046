package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/2beens/gymdash/internal/dashboard"
	"github.com/2beens/gymdash/internal/middleware"
	"github.com/2beens/gymdash/internal/telemetry/tracing"
	"github.com/2beens/gymdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type NewServerParams struct {
	ApiURL                  string
	ApiToken                string
	RequestTimeout          time.Duration
	MaxUploadSizeMB         int64
	HoneycombTracingEnabled bool
}

// Server hosts the dashboard page for a single session.
type Server struct {
	httpServer   *http.Server
	dash         *dashboard.Dashboard
	handler      *Handler
	otelShutdown func()
}

func NewServer(params NewServerParams) (*Server, error) {
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymdash-dashboard")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	view := dashboard.NewMemoryView()
	renderer := dashboard.NewSVGRenderer(0, 0)
	dash := dashboard.NewDashboard(dashboard.NewDashboardParams{
		Client: dashboard.NewApiClient(dashboard.ClientConfig{
			BaseURL:  params.ApiURL,
			Timeout:  params.RequestTimeout,
			ApiToken: params.ApiToken,
		}),
		View:     view,
		Renderer: renderer,
	})

	maxUploadSizeMB := params.MaxUploadSizeMB
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 10
	}

	return &Server{
		dash:         dash,
		handler:      NewHandler(dash, view, renderer, maxUploadSizeMB),
		otelShutdown: otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymdash-dashboard-router"))

	s.handler.SetupRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")

	r.Use(middleware.LogRequest())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// Serve loads the initial page state and starts listening; it does not block.
func (s *Server) Serve(ctx context.Context, host string, port int) {
	if err := s.dash.Initialize(ctx); err != nil {
		log.Errorf("initialize dashboard: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof(" > dashboard listening on: [%s]", ipAndPort)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("dashboard server: %s", err)
		}
	}()
}

func (s *Server) GracefulShutdown() {
	maxWaitDuration := time.Second * 10
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown dashboard server: %s", err)
		}
	}
	if s.otelShutdown != nil {
		s.otelShutdown()
	}
	log.Warnln("dashboard server shut down")
}
