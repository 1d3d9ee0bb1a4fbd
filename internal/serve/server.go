package serve

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/rview/internal/demo"
	"github.com/vango-dev/rview/internal/errors"
	"github.com/vango-dev/rview/pkg/ssr"
	"github.com/vango-dev/rview/pkg/view"
)

// DefaultSyncInterval is used when Config.SyncInterval is not positive.
const DefaultSyncInterval = 50 * time.Millisecond

// Config configures a Server.
type Config struct {
	// Logger receives request and session logs.
	// Default: slog.Default()
	Logger *slog.Logger

	// ViewOptions are passed to every build and hydration.
	ViewOptions []view.Option

	// Gatherer is exposed on /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	// SyncInterval is how often live sessions look for changes.
	SyncInterval time.Duration
}

// Server routes example pages and live sessions.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns a server with its routes registered.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.SyncInterval <= 0 {
		config.SyncInterval = DefaultSyncInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:    ctx,
		cancel: cancel,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/live.js", s.handleScript)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/examples/{name}", s.handleExample)
	r.Get("/examples/{name}/live", s.handleLive)
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Close ends every live session.
func (s *Server) Close() { s.cancel() }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.config.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) ssrOptions() []ssr.Option {
	return []ssr.Option{ssr.WithViewOptions(s.config.ViewOptions...)}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	items := make([]*view.Builder, 0, len(demo.All()))
	for _, ex := range demo.All() {
		items = append(items, view.Li(
			view.A("/examples/"+ex.Name, view.TextValue(ex.Name)),
			view.Span(view.TextValue(ex.Summary)),
		))
	}
	page := view.Main(view.H1(view.TextValue("rview examples")), view.Ul(items...))
	s.writePage(w, r, "rview examples", page)
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	ex, err := demo.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writePage(w, r, ex.Name, examplePage(ex))
}

// examplePage is the example's markup followed by the live client.
func examplePage(ex demo.Example) *view.Builder {
	return view.Main(
		ex.New(),
		view.Element("script").
			WithAttr("src", "/live.js").
			WithAttr("data-example", ex.Name),
	)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, title string, b *view.Builder) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ssr.RenderPage(r.Context(), w, title, b, s.ssrOptions()...); err != nil {
		s.config.Logger.Error("render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	fmt.Fprint(w, liveScript)
}

// Run serves h on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("serving examples", "addr", addr)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E063").
			WithDetail(fmt.Sprintf("Listening on %s failed.", addr)).
			Wrap(err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
