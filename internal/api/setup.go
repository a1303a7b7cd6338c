package api

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Belphemur/ShowRegistry/internal/services"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Options configures NewRouter.
type Options struct {
	// PublicDir is the directory of static assets.
	PublicDir string

	// Compression enables gzip/brotli/zstd response compression.
	Compression bool

	// Sentry reports panics to the Sentry hub; sentry.Init must have been called.
	Sentry bool

	Logger zerolog.Logger
}

// NewRouter creates the HTTP handler of the service with logging, metrics,
// panic recovery and the show registry routes.
func NewRouter(shows services.ShowService, opts Options) http.Handler {
	s := &server{shows: shows}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(opts.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	if opts.Sentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(requestMetrics)
	if opts.Compression {
		r.Use(compress)
	}
	// "/api/shows/" routes like "/api/shows"; HEAD is answered by the GET handlers.
	r.Use(middleware.StripSlashes)
	r.Use(middleware.GetHead)

	r.Get("/api/shows", s.listShows)
	r.Post("/api/shows", s.createShow)
	r.Get("/api/shows/{id}", s.getShow)
	r.Put("/api/shows/{id}", s.updateShow)
	r.Delete("/api/shows/{id}", s.deleteShow)

	r.Get("/api/entries", s.listEntries)
	r.Post("/api/entries", s.createEntry)
	r.Get("/api/entries/{entryID}", s.getEntry)
	r.Put("/api/entries/{entryID}", s.replaceEntry)
	r.Delete("/api/entries/{entryID}", s.removeEntry)

	r.Get("/healthz", s.health)
	r.Get("/services", servicesHandler(opts.PublicDir))
	r.NotFound(staticHandler(opts.PublicDir).ServeHTTP)

	return r
}

// NewHTTPServer wraps handler in an http.Server listening on address:port.
func NewHTTPServer(address string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(address, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
