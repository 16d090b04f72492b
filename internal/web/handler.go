// Package web serves the church website.
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"church-site/internal/contact"
	"church-site/internal/content"
	"church-site/internal/logger"
	"church-site/internal/metrics"
	"church-site/internal/model"
	"church-site/internal/sanity"
)

const pageTimeout = 10 * time.Second

// ImageBuilder turns CMS asset references into CDN URLs.
type ImageBuilder interface {
	ImageURL(ref string, opts sanity.ImageOptions) (string, error)
}

// Options are the dependencies of a Handler.
type Options struct {
	Content   *content.Repository
	Contact   *contact.Service
	Metrics   *metrics.Metrics
	Images    ImageBuilder
	Logger    logger.Logger
	StudioURL string

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Otherwise the connection address is used.
	TrustProxy bool
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	content    *content.Repository
	contact    *contact.Service
	metrics    *metrics.Metrics
	images     ImageBuilder
	log        logger.Logger
	studioURL  string
	trustProxy bool
	pages      *pages
	now        func() time.Time
}

// New creates a new Handler.
func New(opts Options) (*Handler, error) {
	h := &Handler{
		content:    opts.Content,
		contact:    opts.Contact,
		metrics:    opts.Metrics,
		images:     opts.Images,
		log:        opts.Logger,
		studioURL:  strings.TrimRight(opts.StudioURL, "/"),
		trustProxy: opts.TrustProxy,
		now:        time.Now,
	}
	if h.log == nil {
		h.log = logger.NewNop()
	}
	p, err := parsePages(h.funcs())
	if err != nil {
		return nil, err
	}
	h.pages = p
	return h, nil
}

// Routes returns the router serving every page.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if h.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.metrics.Middleware)
	}

	r.Get("/health", h.handleHealth)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(h.withTimeout)
		r.Get("/", h.handleHome)
		r.Get("/about", h.handleAbout)
		r.Get("/ministries", h.handleMinistries)
		r.Get("/ministries/{slug}", h.handleMinistry)
		r.Get("/events", h.handleEvents)
		r.Get("/sermons", h.handleSermons)
		r.Get("/gallery", h.handleGallery)
		r.Get("/give", h.handleGive)
		r.Get("/privacy", h.staticPage("privacy", "Privacy Policy"))
		r.Get("/terms", h.staticPage("terms", "Terms of Use"))

		r.With(noCache).Get("/contact", h.handleContactForm)
		r.With(noCache).Post("/contact", h.handleContactSubmit)
	})

	r.Get("/studio", h.handleStudio)
	r.Get("/studio/*", h.handleStudio)

	r.NotFound(h.handleNotFound)
	return r
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pageTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqLog := h.log.With(logger.String("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", status),
			logger.Int("bytes", ww.BytesWritten()),
			logger.Duration("duration", time.Since(start)),
			logger.String("remote_addr", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			reqLog.Error("HTTP request", fields...)
			return
		}
		reqLog.Info("HTTP request", fields...)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *Handler) handleStudio(w http.ResponseWriter, r *http.Request) {
	if h.studioURL == "" {
		h.handleNotFound(w, r)
		return
	}
	target := h.studioURL
	if rest := chi.URLParam(r, "*"); rest != "" {
		target += "/" + rest
	}
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// settings loads the site settings shown on every page. Errors fall back to
// an empty value so the page still renders.
func (h *Handler) settings(r *http.Request) model.SiteSettings {
	s, err := h.content.SiteSettings(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Warn("Loading site settings failed", logger.Err(err))
	}
	return s
}
