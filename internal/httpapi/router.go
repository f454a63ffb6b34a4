// Package httpapi exposes the auth engine and the notes service as a JSON API on gin.
//
// Every error body is {"message": "..."}; anything unexpected becomes 500
// {"message": "Server error"} and is logged with the underlying cause.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/middleware"
	"github.com/MrEthical07/goNotes/notes"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Auth is the slice of [goNotes.Engine] the handlers call.
type Auth interface {
	middleware.Authenticator
	Register(ctx context.Context, in goNotes.RegisterInput) (*goNotes.AuthResult, error)
	Login(ctx context.Context, email, password string) (*goNotes.AuthResult, error)
	Me(ctx context.Context, userID string) (goNotes.UserRecord, error)
}

// Options configures [NewRouter]. Auth and Notes are required.
type Options struct {
	Auth   Auth
	Notes  *notes.Service
	Logger *slog.Logger

	// Metrics is mounted at GET /metrics when non-nil.
	Metrics http.Handler
	// Health backs GET /healthz; nil always reports ok.
	Health func(ctx context.Context) error

	// ClientDir serves a built single-page client with index.html fallback when set.
	ClientDir string
	// CORSOrigins restricts cross-origin callers; empty allows any origin.
	CORSOrigins []string
}

// NewRouter builds the gin engine with recovery, request logging, CORS and every route.
func NewRouter(opts Options) (*gin.Engine, error) {
	if opts.Auth == nil {
		return nil, errors.New("http router requires auth engine")
	}
	if opts.Notes == nil {
		return nil, errors.New("http router requires notes service")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	h := &handlers{auth: opts.Auth, notes: opts.Notes, logger: logger}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": messageServerError})
	}))
	r.Use(requestLogger(logger))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	r.Use(middleware.ClientContext())

	r.GET("/healthz", healthz(opts.Health))
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.GET("/me", middleware.RequireAuth(opts.Auth), h.me)

	secured := api.Group("/notes", middleware.RequireAuth(opts.Auth))
	secured.GET("", h.listNotes)
	secured.POST("", h.createNote)
	secured.PUT("/:id", h.updateNote)
	secured.DELETE("/:id", h.deleteNote)

	if opts.ClientDir != "" {
		r.Use(static.Serve("/", static.LocalFile(opts.ClientDir, false)))
		r.NoRoute(spaFallback(filepath.Join(opts.ClientDir, "index.html")))
	} else {
		r.NoRoute(notFound)
	}

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
			if err := c.Errors.Last(); err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
		}
		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func spaFallback(index string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			notFound(c)
			return
		}
		c.File(index)
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"message": messageNotFound})
}
