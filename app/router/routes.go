// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/app/handlers"
	"github.com/amirphl/bkm-notes/app/middleware"
	"github.com/amirphl/bkm-notes/app/services"
	"github.com/amirphl/bkm-notes/config"
	_ "github.com/amirphl/bkm-notes/docs"
	"github.com/amirphl/bkm-notes/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups the endpoint handlers served by the router
type Handlers struct {
	Note    handlers.NoteHandlerInterface
	Tag     handlers.TagHandlerInterface
	AddNote handlers.AddNoteHandlerInterface
	System  handlers.SystemHandlerInterface
}

// Options carries the optional infrastructure of the router
type Options struct {
	// Storage keeps rate limit counters; nil keeps them in memory
	Storage fiber.Storage
	// Throttle limits /addNote per token; nil disables it
	Throttle *services.IngestThrottle
	// LogWriter receives the JSON access log; nil means stdout
	LogWriter io.Writer
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.Config
	handlers Handlers
	opts     Options
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.Config, h Handlers, opts Options) *FiberRouter {
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stdout
	}

	app := fiber.New(fiber.Config{
		AppName:       "bkm-notes",
		ErrorHandler:  errorHandler,
		BodyLimit:     cfg.Server.BodyLimit,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		CaseSensitive: true,
		ProxyHeader:   cfg.Server.ProxyHeader,
		TrustProxy:    len(cfg.Server.TrustedProxies) > 0,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Proxies: cfg.Server.TrustedProxies,
		},
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
		opts:     opts,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	r.setupMiddleware()

	// Operational endpoints
	r.app.Get("/cron", r.handlers.System.Cron)
	r.app.Get("/health", r.handlers.System.Health)
	r.app.Get("/swagger.json", serveSwaggerJSON)
	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Remote ingestion, guarded by the access gate's token check
	var throttle fiber.Handler = func(c fiber.Ctx) error { return c.Next() }
	if r.opts.Throttle != nil {
		throttle = middleware.IngestThrottle(r.opts.Throttle)
	}
	r.app.Get(middleware.AddNotePath, throttle, r.handlers.AddNote.AddFromQuery)
	r.app.Post(middleware.AddNotePath, throttle, r.handlers.AddNote.AddFromBody)

	api := r.app.Group("/api", limiter.New(limiter.Config{
		Max:        r.cfg.Security.RateLimitMax,
		Expiration: r.cfg.Security.RateLimitWindow,
		Storage:    r.opts.Storage,
		// c.IP honors TrustProxy and ProxyHeader, so a client cannot pick its own key
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests, please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	api.Post("/notes", r.handlers.Note.List)
	api.Post("/notes/create", r.handlers.Note.Create)
	api.Post("/notes/export", r.handlers.Note.Export)
	api.Put("/notes/:id", r.handlers.Note.Update)
	api.Delete("/notes/:id", r.handlers.Note.Delete)
	api.Post("/tags", r.handlers.Tag.List)

	// Single page frontend
	r.app.Get("/*", static.New(r.cfg.Server.PublicDir), r.spaFallback)

	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: fiber.HeaderXRequestID,
		Generator: func() string {
			return uuid.NewString()
		},
	}))

	// Security headers; CSP stays off for the bundled frontend
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "0",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "no-referrer",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins: r.cfg.Security.CORSAllowedOrigins,
		AllowMethods: []string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodHead, fiber.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"apikey",
			"X-Requested-With",
			"X-Request-ID",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"Content-Disposition",
		},
		MaxAge: utils.CORSMaxAge,
	}))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent}}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Stream:     r.opts.LogWriter,
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == r.cfg.Metrics.Path
		},
	}))

	r.app.Use(middleware.NewAuthMiddleware(r.cfg.Security.AuthTokens, r.cfg.Security.IPWhitelist).Gate())

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics())
	}

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNowRFC3339(),
				requestid.FromContext(c),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// spaFallback serves index.html for paths the static handler did not match
func (r *FiberRouter) spaFallback(c fiber.Ctx) error {
	index := filepath.Join(r.cfg.Server.PublicDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return c.Next()
	}
	return c.SendFile(index)
}

// serveSwaggerJSON returns the registered API document
func serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(doc)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	log.Printf("Error %d: %v", code, err)

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}
