// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cache"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/amirphl/reachbee/app/dto"
	"github.com/amirphl/reachbee/app/handlers"
	applog "github.com/amirphl/reachbee/app/logger"
	"github.com/amirphl/reachbee/app/middleware"
	"github.com/amirphl/reachbee/config"
	"github.com/amirphl/reachbee/utils"
)

const healthPath = "/api/health"

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Content  handlers.ContentHandlerInterface
	Email    handlers.EmailHandlerInterface
	Campaign handlers.CampaignHandlerInterface
	Social   handlers.SocialHandlerInterface
	Workflow *handlers.WorkflowHandler
	Event    *handlers.EventHandler
	Health   *handlers.HealthHandler
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	handlers Handlers
	cfg      *config.ProductionConfig
	logger   *zap.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(h Handlers, cfg *config.ProductionConfig, log *zap.Logger) Router {
	r := &FiberRouter{
		handlers: h,
		cfg:      cfg,
		logger:   log,
	}

	fiberCfg := fiber.Config{
		AppName:      "ReachBee API",
		ServerHeader: "ReachBee",
		ErrorHandler: r.errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	}
	if cfg.Server.ProxyHeader != "" {
		fiberCfg.ProxyHeader = cfg.Server.ProxyHeader
		fiberCfg.TrustProxy = true
		fiberCfg.TrustProxyConfig = fiber.TrustProxyConfig{Proxies: cfg.Server.TrustedProxies}
	}
	r.app = fiber.New(fiberCfg)

	return r
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	r.logger.Info("Setting up routes")

	r.setupMiddleware()

	if r.cfg.Metrics.Enabled {
		r.app.Get(r.cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := r.app.Group("/api")

	api.Get("/health", r.handlers.Health.Health)

	api.Use(r.rateLimiter(r.cfg.Security.GlobalRateLimit, func(c fiber.Ctx) bool {
		// Mail image proxies fetch pixels for many readers from a handful of addresses
		return c.Path() == healthPath || isTrackingPixel(c.Path())
	}))
	generation := r.rateLimiter(r.cfg.Security.GenerationRateLimit, nil)

	content := api.Group("/content")
	content.Post("/generate", generation, r.handlers.Content.GenerateContent)
	content.Post("/generate-image", generation, r.handlers.Content.GenerateImage)
	content.Post("/video-script", generation, r.handlers.Content.GenerateVideoScript)
	content.Post("/brand-kit", generation, r.handlers.Content.GenerateBrandKit)
	content.Post("/save", r.handlers.Content.SaveContent)
	content.Get("/", r.handlers.Content.ListContent)
	content.Get("/:id", r.handlers.Content.GetContent)

	email := api.Group("/email")
	email.Post("/preview", generation, r.handlers.Email.PreviewEmail)
	email.Post("/campaign", generation, r.handlers.Email.CreateCampaign)
	email.Get("/analytics", r.handlers.Email.ListAnalytics)
	email.Get("/analytics/:trackingId", r.handlers.Email.GetAnalytics)
	email.Get("/analytics/:trackingId/export", r.handlers.Email.ExportOpens)
	email.Get("/:trackingId/track", r.handlers.Email.TrackOpen)

	campaigns := api.Group("/campaigns")
	campaigns.Post("/", r.handlers.Campaign.LaunchCampaign)
	campaigns.Get("/", r.handlers.Campaign.ListCampaigns)
	campaigns.Get("/:id", r.handlers.Campaign.GetCampaign)

	social := api.Group("/social")
	social.Post("/twitter/post", r.handlers.Social.PostTweet)
	social.Post("/twitter/batch", r.handlers.Social.PostTweetBatch)
	social.Get("/twitter/analytics", r.handlers.Social.TwitterAnalytics)
	social.Post("/save-image", r.handlers.Social.SaveImage)
	social.Post("/whatsapp/send", r.handlers.Social.SendWhatsApp)
	social.Get("/instagram/:username", r.handlers.Social.AnalyzeInstagram)

	workflow := api.Group("/workflow")
	workflow.Get("/ad-video", r.handlers.Workflow.AdVideoForm)
	workflow.Post("/ad-video", r.handlers.Workflow.AttachAdVideo)

	events := api.Group("/events")
	events.Get("/upcoming", r.handlers.Event.Upcoming)
	events.Post("/refresh", r.handlers.Event.Refresh)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	r.logger.Info("Routes configured successfully")
}

func isTrackingPixel(path string) bool {
	return strings.HasPrefix(path, "/api/email/") && strings.HasSuffix(path, "/track")
}

func (r *FiberRouter) rateLimiter(limit int, next func(c fiber.Ctx) bool) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: next,
	})
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: generateRequestID,
	}))

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.Error("Panic recovered",
				zap.Any("panic", e),
				applog.WithRequestID(requestid.FromContext(c)),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
				zap.String("ip", c.IP()),
				zap.Stack("stack"),
			)
		},
	}))

	if r.cfg.Metrics.Enabled {
		r.app.Use(middleware.Metrics(r.cfg.Metrics.Path))
	}

	// The pixel must be embeddable from mail clients on any origin
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             r.cfg.Security.XFrameOptions,
		HSTSMaxAge:                31536000,
		ContentSecurityPolicy:     r.cfg.Security.CSPPolicy,
		ReferrerPolicy:            r.cfg.Security.ReferrerPolicy,
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(cors.New(cors.Config{
		AllowOrigins:     r.cfg.Security.AllowedOrigins,
		AllowMethods:     r.cfg.Security.AllowedMethods,
		AllowHeaders:     r.cfg.Security.AllowedHeaders,
		ExposeHeaders:    []string{fiber.HeaderXRequestID},
		AllowCredentials: r.cfg.Security.AllowCredentials && !slices.Contains(r.cfg.Security.AllowedOrigins, "*"),
		MaxAge:           r.cfg.Security.CORSMaxAge,
	}))

	if r.cfg.Server.EnableCompression {
		r.app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed,
			Next: func(c fiber.Ctx) bool {
				return isTrackingPixel(c.Path()) || strings.HasSuffix(c.Path(), "/export")
			},
		}))
	}

	// Only the static workflow form and the event calendar tolerate staleness
	r.app.Use(cache.New(cache.Config{
		Next: func(c fiber.Ctx) bool {
			return c.Method() != fiber.MethodGet ||
				(c.Path() != "/api/workflow/ad-video" && c.Path() != "/api/events/upcoming")
		},
		KeyGenerator: func(c fiber.Ctx) string {
			return c.Method() + " " + c.OriginalURL()
		},
		Expiration:          time.Minute,
		DisableCacheControl: false,
	}))

	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","pid":"${pid}","request_id":"${respHeader:X-Request-ID}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath
			},
		}))
	}

	r.app.Use(r.securityMiddleware)
}

// securityMiddleware blocks configured addresses
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	if slices.Contains(r.cfg.Security.IPBlacklist, c.IP()) {
		return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
			Success: false,
			Message: "Access denied from this IP address",
			Error: dto.ErrorDetail{
				Code: "ACCESS_DENIED",
			},
		})
	}
	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	r.logger.Info("Starting server", zap.String("address", address))
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

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

func (r *FiberRouter) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			message = fe.Message
		}
	}

	requestID := requestid.FromContext(c)
	if code >= fiber.StatusInternalServerError {
		r.logger.Error("Request failed",
			zap.Int("status", code),
			applog.WithRequestID(requestID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
