package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/zephyr-app/core/internal/adapters/http"
	"github.com/zephyr-app/core/internal/adapters/repository"
	"github.com/zephyr-app/core/internal/application/services"
	"github.com/zephyr-app/core/internal/infrastructure/config"
	"github.com/zephyr-app/core/internal/infrastructure/database"
	"github.com/zephyr-app/core/internal/infrastructure/logger"
	"github.com/zephyr-app/core/internal/infrastructure/storage"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	db       *database.DB
	notifier *services.NotifierService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}

	// Initialize the key-value store and repositories
	store := storage.NewStore(db, appLogger, registry)

	taskRepo := repository.NewTaskRepository(store, appLogger)
	noteRepo := repository.NewNoteRepository(store, appLogger)
	journalRepo := repository.NewJournalRepository(store, appLogger)
	eventRepo := repository.NewEventRepository(store, appLogger)
	sessionRepo := repository.NewSessionRepository(store, appLogger)
	notificationRepo := repository.NewNotificationRepository(store, appLogger, cfg.Notifier.Retention)
	settingsRepo := repository.NewSettingsRepository(store, appLogger)
	timerRepo := repository.NewTimerRepository(store, appLogger)

	// Deleting a folder nulls the references in its own collection's records.
	taskFolderRepo := repository.NewFolderRepository(store, repository.KeyTaskFolders, appLogger, taskRepo.ClearFolder)
	noteFolderRepo := repository.NewFolderRepository(store, repository.KeyNoteFolders, appLogger, noteRepo.ClearFolder)

	// Initialize services
	taskService := services.NewTaskService(taskRepo, taskFolderRepo, appLogger)
	taskFolderService := services.NewFolderService(taskFolderRepo, "tasks", appLogger)
	noteService := services.NewNoteService(noteRepo, noteFolderRepo, appLogger)
	noteFolderService := services.NewFolderService(noteFolderRepo, "notes", appLogger)
	journalService := services.NewJournalService(journalRepo, appLogger)
	eventService := services.NewEventService(eventRepo, appLogger)
	sessionService := services.NewSessionService(sessionRepo, appLogger)
	notificationService := services.NewNotificationService(notificationRepo, cfg.Notifier, appLogger, registry)
	timerService := services.NewTimerService(timerRepo, sessionRepo, settingsRepo, notificationService, appLogger)
	settingsService := services.NewSettingsService(settingsRepo, appLogger)
	searchService := services.NewSearchService(noteRepo, journalRepo, eventRepo, taskRepo, appLogger)
	transferService := services.NewTransferService(noteRepo, journalRepo, appLogger)
	notifierService := services.NewNotifierService(taskRepo, eventRepo, journalRepo, settingsRepo, notificationService, cfg.Notifier, appLogger, registry)

	// Initialize handlers
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	taskFolderHandler := httpHandlers.NewFolderHandler(taskFolderService, appLogger)
	noteHandler := httpHandlers.NewNoteHandler(noteService, appLogger)
	noteFolderHandler := httpHandlers.NewFolderHandler(noteFolderService, appLogger)
	journalHandler := httpHandlers.NewJournalHandler(journalService, appLogger)
	eventHandler := httpHandlers.NewEventHandler(eventService, appLogger)
	timerHandler := httpHandlers.NewTimerHandler(timerService, appLogger)
	sessionHandler := httpHandlers.NewSessionHandler(sessionService, appLogger)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService, appLogger)
	searchHandler := httpHandlers.NewSearchHandler(searchService, appLogger)
	transferHandler := httpHandlers.NewTransferHandler(transferService, appLogger)

	server := &Server{
		echo:     e,
		config:   cfg,
		logger:   appLogger,
		db:       db,
		notifier: notifierService,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(routeHandlers{
		tasks:         taskHandler,
		taskFolders:   taskFolderHandler,
		notes:         noteHandler,
		noteFolders:   noteFolderHandler,
		journal:       journalHandler,
		events:        eventHandler,
		timer:         timerHandler,
		sessions:      sessionHandler,
		notifications: notificationHandler,
		settings:      settingsHandler,
		search:        searchHandler,
		transfer:      transferHandler,
	})

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics(registry)
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

type routeHandlers struct {
	tasks         *httpHandlers.TaskHandler
	taskFolders   *httpHandlers.FolderHandler
	notes         *httpHandlers.NoteHandler
	noteFolders   *httpHandlers.FolderHandler
	journal       *httpHandlers.JournalHandler
	events        *httpHandlers.EventHandler
	timer         *httpHandlers.TimerHandler
	sessions      *httpHandlers.SessionHandler
	notifications *httpHandlers.NotificationHandler
	settings      *httpHandlers.SettingsHandler
	search        *httpHandlers.SearchHandler
	transfer      *httpHandlers.TransferHandler
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h routeHandlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Task routes
	taskGroup := v1.Group("/tasks")
	taskGroup.GET("", h.tasks.ListTasks)
	taskGroup.POST("", h.tasks.CreateTask)
	taskGroup.GET("/stats", h.tasks.GetTaskStats)
	taskGroup.GET("/:id", h.tasks.GetTask)
	taskGroup.PATCH("/:id", h.tasks.UpdateTask)
	taskGroup.POST("/:id/toggle", h.tasks.ToggleTask)
	taskGroup.DELETE("/:id", h.tasks.DeleteTask)

	taskFolderGroup := v1.Group("/task-folders")
	taskFolderGroup.GET("", h.taskFolders.ListFolders)
	taskFolderGroup.POST("", h.taskFolders.CreateFolder)
	taskFolderGroup.PATCH("/:id", h.taskFolders.UpdateFolder)
	taskFolderGroup.DELETE("/:id", h.taskFolders.DeleteFolder)

	// Note routes
	noteGroup := v1.Group("/notes")
	noteGroup.GET("", h.notes.ListNotes)
	noteGroup.POST("", h.notes.CreateNote)
	noteGroup.GET("/export", h.transfer.ExportNotes)
	noteGroup.POST("/import", h.transfer.ImportNotes)
	noteGroup.GET("/:id", h.notes.GetNote)
	noteGroup.PATCH("/:id", h.notes.UpdateNote)
	noteGroup.POST("/:id/pin", h.notes.TogglePin)
	noteGroup.DELETE("/:id", h.notes.DeleteNote)

	noteFolderGroup := v1.Group("/note-folders")
	noteFolderGroup.GET("", h.noteFolders.ListFolders)
	noteFolderGroup.POST("", h.noteFolders.CreateFolder)
	noteFolderGroup.PATCH("/:id", h.noteFolders.UpdateFolder)
	noteFolderGroup.DELETE("/:id", h.noteFolders.DeleteFolder)

	// Journal routes
	journalGroup := v1.Group("/journal")
	journalGroup.GET("", h.journal.ListEntries)
	journalGroup.PUT("", h.journal.UpsertEntry)
	journalGroup.GET("/stats", h.journal.GetStats)
	journalGroup.GET("/export", h.transfer.ExportJournal)
	journalGroup.POST("/import", h.transfer.ImportJournal)
	journalGroup.GET("/date/:date", h.journal.GetByDate)
	journalGroup.PATCH("/:id", h.journal.UpdateEntry)
	journalGroup.DELETE("/:id", h.journal.DeleteEntry)

	// Calendar routes
	eventGroup := v1.Group("/events")
	eventGroup.GET("", h.events.ListEvents)
	eventGroup.POST("", h.events.CreateEvent)
	eventGroup.GET("/:id", h.events.GetEvent)
	eventGroup.PATCH("/:id", h.events.UpdateEvent)
	eventGroup.DELETE("/:id", h.events.DeleteEvent)

	// Timer and session routes
	timerGroup := v1.Group("/timer")
	timerGroup.GET("", h.timer.GetState)
	timerGroup.POST("/start", h.timer.Start)
	timerGroup.POST("/pause", h.timer.Pause)
	timerGroup.POST("/reset", h.timer.Reset)

	sessionGroup := v1.Group("/sessions")
	sessionGroup.GET("", h.sessions.ListSessions)
	sessionGroup.POST("", h.sessions.RecordSession)
	sessionGroup.GET("/wellness", h.sessions.GetWellness)

	// Notification routes
	notificationGroup := v1.Group("/notifications")
	notificationGroup.GET("", h.notifications.ListNotifications)
	notificationGroup.POST("", h.notifications.CreateNotification)
	notificationGroup.GET("/unread-count", h.notifications.GetUnreadCount)
	notificationGroup.POST("/read-all", h.notifications.MarkAllRead)
	notificationGroup.POST("/:id/read", h.notifications.MarkRead)
	notificationGroup.DELETE("", h.notifications.ClearAll)

	// Settings routes
	settingsGroup := v1.Group("/settings")
	settingsGroup.GET("", h.settings.GetSettings)
	settingsGroup.PUT("", h.settings.PutSettings)
	settingsGroup.GET("/notifications", h.settings.GetNotificationSettings)
	settingsGroup.PUT("/notifications", h.settings.PutNotificationSettings)
	settingsGroup.GET("/theme", h.settings.GetTheme)
	settingsGroup.PUT("/theme", h.settings.SetTheme)
	settingsGroup.GET("/color-mode", h.settings.GetColorMode)
	settingsGroup.PUT("/color-mode", h.settings.SetColorMode)

	// Search route
	v1.GET("/search", h.search.Search)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics(registry *prometheus.Registry) {
	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Store health check
	if err := s.db.HealthCheck(); err != nil {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["store"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.db.GetConnectionInfo(),
		}
	}

	checks["notifier"] = map[string]interface{}{
		"running": s.notifier.Running(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.db.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "store_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server and the polling notifier.
func (s *Server) Start(address string) error {
	if s.config.Notifier.Enabled {
		s.notifier.Start(context.Background())
	}

	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the notifier and the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	s.notifier.Stop()
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
