// Package main is the entry point for the CRM API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/whatsflow/crm-platform/internal/config"
	"github.com/whatsflow/crm-platform/internal/events"
	"github.com/whatsflow/crm-platform/internal/fixture"
	"github.com/whatsflow/crm-platform/internal/handler"
	"github.com/whatsflow/crm-platform/internal/middleware"
	"github.com/whatsflow/crm-platform/internal/service"
	"github.com/whatsflow/crm-platform/internal/store"
	"github.com/whatsflow/crm-platform/pkg/logger"
	"github.com/whatsflow/crm-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting CRM API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "crm-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Audit event publishing is optional. Without NATS the services
	// still write their in-memory audit logs.
	var publisher events.Publisher = events.Noop{}
	if cfg.EventsEnabled {
		np, err := events.ConnectNATS(ctx, events.NATSConfig{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer np.Close()
		publisher = np
	}

	// Initialize stores and seed fixtures
	stores := store.NewStores(store.WithLatency(cfg.StoreLatency))
	if err := fixture.Load(cfg.FixtureDir, stores); err != nil {
		log.Error("failed to load fixtures", zap.Error(err))
		os.Exit(1)
	}

	// Initialize services
	contactSvc := service.NewContactService(stores.Contacts, log)
	conversationSvc := service.NewConversationService(stores.Conversations, publisher, log)
	messageSvc := service.NewMessageService(stores.Messages, conversationSvc, log)
	templateSvc := service.NewTemplateService(stores.Templates, log)
	userSvc := service.NewUserService(stores.Users, log)
	clientSvc := service.NewClientService(stores.Clients, log)
	featureSvc := service.NewFeatureService(stores.Features, log)
	billingSvc := service.NewBillingService(stores.Billing, log)
	flowSvc := service.NewFlowService(stores.Flows, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(publisher)
	contactHandler := handler.NewContactHandler(contactSvc, log)
	conversationHandler := handler.NewConversationHandler(conversationSvc, log)
	messageHandler := handler.NewMessageHandler(messageSvc, log)
	templateHandler := handler.NewTemplateHandler(templateSvc, log)
	userHandler := handler.NewUserHandler(userSvc, log)
	clientHandler := handler.NewClientHandler(clientSvc, log)
	featureHandler := handler.NewFeatureHandler(featureSvc, log)
	billingHandler := handler.NewBillingHandler(billingSvc, log)
	flowHandler := handler.NewFlowHandler(flowSvc, log)
	analyticsHandler := handler.NewAnalyticsHandler(stores, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Get("/", contactHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Put("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)
			})
		})

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Get("/", conversationHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", conversationHandler.Get)
				r.Delete("/", conversationHandler.Delete)
				r.Put("/status", conversationHandler.UpdateStatus)
				r.Post("/assign", conversationHandler.Assign)
				r.Post("/reassign", conversationHandler.Reassign)
				r.Post("/transfer", conversationHandler.Transfer)
				r.Post("/activities", conversationHandler.AddActivity)
				r.Get("/assignment-history", conversationHandler.AssignmentHistory)
				r.Get("/audit", conversationHandler.AuditTrail)
				r.Post("/read", conversationHandler.MarkRead)

				// Messages
				r.Get("/messages", messageHandler.List)
				r.Post("/messages", messageHandler.Send)
				r.Post("/messages/read", messageHandler.MarkAsRead)
			})
		})

		// Cross-conversation message search
		r.Get("/messages/search", messageHandler.Search)

		// Templates
		r.Route("/templates", func(r chi.Router) {
			r.Post("/", templateHandler.Create)
			r.Get("/", templateHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", templateHandler.Get)
				r.Put("/", templateHandler.Update)
				r.Delete("/", templateHandler.Delete)
				r.Post("/render", templateHandler.Render)
			})
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
				r.Put("/active", userHandler.SetActive)
			})
		})

		// Clients
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", clientHandler.Create)
			r.Get("/", clientHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", clientHandler.Get)
				r.Put("/", clientHandler.Update)
				r.Delete("/", clientHandler.Delete)
				r.Put("/status", clientHandler.SetStatus)
				r.Get("/billing", billingHandler.GetByClient)
				r.Get("/features/{key}", featureHandler.Check)
			})
		})

		// Feature flags
		r.Route("/features", func(r chi.Router) {
			r.Get("/", featureHandler.List)
			r.Put("/", featureHandler.Set)
			r.Delete("/{id}", featureHandler.Delete)
		})

		// Billing
		r.Route("/billing/{id}", func(r chi.Router) {
			r.Get("/", billingHandler.Get)
			r.Get("/invoices", billingHandler.ListInvoices)
			r.Post("/payment-methods", billingHandler.AddPaymentMethod)
			r.Put("/payment-methods/default", billingHandler.SetDefaultPaymentMethod)
			r.Put("/plan", billingHandler.ChangePlan)
			r.Post("/cancel", billingHandler.CancelSubscription)
		})

		// Chatbot flows
		r.Route("/flows", func(r chi.Router) {
			r.Post("/", flowHandler.Create)
			r.Get("/", flowHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", flowHandler.Get)
				r.Put("/", flowHandler.Update)
				r.Delete("/", flowHandler.Delete)
				r.Put("/active", flowHandler.SetActive)
				r.Post("/duplicate", flowHandler.Duplicate)
			})
		})

		// Analytics
		r.Get("/analytics/summary", analyticsHandler.Summary)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
