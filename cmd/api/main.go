package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/watchara/installment-service/internal/config"
	"github.com/watchara/installment-service/internal/handler"
	"github.com/watchara/installment-service/internal/integrations/ratefeed"
	"github.com/watchara/installment-service/internal/jobs"
	"github.com/watchara/installment-service/internal/middleware"
	"github.com/watchara/installment-service/internal/repository"
	"github.com/watchara/installment-service/internal/service"
	"github.com/watchara/installment-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Summary cache: Redis when configured, in-process otherwise
	var cache repository.Cache
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
	} else {
		cache = repository.NewMockCache()
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, cache, logger, cfg)
	h := handler.NewHandler(svc)
	rateClient := ratefeed.NewClient(cfg, logger)

	// Overdue reminder job
	sender := email.NewSender(cfg, logger)
	reminder := jobs.NewReminderJob(svc, sender, cfg, logger)
	if err := reminder.Start(); err != nil {
		logger.Fatalf("Failed to start reminder job: %v", err)
	}
	defer reminder.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/plans", h.CreatePlan).Methods("POST")
	authRouter.HandleFunc("/plans", h.ListPlans).Methods("GET")
	authRouter.HandleFunc("/plans/{id}", h.GetPlan).Methods("GET")
	authRouter.HandleFunc("/plans/{id}", h.DeletePlan).Methods("DELETE")
	authRouter.HandleFunc("/plans/{id}/payments", h.PayTerm).Methods("POST")
	authRouter.HandleFunc("/plans/{id}/cancel", h.CancelPlan).Methods("POST")
	authRouter.HandleFunc("/reports/portfolio", h.PortfolioSummary).Methods("GET")
	authRouter.HandleFunc("/payments", h.ListPayments).Methods("GET")
	authRouter.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	authRouter.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	// Suggested interest rate for the plan form
	authRouter.HandleFunc("/suggested-rate", func(w http.ResponseWriter, r *http.Request) {
		rate, err := rateClient.GetSuggestedRate()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get suggested rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"suggested_rate": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatalf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	logger.Info("Server exited")
}
