package main

import (
	"carsurvey/internal/app"
	"carsurvey/internal/config"
	"carsurvey/internal/service"
	"carsurvey/internal/transport/rest"
	"carsurvey/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Car Sales Survey API
// @version 1.0
// @description Step-gated car ownership questionnaire with aggregate statistics
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Store backend:   %s", cfg.StoreBackend)
	log.Printf("Session backend: %s (ttl %s)", cfg.SessionBackend, cfg.SessionTTL)

	backends, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer backends.Close(context.Background())

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret, cfg.SessionTTL)
	statsSvc := service.NewStatisticsService(backends.Responses)
	questionnaireSvc := service.NewQuestionnaireService(backends.Responses, backends.Sessions, statsSvc, authSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	questionnaireSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:          authSvc,
		QuestionnaireService: questionnaireSvc,
		StatisticsService:    statsSvc,
		WSHub:                wsHub,
		CORS:                 cfg.CORS,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Printf("Host auth: username=%s", cfg.HostUsername)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  PATCH /v1/sessions/{id}/answers")
		log.Println("  POST /v1/sessions/{id}/submit")
		log.Println("  GET  /v1/statistics")
		log.Println("  GET  /v1/responses")
		log.Println("  GET  /v1/validate/bmw?model=")
		log.Println("  GET  /v1/health")
		log.Println("  WS   /v1/ws/dashboard")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
