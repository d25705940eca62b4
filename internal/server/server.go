package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gobuffalo/packr"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/resumine/resumine/internal/auth"
	"github.com/resumine/resumine/internal/billing"
	"github.com/resumine/resumine/internal/cache"
	"github.com/resumine/resumine/internal/compress"
	"github.com/resumine/resumine/internal/config"
	"github.com/resumine/resumine/internal/jobs"
	"github.com/resumine/resumine/internal/service"
	"github.com/resumine/resumine/internal/store"
)

// Server represents the server
type Server struct {
	cnf *config.Config
}

// NewServer creates a new server
func NewServer(cnf *config.Config) *Server {
	return &Server{cnf: cnf}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.cnf); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the dependencies and runs the http server until interrupted.
func Start(cnf *config.Config) error {
	httpPort := ":" + cnf.HTTPPort

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	db := config.GetDB(cnf)

	linkStore := store.NewGormStore(db)
	if err := linkStore.Migrate(); err != nil {
		return err
	}

	var redis *cache.Redis
	if cnf.RedisAddr != "" {
		redis, err = cache.NewRedis(cnf.RedisAddr)
		if err != nil {
			return err
		}
	}

	provider := billing.NewStripe(cnf.StripeAPIKey, cnf.StripeWebhookSecret)
	compressor := compress.NewNop()

	handler := NewHandler(
		service.NewPublicLinkService(compressor, linkStore, redis, cnf.BaseURL),
		service.NewResumeService(compressor, linkStore),
		service.NewBillingEventService(provider, linkStore, redis),
		auth.NewSessionIdentity(linkStore, redis),
	)

	apiMux := http.NewServeMux()
	handler.Register(apiMux)

	openapiDocs := packr.NewBox("../../docs/v1")
	docsPath := "/v1/docs/"
	apiMux.Handle(docsPath, http.StripPrefix(docsPath, http.FileServer(openapiDocs)))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(requestLogger(apiMux)),
	}

	executor := jobs.NewTaskExecutor(
		jobs.NewTrialSweep(linkStore, redis, cnf.TrialSweepSchedule),
	)
	executor.Run()

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting http server on: ", httpPort)
		logrus.Info("click on the following link to view the API documentation: ", cnf.BaseURL, docsPath)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting http server: %v", err)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	logrus.Info("shutting down")
	executor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := restServer.Shutdown(ctx); err != nil {
		logrus.Errorf("error shutting down http server: %v", err)
	}

	wg.Wait()

	return nil
}
