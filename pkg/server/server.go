package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/counsel-tools/rate-lens/pkg/handlers/analysis"
	ratelensmiddleware "github.com/counsel-tools/rate-lens/pkg/server/middleware"
	"github.com/counsel-tools/rate-lens/pkg/services/staffclass"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Impact      handlers.ImpactService
	Trends      handlers.TrendService
	StaffClass  *staffclass.Analyzer
	Peers       handlers.PeerService
	Performance handlers.PerformanceSource
	Logger      zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	handler := handlers.NewHandler(
		config.Dependencies.Impact,
		config.Dependencies.Trends,
		config.Dependencies.StaffClass,
		config.Dependencies.Peers,
		config.Dependencies.Performance,
	)

	router := chi.NewRouter()

	router.Use(ratelensmiddleware.Logger(&config.Dependencies.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/impact", handler.PostImpact)
		r.Get("/attorneys/{attorneyID}/trends", handler.GetAttorneyTrends)
		r.Get("/attorneys/{attorneyID}/performance", handler.GetAttorneyPerformance)
		r.Get("/clients/{clientID}/trends", handler.GetClientTrends)
		r.Get("/firms/{firmID}/trends", handler.GetFirmTrends)
		r.Post("/staff-classes/validate", handler.PostStaffClassValidation)
		r.Post("/peer-comparison", handler.PostPeerComparison)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	config.Dependencies.Logger = logger
	router := ConfigureRouter(config)

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
