package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/medbridge-ai/notefhir/pkg/common/config"
	"github.com/medbridge-ai/notefhir/pkg/common/database"
	"github.com/medbridge-ai/notefhir/pkg/common/kafka"
	"github.com/medbridge-ai/notefhir/pkg/common/logger"
	"github.com/medbridge-ai/notefhir/pkg/common/middleware"
	"github.com/medbridge-ai/notefhir/pkg/converter"
	"github.com/medbridge-ai/notefhir/pkg/extractor"
	"github.com/medbridge-ai/notefhir/pkg/fhir"
	"github.com/medbridge-ai/notefhir/pkg/observability/metrics"
	"github.com/medbridge-ai/notefhir/pkg/phi"
	"github.com/medbridge-ai/notefhir/pkg/terminology"
)

func main() {
	logger.Init()
	cfg := config.Load()

	lexicon, err := extractor.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load extraction lexicon")
	}

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load terminology catalog")
	}

	rules, err := phi.LoadRules(cfg.PHIRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load PHI rules")
	}
	detector, err := phi.NewDetector(rules)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to compile PHI rules")
	}

	ex, err := extractor.New(lexicon, catalog)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to build entity extractor")
	}

	var cache *converter.Cache
	if cfg.CacheTTL > 0 {
		cache = converter.NewCache(database.GetRedis(), cfg.CacheTTL)
	}

	var producer *kafka.Producer
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(cfg.KafkaTopic)
		defer producer.Close()
	}

	svc := converter.NewService(ex, fhir.NewMapper(), detector, producer, cache, cfg.ConfidenceThreshold, cfg.DefaultPatientID)
	handler := converter.NewHTTPHandler(svc, converter.NewValidator(0), cfg.MaxRequestBody)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Clinical Notes to FHIR Converter API","convert":"/api/v1/convert","health":"/health"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	handler.Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      middleware.Logging(middleware.Recovery(middleware.CORS(router))),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":    cfg.ServerHost,
			"port":    cfg.ServerPort,
			"lexicon": ex.Version(),
		}).Info("Converter Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Converter Service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	if cache != nil {
		_ = database.CloseRedis()
	}

	logger.Log.Info("Converter Service stopped")
}
