package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/dataset"
	"aidocs-ingest/internal/ingest"
	"aidocs-ingest/internal/logger"
	"aidocs-ingest/internal/metrics"
	"aidocs-ingest/internal/query"
	"aidocs-ingest/internal/server"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {

	// ====================================================================
	// CPU 설정
	// ====================================================================
	//
	// 컨테이너 vCPU 제한보다 GOMAXPROCS 가 크면 스케줄링 경합으로 오히려 느려진다.
	// GOMAXPROCS 환경변수가 있으면 그 값, 없으면 1.
	// ====================================================================
	if v := os.Getenv("GOMAXPROCS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			runtime.GOMAXPROCS(n)
		}
	} else {
		runtime.GOMAXPROCS(1)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger.Init(cfg)
	m := metrics.New()

	// ====================================================================
	// 데이터셋 sink
	// ====================================================================
	//
	// RAW / VISITS 두 데이터셋을 같은 backend 로 연다.
	// 쓰기는 요청 경로에서 동기로 1회만 시도한다 (배치 / 재시도 없음).
	// ====================================================================
	sinks, err := dataset.Open(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.SinkBackend).Msg("failed to open dataset sinks")
		return err
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close dataset sinks")
		}
	}()

	pipeline := ingest.NewPipeline(sinks.Raw, sinks.Visits, m)

	// ====================================================================
	// Query Gateway
	// ====================================================================
	//
	// 자격증명이 없어도 서버는 뜬다. /query 만 500 으로 응답한다.
	// ====================================================================
	client := query.NewClient(cfg.CFAPIBaseURL, cfg.CFAccountID, cfg.CFAPIToken,
		query.WithTimeout(cfg.QueryTimeout))
	gateway := query.NewGateway(query.NewCatalog(cfg.VisitsDataset, cfg.RawDataset), client, m)
	if !cfg.QueryEnabled() {
		log.Warn().Msg("CF_ACCOUNT_ID or CF_API_TOKEN not set, /query is disabled")
	}

	h := server.NewHandler(cfg, m, pipeline, gateway)

	// ====================================================================
	// HTTP 서버 (Timeout 은 config 로)
	// ====================================================================
	//
	// WriteTimeout 은 원격 쿼리 timeout 보다 길어야 /query 응답이 잘리지 않는다.
	// ====================================================================
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      server.NewRouter(h, m),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// ====================================================================
	// Graceful Shutdown
	// ====================================================================
	//
	// SIGTERM / SIGINT 수신 시 새 요청을 막고 진행 중인 요청이 끝나길 기다린다.
	// 그 뒤 defer 로 sink 연결을 닫는다 (NATS 는 flush 확인 후 close).
	// ====================================================================
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.HTTPAddr).
			Str("sink", cfg.SinkBackend).
			Bool("query_enabled", cfg.QueryEnabled()).
			Msg("ingest server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server terminated")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	log.Info().Msg("shutdown complete")
	return nil
}
