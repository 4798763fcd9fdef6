package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/net/netutil"

	"github.com/toricodesthings/engagement-extract-service/internal/config"
	"github.com/toricodesthings/engagement-extract-service/internal/extract"
	imageextractor "github.com/toricodesthings/engagement-extract-service/internal/extractors/image"
	pdfextractor "github.com/toricodesthings/engagement-extract-service/internal/extractors/pdf"
	img "github.com/toricodesthings/engagement-extract-service/internal/image"
	"github.com/toricodesthings/engagement-extract-service/internal/logging"
	"github.com/toricodesthings/engagement-extract-service/internal/ocr"
)

const serviceName = "engagement-extract"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName,
	})

	pipeline := buildPipeline(cfg, buildRecognizer(cfg), log)
	s := newServer(cfg, log, pipeline)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go s.cleanupRateLimiters(ctx)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Error().Err(err).Str("addr", srv.Addr).Msg("listen failed")
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("max_connections", cfg.MaxConnections).
			Int64("max_concurrent", cfg.MaxConcurrentRequests).
			Int64("max_ocr", cfg.MaxOCRConcurrent).
			Str("ocr_engine", cfg.OCREngine).
			Msg("listening")
		errCh <- srv.Serve(netutil.LimitListener(ln, cfg.MaxConnections))
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// buildRecognizer picks the OCR engine and caps process-wide OCR concurrency.
func buildRecognizer(cfg config.Config) ocr.Recognizer {
	opts := ocr.DefaultOptions()
	opts.Language = cfg.OCRLanguage

	var rec ocr.Recognizer
	switch cfg.OCREngine {
	case config.EngineCLI:
		rec = ocr.NewCLI(cfg.TesseractPath, opts)
	default:
		rec = ocr.NewTesseract(opts)
	}
	return ocr.WithConcurrencyLimit(rec, cfg.MaxOCRConcurrent)
}

func buildPipeline(cfg config.Config, rec ocr.Recognizer, log *logging.Logger) *extract.Pipeline {
	prepOpts := img.DefaultOptions()
	prepOpts.CropTall = cfg.CropTallImages

	racer := ocr.NewRacer(rec, cfg.OCRAttemptTimeout, log)

	registry := extract.NewRegistry()
	registry.Register(pdfextractor.New())
	registry.Register(imageextractor.New(img.New(prepOpts), racer, log))

	return extract.NewPipeline(registry, log)
}
