package serverrun

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/config"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/engine"
	httpserver "github.com/Akash-pugazh/gg-flash-mgr/internal/server/http"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

// Options configures a server run.
type Options struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string
	Config    config.Config
}

// Run opens the engine, starts the HTTP server, and blocks until ctx is
// cancelled. The engine is closed (flushing the ledger) on the way out.
func Run(ctx context.Context, opts Options) error {
	// Layer a local signal context over the provided one so direct callers
	// get signal handling too.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: opts.LogLevel, Format: opts.LogFormat})
	if err != nil {
		logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel))
	}
	logpkg.RedirectStdLog(logger)

	eng, err := engine.New(opts.Config, logger)
	if err != nil {
		return err
	}
	if err := eng.Open(); err != nil {
		return err
	}
	defer eng.Close()

	logger.Info("starting flash-mgr server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_file", opts.Config.DataPath()),
	)

	srv := httpserver.New(eng, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(sctx, opts.HTTPAddr) }()

	select {
	case <-sctx.Done():
		srv.Close()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
