package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/cognicore/quizgen/pkg/quizgen"
	"github.com/cognicore/quizgen/pkg/quizgen/config"
	"github.com/cognicore/quizgen/pkg/quizgen/logger"
	"github.com/cognicore/quizgen/pkg/quizgen/store"
	"github.com/cognicore/quizgen/pkg/quizgen/store/sqlite"
	"github.com/cognicore/quizgen/pkg/quizgen/web"
)

func main() {
	app, err := config.AppLoader{}.Load()
	if err != nil {
		charmlog.Fatal("load configuration", "err", err)
	}

	flag.StringVar(&app.Addr, "addr", app.Addr, "Listen address")
	flag.StringVar(&app.DBPath, "db", app.DBPath, "SQLite database path")
	flag.StringVar(&app.VocabularyPath, "vocab", app.VocabularyPath, "Vocabulary YAML (embedded default when empty)")
	flag.Parse()

	log := logger.New(logger.Config{Level: app.LogLevel, JSON: app.LogJSON, Prefix: "quizgen-server"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, app, log); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

// newHandler wires the pipeline, the store and the web handlers.
func newHandler(ctx context.Context, app *config.App, log *charmlog.Logger) (http.Handler, store.Store, error) {
	comp, err := (&config.Loader{
		VocabularyPath:  app.VocabularyPath,
		MaxDocumentSize: app.MaxUploadBytes,
		SentenceLimit:   app.SentenceLimit,
		Logger:          log,
	}).Load()
	if err != nil {
		return nil, nil, err
	}

	st, err := sqlite.OpenSQLite(ctx, app.DBPath)
	if err != nil {
		return nil, nil, err
	}

	svc := quizgen.NewService(quizgen.FromComponents(comp, log), st, log)
	srv := web.New(svc, web.Config{
		MaxUploadBytes: app.MaxUploadBytes,
		MinCount:       app.MinCount,
		MaxCount:       app.MaxCount,
		Logger:         log,
	})
	return srv.Routes(), st, nil
}

func run(ctx context.Context, app *config.App, log *charmlog.Logger) error {
	if err := app.Validate(); err != nil {
		return err
	}

	handler, st, err := newHandler(ctx, app, log)
	if err != nil {
		return err
	}
	defer st.Close()

	server := &http.Server{
		Addr:              app.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", app.Addr, "db", app.DBPath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
