// cmd/geoflowd is the server entrypoint: it wires the entity store, job
// registry, workflow factory, task runner, dispatcher loop, and HTTP
// surface together and runs them until interrupted. Grounded on the
// teacher's cmd/goflow/main.go cobra root plus internal/http.StartServer,
// generalized to run the dispatcher loop alongside the HTTP server
// instead of leaving execution entirely request-driven.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arvindkr/geoflow/internal/config"
	"github.com/arvindkr/geoflow/internal/definition"
	"github.com/arvindkr/geoflow/internal/httpapi"
	"github.com/arvindkr/geoflow/internal/log"
	"github.com/arvindkr/geoflow/internal/pgstore"
	"github.com/arvindkr/geoflow/internal/wiring"
	"github.com/arvindkr/geoflow/pkg/dispatcher"
	"github.com/arvindkr/geoflow/pkg/factory"
	"github.com/arvindkr/geoflow/pkg/reconciler"
	"github.com/arvindkr/geoflow/pkg/runner"
	"github.com/arvindkr/geoflow/pkg/store"
)

var rootCmd = &cobra.Command{Use: "geoflowd"}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the geoflow HTTP server and dispatcher loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	logger := log.GetLogger()
	cfg := config.Load()

	var s store.Store
	if cfg.DBDSN != "" {
		pg, err := pgstore.New(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pg.Close()
		s = pg
		logger.Infof("using postgres store")
	} else {
		s = store.NewMemoryStore()
		logger.Infof("using in-memory store")
	}

	reg := wiring.NewRegistry(s)
	rec := reconciler.New(s, logger)
	rn := runner.New(s, reg, rec, logger)
	dp := dispatcher.New(s, rn, logger, cfg.DispatchInterval)

	if err := dp.Sweep(); err != nil {
		return fmt.Errorf("startup sweep: %w", err)
	}

	defs := definition.NewLoader(cfg.DefinitionsDir)
	fac := factory.New(s, reg, logger)
	srv := httpapi.New(s, fac, defs, cfg.DefaultWorkflow, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := dp.Run(ctx); err != nil && err != context.Canceled {
			logger.Errorf("dispatcher stopped: %v", err)
		}
	}()

	httpServer := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: srv.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	logger.Infof("geoflow server listening on :%s", cfg.HTTPPort)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func main() {
	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
