// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/paper-analyst/internal/server"
	"github.com/pdiddy/paper-analyst/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools and prompts over HTTP",
	Long: `Serve starts the tool server. GET /tools lists the available tools and
prompts; each is invoked with a JSON POST. Archived records are available
under /records.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().Bool("no-archive", false, "do not save or expose archived records")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := appConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	gen, err := newGenerator(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	noArchive, _ := cmd.Flags().GetBool("no-archive")
	store, err := openArchive(cfg, noArchive)
	if err != nil {
		return err
	}

	svc := service.New(cfg, gen, nil, logger, nil)
	var records server.Records
	if store != nil {
		defer store.Close()
		svc.Archive = store
		records = store
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(svc, records, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
