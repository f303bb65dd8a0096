package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gzhole/remindshield/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the guardrails and dashboards over HTTP",
	Long: `Start the HTTP API. The session audit log lives as long as the process.

Endpoints:
  POST   /v1/requests        {text, event?, date?} -> {message, severity}
  GET    /v1/audit?limit=N   most recent security events (default 5)
  GET    /v1/audit/export    full log as a JSON attachment
  DELETE /v1/audit           clear the log
  GET    /v1/calendar        instructor's calendar
  GET    /v1/patterns        monitored threat rules
  GET    /healthz, /metrics`,
	Args: cobra.NoArgs,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Address to listen on (default 127.0.0.1:8740)")
	rootCmd.AddCommand(serveCmd)
}

func serveCommand(cmd *cobra.Command, args []string) error {
	s, err := newSession(true)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Listen
	if serveListen != "" {
		addr = serveListen
	}

	srv := server.New(s.handler, server.Options{
		Logger:   zlog,
		Gatherer: s.registry,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx, addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		zlog.Info("shutting down", zap.Error(context.Cause(ctx)))
		return nil
	})

	return g.Wait()
}
