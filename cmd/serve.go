package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lenin-jr/Realtime-canvas/internal/discover"
	"github.com/lenin-jr/Realtime-canvas/internal/hub"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the collaborative canvas server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Bound at run time so each command's flags map onto the config
			// keys only when that command executes.
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", viper.GetString("addr"), "listen address")
	cmd.Flags().String("sessions-dir", viper.GetString("sessions-dir"), "directory for the file session store")
	cmd.Flags().String("store", viper.GetString("store"), "session store backend: file or sqlite")
	cmd.Flags().String("db", viper.GetString("db"), "sqlite database path (store=sqlite)")
	cmd.Flags().String("static", viper.GetString("static"), "directory of client assets to serve at /")
	cmd.Flags().Bool("mdns", viper.GetBool("mdns"), "advertise this server on the local network")

	return cmd
}

func runServe(ctx context.Context) error {
	logger := newLogger()

	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	registry := hub.NewRegistry()
	router := hub.NewRouter(registry, store, logger)
	ws := hub.NewServer(router, logger)

	r := mux.NewRouter()
	r.Use(accessLog(logger))
	r.Path("/ws").Handler(ws)
	if static := viper.GetString("static"); static != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(static)))
	}

	addr := viper.GetString("addr")
	if viper.GetBool("mdns") {
		port, err := portOf(addr)
		if err != nil {
			return err
		}
		mdnsServer, err := discover.Advertise(port)
		if err != nil {
			logger.Warn("mdns advertise failed", "err", err)
		} else {
			defer mdnsServer.Shutdown()
			logger.Info("advertising over mdns", "port", port)
		}
	}

	httpServer := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "store", viper.GetString("store"))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-exit:
		logger.Info("signal caught, shutting down", "sig", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// accessLog logs every HTTP request with its status and duration.
func accessLog(logger *slog.Logger) mux.MiddlewareFunc {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, w, req)
			logger.Info("handled",
				"method", req.Method,
				"url", req.URL.String(),
				"status", m.Code,
				"duration", m.Duration,
			)
		})
	}
}

func portOf(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("parse listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("parse listen port %q: %w", portStr, err)
	}
	return port, nil
}
