package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/lenin-jr/Realtime-canvas/internal/session"
)

// initConfig sets defaults and lets an optional config file or CANVAS_*
// environment variables override them. Flags bound per-command win over both.
func initConfig() {
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("sessions-dir", "sessions")
	viper.SetDefault("store", "file")
	viper.SetDefault("db", "sessions.sqlite3")
	viper.SetDefault("static", "")
	viper.SetDefault("mdns", false)

	viper.SetConfigName("realtime-canvas")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("CANVAS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("ignoring unreadable config file", "err", err)
		}
	}
}

// openStore builds the configured session store backend. The returned close
// function is a no-op for the file backend.
func openStore() (session.Store, func() error, error) {
	switch backend := viper.GetString("store"); backend {
	case "file":
		store, err := session.NewFileStore(viper.GetString("sessions-dir"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	case "sqlite":
		store, err := session.NewSQLiteStore(viper.GetString("db"))
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q (want file or sqlite)", backend)
	}
}

func newLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	return logger
}
