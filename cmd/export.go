package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lenin-jr/Realtime-canvas/internal/export"
	"github.com/lenin-jr/Realtime-canvas/internal/session"
)

func newExportCmd() *cobra.Command {
	var (
		room string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved session to PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := viper.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if out == "" {
				out = room + ".pdf"
			}
			return runExport(room, out)
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "room whose saved session to export")
	cmd.Flags().StringVar(&out, "out", "", "output PDF path (default <room>.pdf)")
	cmd.Flags().String("sessions-dir", viper.GetString("sessions-dir"), "directory for the file session store")
	cmd.Flags().String("store", viper.GetString("store"), "session store backend: file or sqlite")
	cmd.Flags().String("db", viper.GetString("db"), "sqlite database path (store=sqlite)")
	_ = cmd.MarkFlagRequired("room")
	return cmd
}

func runExport(room, out string) error {
	store, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Load(room)
	if errors.Is(err, session.ErrNoSession) {
		return fmt.Errorf("no saved session for room %q", room)
	}
	if err != nil {
		return err
	}

	if err := export.PDF(out, snap); err != nil {
		return err
	}
	fmt.Printf("exported %d strokes from %q to %s\n", len(snap.Strokes), room, out)
	return nil
}
