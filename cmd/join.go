package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
	"github.com/lenin-jr/Realtime-canvas/internal/client"
	"github.com/lenin-jr/Realtime-canvas/internal/discover"
	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
)

var (
	infoColor  = color.New(color.FgCyan).SprintfFunc()
	eventColor = color.New(color.FgGreen).SprintfFunc()
	warnColor  = color.New(color.FgYellow).SprintfFunc()
)

func newJoinCmd() *cobra.Command {
	var (
		url     string
		useMDNS bool
		name    string
		room    string
	)

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a canvas room from the terminal",
		Long:  "join connects a terminal participant to a running server, mirrors the room's stroke history locally, and prints room events as they arrive.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runJoin(cmd.Context(), url, useMDNS, name, room)
		},
	}

	cmd.Flags().StringVar(&url, "url", "ws://localhost:8080/ws", "server websocket URL")
	cmd.Flags().BoolVar(&useMDNS, "discover", false, "find a server on the local network via mDNS")
	cmd.Flags().StringVar(&name, "name", "", "display name to announce")
	cmd.Flags().StringVar(&room, "room", "", "room to join after connecting")
	return cmd
}

func runJoin(ctx context.Context, url string, useMDNS bool, name, room string) error {
	logger := newLogger()

	if useMDNS {
		found := make(chan string, 1)
		if err := discover.Browse(func(addr string) {
			select {
			case found <- addr:
			default:
			}
		}); err != nil {
			return fmt.Errorf("mdns browse: %w", err)
		}
		select {
		case addr := <-found:
			url = fmt.Sprintf("ws://%s/ws", addr)
			fmt.Println(infoColor("discovered server at %s", addr))
		case <-time.After(3 * time.Second):
			return fmt.Errorf("no canvas server found on the local network")
		}
	}

	rec := client.NewReconciler(&feedRenderer{})
	sess, err := client.Dial(ctx, url, rec, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	rec.OnInit = func() {
		fmt.Println(infoColor("connected as %s (color %s), room %q", rec.UserID(), rec.Color(), rec.Room()))
		if name != "" {
			_ = sess.SetName(name)
		}
		if room != "" {
			_ = sess.JoinRoom(room)
		}
	}
	rec.OnUser = func(info protocol.UserInfo, left bool) {
		who := info.Name
		if who == "" {
			who = shortID(info.UserID)
		}
		if left {
			fmt.Println(warnColor("%s left", who))
		} else {
			fmt.Println(eventColor("%s is here", who))
		}
	}
	rec.OnReaction = func(userID, emoji string) {
		fmt.Println(eventColor("%s reacted %s", shortID(userID), emoji))
	}
	rec.OnSaveAck = func(ok bool, room, errMsg string) {
		if ok {
			fmt.Println(infoColor("session %q saved", room))
		} else {
			fmt.Println(warnColor("save of %q failed: %s", room, errMsg))
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	go commandLoop(sess)

	select {
	case err := <-runErr:
		return err
	case <-ctx.Done():
		return nil
	}
}

// commandLoop reads slash commands from stdin and forwards them.
func commandLoop(sess *client.Session) {
	fmt.Println(infoColor("commands: /join <room> /name <name> /react <emoji> /undo /clear /save /load /quit"))
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(line, " ")
		var err error
		switch cmd {
		case "/join":
			err = sess.JoinRoom(strings.TrimSpace(arg))
		case "/name":
			err = sess.SetName(strings.TrimSpace(arg))
		case "/react":
			err = sess.React(strings.TrimSpace(arg))
		case "/undo":
			err = sess.Undo()
		case "/clear":
			err = sess.Clear()
		case "/save":
			err = sess.SaveSession(map[string]any{
				"savedBy": "terminal",
				"ts":      time.Now().UnixMilli(),
			})
		case "/load":
			err = sess.LoadSession()
		case "/quit":
			_ = sess.Close()
			return
		default:
			fmt.Println(warnColor("unknown command %q", cmd))
		}
		if err != nil {
			fmt.Println(warnColor("%s failed: %v", cmd, err))
			return
		}
	}
}

// feedRenderer is the terminal stand-in for the canvas painter.
type feedRenderer struct{}

func (feedRenderer) RedrawAll(strokes []canvas.Stroke) {
	fmt.Println(infoColor("canvas repainted: %d strokes", len(strokes)))
}

func (feedRenderer) DrawStroke(s canvas.Stroke) {
	fmt.Println(eventColor("stroke %s by %s (%d points)", shortID(s.ID), shortID(s.UserID), len(s.Points)))
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}
