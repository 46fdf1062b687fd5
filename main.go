package main

import (
	"os"

	"github.com/lenin-jr/Realtime-canvas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
