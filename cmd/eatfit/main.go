package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"eatfit/internal/api"
	"eatfit/internal/auth"
	"eatfit/internal/config"
	"eatfit/internal/session"
	"eatfit/internal/tui"
)

func main() {
	cfg := config.Load()

	if cfg.Debug {
		f, err := tea.LogToFile("eatfit-debug.log", "debug")
		if err != nil {
			log.Fatalf("open debug log: %v", err)
		}
		defer f.Close()
	} else {
		// keep fail-soft storage logs from corrupting the screen
		log.SetOutput(io.Discard)
	}

	client := api.New(cfg.APIBaseURL, api.WithTimeout(cfg.HTTPTimeout))
	store := session.NewFileStore(cfg.SessionFile)
	mgr := auth.NewManager(client, store)

	p := tea.NewProgram(tui.NewApp(mgr), tea.WithAltScreen())

	// push every auth transition into the UI
	mgr.Subscribe(func(s auth.Snapshot) {
		p.Send(tui.SnapshotMsg(s))
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
