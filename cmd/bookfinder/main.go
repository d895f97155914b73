// Package main provides the entry point for the bookfinder terminal client.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/di"
	"github.com/listenupapp/bookfinder/internal/logger"
)

func main() {
	injector := di.NewContainer(os.Args[1:])

	app, err := di.Bootstrap(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start bookfinder: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	_, runErr := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if runErr != nil {
		log.Error("UI exited with error", "error", runErr)
	}

	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	log.Info("Goodbye")
	_ = log.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "bookfinder: %v\n", runErr)
		os.Exit(1)
	}
}
