// Package main runs a local stand-in for the book catalog backend.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookfinder/internal/di"
	"github.com/listenupapp/bookfinder/internal/logger"
)

func main() {
	injector := di.NewDevServerContainer(os.Args[1:])

	srv, err := di.BootstrapDevServer(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap dev server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	go func() {
		log.Info("Dev server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Dev server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down dev server gracefully...")

	// The container shuts the HTTP server down before the catalog it depends on.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Dev server stopped")
	_ = log.Close()
}
