package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/leafscan/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal("service init failed: ", err)
	}

	if err := srv.Start(); err != nil {
		srv.Close()
		log.Fatal("service start failed: ", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	code := 0
	select {
	case sig := <-sigChan:
		srv.Logger().Info("signal received", "signal", sig.String())
	case err := <-srv.Failed():
		srv.Logger().Error("startup failed", "error", err)
		code = 1
	}

	if err := srv.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		srv.Logger().Error("shutdown failed", "error", err)
		code = 1
	}

	srv.Logger().Info("leafscan stopped")
	srv.Close()
	os.Exit(code)
}
