package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tracepulse/tracepulse/internal/backup"
	"github.com/tracepulse/tracepulse/internal/history"
	"github.com/tracepulse/tracepulse/internal/httpserver"
)

// runServe starts the HTTP API over the analysis history store and blocks
// until interrupted.
func runServe(cfg appConfig) error {
	cleanupLogger := configureRuntimeLogger()
	defer cleanupLogger()

	store, err := history.NewStore(cfg.DBPath, cfg.QueryTimeout)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis store: %w", err)
	}
	defer store.Close()

	// Start retention cleaner for automatic analysis expiry
	retentionCleaner := history.NewRetentionCleaner(store, history.RetentionConfig{
		RetentionDays: cfg.Retention,
	})
	if retentionCleaner != nil {
		defer retentionCleaner.Stop()
	}

	// Start periodic backups when enabled.
	backupManager, err := backup.NewManager(store, backup.Config{
		Enabled:        cfg.BackupEnabled,
		Interval:       cfg.BackupInterval,
		LocalDir:       cfg.BackupLocalDir,
		KeepLast:       cfg.BackupKeepLast,
		BucketURL:      cfg.BackupBucketURL,
		S3Endpoint:     cfg.BackupS3Endpoint,
		S3Region:       cfg.BackupS3Region,
		S3AccessKey:    cfg.BackupS3AccessKey,
		S3SecretKey:    cfg.BackupS3SecretKey,
		S3SessionToken: cfg.BackupS3SessionToken,
		S3UseSSL:       cfg.BackupS3UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to start backup manager: %w", err)
	}
	if backupManager != nil {
		defer backupManager.Stop()
	}

	// Retention and backups keep running even with the API disabled.
	var apiServer *httpserver.Server
	if cfg.APIEnabled {
		apiServer = httpserver.NewServer(cfg.APIAddr, store)
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start API server: %w", err)
		}
	}

	printServeBanner(cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	fmt.Println("\nShutting down gracefully... (press Ctrl+C again to force)")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if apiServer != nil {
			apiServer.Stop()
		}
	}()

	// Shutdown deadline starts now - not at boot.
	deadline := time.NewTimer(10 * time.Second)
	defer deadline.Stop()

	select {
	case <-done:
	case <-sigCh:
		fmt.Println("\nForce shutdown.")
		os.Exit(1)
	case <-deadline.C:
		fmt.Println("Shutdown timed out, forcing exit.")
		os.Exit(1)
	}

	signal.Stop(sigCh)
	return nil
}

func printServeBanner(cfg appConfig) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cyan := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	bold := lipgloss.NewStyle().Bold(true)

	check := green.Render("●")

	logo := cyan.Bold(true).Render(`
    ╔╦╗╦═╗╔═╗╔═╗╔═╗╔═╗╦ ╦╦  ╔═╗╔═╗
     ║ ╠╦╝╠═╣║  ║╣ ╠═╝║ ║║  ╚═╗║╣
     ╩ ╩╚═╩ ╩╚═╝╚═╝╩  ╚═╝╩═╝╚═╝╚═╝`)

	var lines []string
	lines = append(lines, logo)
	lines = append(lines, "    "+dim.Render("v"+version))
	lines = append(lines, "")
	lines = append(lines, bold.Render("    Analysis API"))
	if cfg.APIEnabled {
		lines = append(lines, fmt.Sprintf("    %s http://%s/api/analyses", check, cfg.APIAddr))
	} else {
		lines = append(lines, "    "+dim.Render("disabled"))
	}
	lines = append(lines, fmt.Sprintf("    %s database %s", check, cfg.DBPath))
	if cfg.Retention > 0 {
		lines = append(lines, dim.Render(fmt.Sprintf("    retention %d days", cfg.Retention)))
	}
	lines = append(lines, "")

	fmt.Println(strings.Join(lines, "\n"))
}

func configureRuntimeLogger() func() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logDir := filepath.Join(home, ".local", "state", "tracepulse")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	logPath := filepath.Join(logDir, "tracepulse.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}

	log.SetOutput(f)
	return func() {
		_ = f.Close()
	}
}
