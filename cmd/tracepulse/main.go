package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tracepulse/tracepulse/internal/xctrace"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `tracepulse - Instruments trace analyzer

Usage:
  tracepulse [flags] analyze <trace-file> [analyze flags]
  tracepulse [flags] history [list|search|show|delete] [args]
  tracepulse [flags] serve

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "config file (default is $HOME/.config/tracepulse/config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("TracePulse - Instruments Trace Analyzer\n")
		fmt.Printf("  Version:    %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
		fmt.Printf("  Go version: %s\n", goVersion)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	switch args[0] {
	case "analyze":
		err = runAnalyze(cfg, args[1:])
	case "history":
		err = runHistory(cfg, args[1:])
	case "serve":
		err = runServe(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	defaultDBPath := filepath.Join(home, ".local", "share", "tracepulse", "tracepulse.duckdb")

	v := viper.New()
	v.SetEnvPrefix("TRACEPULSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("db-path", defaultDBPath)
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("api-enabled", true)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("output-format", defaultOutputFormat)
	v.SetDefault("xctrace-binary", "")
	v.SetDefault("retention-days", defaultDataRetention)
	v.SetDefault("backup-enabled", false)
	v.SetDefault("backup-interval", 12*time.Hour)
	v.SetDefault("backup-local-dir", filepath.Join(home, ".local", "share", "tracepulse", "backups"))
	v.SetDefault("backup-keep-last", 14)
	v.SetDefault("backup-s3-use-ssl", true)

	// Table selector names are a versioned contract with the export tool,
	// so they stay overridable per install.
	defaults := xctrace.DefaultSchemas()
	v.SetDefault("schemas.signpost", defaults.Signpost)
	v.SetDefault("schemas.time-profile", defaults.TimeProfile)
	v.SetDefault("schemas.syscall", defaults.Syscall)
	v.SetDefault("schemas.allocation", defaults.Allocation)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		defaultConfigPath := filepath.Join(home, ".config", "tracepulse", "config.yml")
		v.SetConfigFile(defaultConfigPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}

	// Expand ~ in db-path
	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}
