package main

import (
	"time"

	"github.com/tracepulse/tracepulse/internal/xctrace"
)

const (
	defaultBindHost      = "127.0.0.1"
	defaultAPIPort       = 3000
	defaultQueryTimeout  = 30 * time.Second
	defaultHistoryLimit  = 20
	defaultOutputFormat  = "terminal"
	defaultDataRetention = 90 // days, 0 = disabled
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	DBPath        string          `mapstructure:"db-path"`
	QueryTimeout  time.Duration   `mapstructure:"query-timeout"`
	APIEnabled    bool            `mapstructure:"api-enabled"`
	APIPort       int             `mapstructure:"api-port"`
	APIAddr       string          `mapstructure:"api-addr"`
	OutputFormat  string          `mapstructure:"output-format"`
	XCTraceBinary string          `mapstructure:"xctrace-binary"`
	Schemas       xctrace.Schemas `mapstructure:"schemas"`
	Retention     int             `mapstructure:"retention-days"`

	BackupEnabled        bool          `mapstructure:"backup-enabled"`
	BackupInterval       time.Duration `mapstructure:"backup-interval"`
	BackupLocalDir       string        `mapstructure:"backup-local-dir"`
	BackupKeepLast       int           `mapstructure:"backup-keep-last"`
	BackupBucketURL      string        `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string        `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string        `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string        `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string        `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string        `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool          `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
