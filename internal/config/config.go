// Package config loads chorewheel settings from defaults, an optional YAML
// file and CHOREWHEEL_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHOREWHEEL_"

// Config is the root configuration structure.
type Config struct {
	DBPath   string       `yaml:"db_path"`
	Log      LogConfig    `yaml:"log"`
	EventLog string       `yaml:"event_log"` // local append-only run log
	Mirror   string       `yaml:"mirror_dir"`
	Email    EmailConfig  `yaml:"email"`
	Backup   BackupConfig `yaml:"backup"`
	Run      RunConfig    `yaml:"run"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// EmailConfig configures Postmark delivery.
type EmailConfig struct {
	PostmarkToken string `yaml:"postmark_token"`
	From          string `yaml:"from"`
	Audit         string `yaml:"audit"`
}

// BackupConfig configures pre-run snapshots.
type BackupConfig struct {
	Dir           string   `yaml:"dir"`
	Passphrase    string   `yaml:"passphrase"`
	RetentionDays int      `yaml:"retention_days"`
	S3            S3Config `yaml:"s3"`
}

// S3Config configures the optional snapshot bucket.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

// RunConfig holds run defaults the CLI flags can override.
type RunConfig struct {
	DryRun   bool `yaml:"dry_run"`
	NoNotify bool `yaml:"no_notify"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:   "chorewheel.db",
		Log:      LogConfig{Level: "info", Format: "text"},
		EventLog: "chorewheel.log",
		Backup: BackupConfig{
			Dir:           "backups",
			RetentionDays: 30,
			S3:            S3Config{Region: "us-east-1"},
		},
	}
}

// Load applies the YAML file at path (if non-empty) and the environment over
// the defaults, then validates. A path that does not exist is an error; an
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	strs := map[string]*string{
		"DB_PATH":           &c.DBPath,
		"LOG_LEVEL":         &c.Log.Level,
		"LOG_FORMAT":        &c.Log.Format,
		"EVENT_LOG":         &c.EventLog,
		"MIRROR_DIR":        &c.Mirror,
		"POSTMARK_TOKEN":    &c.Email.PostmarkToken,
		"EMAIL_FROM":        &c.Email.From,
		"AUDIT_EMAIL":       &c.Email.Audit,
		"BACKUP_DIR":        &c.Backup.Dir,
		"BACKUP_PASSPHRASE": &c.Backup.Passphrase,
		"S3_ENDPOINT":       &c.Backup.S3.Endpoint,
		"S3_BUCKET":         &c.Backup.S3.Bucket,
		"S3_REGION":         &c.Backup.S3.Region,
		"S3_ACCESS_KEY":     &c.Backup.S3.AccessKey,
		"S3_SECRET_KEY":     &c.Backup.S3.SecretKey,
		"S3_PREFIX":         &c.Backup.S3.Prefix,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "BACKUP_RETENTION_DAYS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sBACKUP_RETENTION_DAYS: %w", EnvPrefix, err)
		}
		c.Backup.RetentionDays = n
	}

	bools := map[string]*bool{
		"DRY_RUN":   &c.Run.DryRun,
		"NO_NOTIFY": &c.Run.NoNotify,
	}
	for key, dst := range bools {
		if v, ok := lookup(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}
	return nil
}

// Validate rejects settings no command can work with.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	if c.Backup.RetentionDays < 0 {
		errs = append(errs, fmt.Errorf("backup.retention_days must be >= 0, got %d", c.Backup.RetentionDays))
	}

	s3 := c.Backup.S3
	if s3.Bucket != "" && (s3.AccessKey == "" || s3.SecretKey == "") {
		errs = append(errs, errors.New("backup.s3 needs access_key and secret_key when bucket is set"))
	}

	return errors.Join(errs...)
}
