// Package cli implements the chorewheel commands.
package cli

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/chorewheel/internal/backup"
	"github.com/dukerupert/chorewheel/internal/config"
	"github.com/dukerupert/chorewheel/internal/database"
	"github.com/dukerupert/chorewheel/internal/logging"
	"github.com/dukerupert/chorewheel/internal/store"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "chorewheel",
	Short: "Rotate chores fairly between people",
	Long: "chorewheel assigns due chores to the eligible person holding the fewest, " +
		"writes the sheet back, logs what it did and emails the people involved.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $CHOREWHEEL_CONFIG)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (overrides config)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func setup(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	slog.Debug("config loaded", "command", cmd.Name(), "db", cfg.DBPath, "file", path)
	return nil
}

func openDB() (*sql.DB, error) {
	return database.Open(cfg.DBPath)
}

func newBackupManager(db *sql.DB) *backup.Manager {
	b := cfg.Backup
	return backup.NewManager(backup.Config{
		Dir:           b.Dir,
		Passphrase:    b.Passphrase,
		RetentionDays: b.RetentionDays,
		S3: backup.S3Config{
			Endpoint:  b.S3.Endpoint,
			Bucket:    b.S3.Bucket,
			Region:    b.S3.Region,
			AccessKey: b.S3.AccessKey,
			SecretKey: b.S3.SecretKey,
			Prefix:    b.S3.Prefix,
		},
	}, store.NewBackupStore(db))
}
