package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config aggregates application configuration values.
type Config struct {
	Graph     GraphConfig
	Warehouse WarehouseConfig
	Data      DataConfig
	Logging   LoggingConfig
}

// GraphConfig describes connectivity to the graph database.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// WarehouseConfig describes connectivity to the relational warehouse. An
// empty DSN disables the warehouse half of the load stage.
type WarehouseConfig struct {
	DSN string
}

// DataConfig locates the raw, clean and backup directory trees. Each tree
// holds one subdirectory per entity.
type DataConfig struct {
	RawRoot    string
	CleanRoot  string
	BackupRoot string
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// Entity subdirectory names shared by the raw, clean and backup trees.
const (
	CustomerDir    = "customer"
	AccountDir     = "account"
	TransactionDir = "txn"
)

const (
	defaultRawRoot          = "./data/raw"
	defaultCleanRoot        = "./data/clean"
	defaultBackupRoot       = "./data/backup"
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
		Warehouse: WarehouseConfig{
			DSN: os.Getenv("WAREHOUSE_DSN"),
		},
		Data: DataConfig{
			RawRoot:    valueOrDefault("DATA_RAW_DIR", defaultRawRoot),
			CleanRoot:  valueOrDefault("DATA_CLEAN_DIR", defaultCleanRoot),
			BackupRoot: valueOrDefault("DATA_BACKUP_DIR", defaultBackupRoot),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
	}
	return cfg, nil
}

// RawDir returns the incoming directory for the given entity.
func (d DataConfig) RawDir(entity string) string {
	return filepath.Join(d.RawRoot, entity)
}

// CleanDir returns the clean-artifact directory for the given entity.
func (d DataConfig) CleanDir(entity string) string {
	return filepath.Join(d.CleanRoot, entity)
}

// RawBackupDir returns where consumed raw files are relocated.
func (d DataConfig) RawBackupDir(entity string) string {
	return filepath.Join(d.BackupRoot, "raw", entity)
}

// CleanBackupDir returns where consumed clean files are relocated after a
// successful load.
func (d DataConfig) CleanBackupDir(entity string) string {
	return filepath.Join(d.BackupRoot, "clean", entity)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}
