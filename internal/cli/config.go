package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/shelf/internal/paths"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "SHELF"

	cfgKeyBackend     = "backend"
	cfgKeyDataDir     = "data_dir"
	cfgKeyStorageKey  = "storage_key"
	cfgKeyLogLevel    = "log_level"
	cfgKeyS3Bucket    = "s3.bucket"
	cfgKeyS3Region    = "s3.region"
	cfgKeyS3Endpoint  = "s3.endpoint"
	cfgKeyS3Prefix    = "s3.prefix"
	cfgKeyS3PathStyle = "s3.path_style"
	cfgKeyPostgresDSN = "postgres.dsn"

	defaultBackend  = types.BackendFile
	defaultLogLevel = "warn"
)

// envKeys are the settings that SHELF_* environment variables override.
// data_dir is resolved by the paths package instead, so that config.yaml
// wins over SHELF_DATA_DIR.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyStorageKey,
	cfgKeyLogLevel,
	cfgKeyS3Bucket,
	cfgKeyS3Region,
	cfgKeyS3Endpoint,
	cfgKeyS3Prefix,
	cfgKeyS3PathStyle,
	cfgKeyPostgresDSN,
}

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir,omitempty"`
	LogLevel string `yaml:"log_level"`
}

const configHeader = "# Shelf configuration\n" +
	"# backend: file | sqlite | s3 | postgres | memory\n" +
	"# Optional keys: data_dir, storage_key, s3.bucket, s3.region, s3.endpoint,\n" +
	"# s3.prefix, s3.path_style, postgres.dsn\n\n"

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes a default config.yaml if none exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&configFile{Backend: defaultBackend, LogLevel: defaultLogLevel})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}

// storeConfig builds the backend configuration for this run. The data
// directory follows flag > config.yaml > SHELF_DATA_DIR > --global per-user
// dir > ./.shelf-db.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir), a.flags.global)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	return types.Config{
		Backend:    a.cfg.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		StorageKey: a.cfg.GetString(cfgKeyStorageKey),
		S3: types.S3Config{
			Bucket:    a.cfg.GetString(cfgKeyS3Bucket),
			Region:    a.cfg.GetString(cfgKeyS3Region),
			Endpoint:  a.cfg.GetString(cfgKeyS3Endpoint),
			Prefix:    a.cfg.GetString(cfgKeyS3Prefix),
			PathStyle: a.cfg.GetBool(cfgKeyS3PathStyle),
		},
		Postgres: types.PostgresConfig{
			DSN: a.cfg.GetString(cfgKeyPostgresDSN),
		},
	}, nil
}
