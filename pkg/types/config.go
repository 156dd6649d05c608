package types

import "errors"

// Config holds backend selection and parameters for opening the key-value
// service the catalog persists to.
type Config struct {
	Backend    string         `json:"backend" yaml:"backend"`
	DataDir    string         `json:"data_dir" yaml:"data_dir"`
	StorageKey string         `json:"storage_key" yaml:"storage_key"`
	S3         S3Config       `json:"s3" yaml:"s3"`
	Postgres   PostgresConfig `json:"postgres" yaml:"postgres"`
}

// S3Config selects the bucket used by the s3 backend. Credentials come from
// the default AWS chain.
type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"` // optional, for MinIO and friends
	Prefix    string `json:"prefix" yaml:"prefix"`     // prepended to every object key
	PathStyle bool   `json:"path_style" yaml:"path_style"`
}

// PostgresConfig holds the connection string for the postgres backend.
type PostgresConfig struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

// Supported backend names.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendS3       = "s3"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrBucketEmpty    = errors.New("s3 backend requires a bucket")
	ErrDSNEmpty       = errors.New("postgres backend requires a dsn")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendFile:     true,
	BackendSQLite:   true,
	BackendS3:       true,
	BackendPostgres: true,
	BackendMemory:   true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendS3 && c.S3.Bucket == "" {
		return ErrBucketEmpty
	}
	if c.Backend == BackendPostgres && c.Postgres.DSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

// Key returns the storage key, falling back to DefaultStorageKey.
func (c Config) Key() string {
	if c.StorageKey == "" {
		return DefaultStorageKey
	}
	return c.StorageKey
}
