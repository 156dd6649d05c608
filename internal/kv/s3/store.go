// Package s3 implements a key-value backend on an S3-compatible bucket
// (AWS S3 or MinIO). Each key maps to one object holding the raw value.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

var _ types.KeyValue = (*Store)(nil)

const (
	defaultRegion = "us-east-1"
	objectSuffix  = ".json"
	contentType   = "application/json"
)

// Store implements types.KeyValue on a single bucket.
type Store struct {
	mu     sync.RWMutex
	client *s3.Client
	bucket string
	prefix string
	closed bool
}

// New creates a Store from cfg. Credentials come from the default AWS chain
// (environment, shared config, instance role).
func New(ctx context.Context, cfg types.S3Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, types.ErrBucketEmpty
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *s3.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// ObjectKey returns the object key that holds key.
func (s *Store) ObjectKey(key string) string {
	return s.prefix + key + objectSuffix
}

// Get downloads the object for key. A missing object means the key was
// never set.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, types.ErrKeyEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, types.ErrStoreClosed
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.ObjectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, s.ObjectKey(key), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.ObjectKey(key), err)
	}
	return data, true, nil
}

// Set uploads value as the object for key, replacing any previous version.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return types.ErrKeyEmpty
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.ObjectKey(key)),
		Body:          bytes.NewReader(value),
		ContentLength: aws.Int64(int64(len(value))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("putting s3://%s/%s: %w", s.bucket, s.ObjectKey(key), err)
	}
	return nil
}

// Close marks the store closed. The SDK client holds no resources that
// need releasing. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
