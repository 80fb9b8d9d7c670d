package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config describes how to reach the bucket holding containers.
type S3Config struct {
	Region string
	// Endpoint points the client at an S3-compatible store such as MinIO.
	// Path-style addressing is used when it is set.
	Endpoint string
	// AccessKeyID and SecretAccessKey select static credentials. When
	// either is empty the default AWS credential chain applies.
	AccessKeyID     string
	SecretAccessKey string
	// Refresh forces a download even when the object is already cached.
	Refresh bool
}

// S3Storage wraps LocalStorage and adds s3:// location support.
// Objects are downloaded once into the LocalStorage cache directory
// and opened from there.
type S3Storage struct {
	*LocalStorage
	client  *s3.Client
	region  string
	refresh bool
	logger  *slog.Logger
}

// NewS3Storage returns an S3Storage caching downloads under cacheDir.
func NewS3Storage(cacheDir string, cfg S3Config, logger *slog.Logger) (*S3Storage, error) {
	local, err := NewLocalStorage(cacheDir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := newS3Client(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		LocalStorage: local,
		client:       client,
		region:       cfg.Region,
		refresh:      cfg.Refresh,
		logger:       logger,
	}, nil
}

func newS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		static := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		loadOpts = append(loadOpts, config.WithCredentialsProvider(static))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	}), nil
}

// Open opens the container at location. Local paths are delegated to
// the embedded LocalStorage; s3:// objects are served from the cache,
// downloading them first when necessary.
func (s *S3Storage) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsS3(location) {
		return s.LocalStorage.Open(ctx, location)
	}

	bucket, key, err := ParseS3(location)
	if err != nil {
		return nil, err
	}
	name := path.Join("s3", bucket, key)

	if !s.refresh {
		r, err := s.LoadCache(ctx, name)
		if err == nil {
			s.logger.Debug("container served from cache",
				slog.String("location", location),
			)
			return r, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := s.download(ctx, bucket, key, name); err != nil {
		return nil, err
	}
	return s.LoadCache(ctx, name)
}

// download fetches bucket/key into the cache entry called name.
func (s *S3Storage) download(ctx context.Context, bucket, key, name string) error {
	s.logger.Info("downloading container",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.String("region", s.region),
	)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from S3: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	p, err := s.SaveCache(ctx, name, out.Body)
	if err != nil {
		return err
	}

	s.logger.Debug("container cached",
		slog.String("path", p),
	)
	return nil
}
