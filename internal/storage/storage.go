// Package storage resolves ASCII video container locations to readers.
// It defines the Source interface (port) and implementations for local
// disk and S3, where downloaded objects are cached on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Static errors for location handling.
var (
	// ErrS3NotConfigured is returned when an s3:// location is opened
	// without S3 configuration.
	ErrS3NotConfigured = errors.New("S3 storage is not configured")
	// ErrInvalidLocation is returned when a location cannot be parsed.
	ErrInvalidLocation = errors.New("invalid location")
)

// Source opens ASCII video containers by location.
type Source interface {
	// Open returns a reader for the container at location, which is
	// either a local path or an s3://bucket/key URL.
	// The caller is responsible for closing the returned ReadCloser.
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// IsS3 reports whether location names an S3 object.
func IsS3(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3 splits an s3://bucket/key location into its bucket and key.
func ParseS3(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("%w: %q is not an s3 URL", ErrInvalidLocation, location)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}
