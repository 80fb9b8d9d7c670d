package frames

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maauso/asciiplay/internal/storage"
)

// Store loads frame collections from a storage.Source.
type Store struct {
	source storage.Source
	logger *slog.Logger
}

// NewStore returns a Store reading containers through source.
func NewStore(source storage.Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{source: source, logger: logger}
}

// Load opens and decodes the container at location. The encoding is taken
// from the location's suffix.
func (s *Store) Load(ctx context.Context, location string) (*Collection, error) {
	enc, err := EncodingForPath(location)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	r, err := s.source.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	c, err := Decode(r, enc)
	if err != nil {
		s.logger.Error("failed to decode container",
			slog.String("location", location),
			slog.String("encoding", enc.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("load %s: %w", location, err)
	}

	s.logger.Info("container loaded",
		slog.String("location", location),
		slog.String("encoding", enc.String()),
		slog.Int("frames", c.Len()),
		slog.Int("rows", c.Rows()),
		slog.Int("cols", c.Cols()),
		slog.Float64("fps", c.FPS),
		slog.Duration("took", time.Since(start)),
	)
	return c, nil
}
