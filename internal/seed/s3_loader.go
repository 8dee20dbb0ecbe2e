package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// maxSeedObjectSize bounds how much of an S3 seed object is read.
const maxSeedObjectSize = 16 << 20

// s3Loader reads a seed payload from an S3 object.
type s3Loader struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-based seed loader.
func NewS3Loader(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-seed-loader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 seed loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

func (l *s3Loader) Load(ctx context.Context) (*Data, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Msg("loading seed from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", l.key).
			Msg("failed to get seed object from S3")
		return nil, fmt.Errorf("failed to get seed object from S3 (bucket=%s, key=%s): %w", l.bucket, l.key, err)
	}
	defer result.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(result.Body, maxSeedObjectSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read seed object from S3 %s: %w", l.key, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed object %s: %w", l.key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Int("figures", len(data.Figures)).
		Int("events", len(data.Events)).
		Int("products", len(data.Products)).
		Msg("seed loaded from S3")
	return data, nil
}
