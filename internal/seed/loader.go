package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

//go:embed seed.json
var embeddedSeed []byte

// embeddedLoader serves the compiled-in default catalog.
type embeddedLoader struct {
	logger zerolog.Logger
}

// NewEmbeddedLoader creates a loader for the compiled-in default catalog.
func NewEmbeddedLoader(logger zerolog.Logger) Loader {
	return &embeddedLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

func (l *embeddedLoader) Load(_ context.Context) (*Data, error) {
	data, err := decode(embeddedSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded seed: %w", err)
	}
	l.logger.Info().
		Int("figures", len(data.Figures)).
		Int("events", len(data.Events)).
		Int("products", len(data.Products)).
		Msg("embedded seed loaded")
	return data, nil
}

// fileLoader reads a seed payload from the local file system.
type fileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a file-based seed loader.
func NewFileLoader(path string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:   path,
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

func (l *fileLoader) Load(_ context.Context) (*Data, error) {
	l.logger.Info().Str("file", l.path).Msg("loading seed file")

	raw, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", l.path).Msg("failed to read seed file")
		return nil, fmt.Errorf("failed to read seed file %s: %w", l.path, err)
	}

	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", l.path, err)
	}

	l.logger.Info().
		Str("file", l.path).
		Int("figures", len(data.Figures)).
		Int("events", len(data.Events)).
		Int("products", len(data.Products)).
		Msg("seed file loaded")
	return data, nil
}

func decode(raw []byte) (*Data, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
