package pipeline

import (
	"fmt"

	"github.com/hupe1980/geoknn"
	"github.com/hupe1980/geoknn/blobstore"
	"github.com/hupe1980/geoknn/codec"
	"github.com/hupe1980/geoknn/distance"
	"github.com/hupe1980/geoknn/table"
)

// Config describes one filter, build and write run.
type Config struct {
	// Input and Output are blobstore locations (path, s3:// or minio://).
	Input  string
	Output string

	K       int
	Workers int
	Metric  distance.Metric

	// Format is "csv" or "jsonl". Empty infers it from Output.
	Format string
	// Codec names the JSON codec for JSON Lines output. Empty uses the default.
	Codec string

	Schema           table.Schema
	RejectDuplicates bool
}

// DefaultConfig returns the settings used when neither a job file nor a
// flag provides a value.
func DefaultConfig() Config {
	return Config{
		K:       geoknn.DefaultK,
		Workers: 1,
		Metric:  distance.MetricHaversine,
		Schema:  table.DefaultSchema,
	}
}

// plan is a validated Config with its locations and encodings resolved.
type plan struct {
	cfg    Config
	input  blobstore.Location
	output blobstore.Location
	format table.Format
	codec  codec.Codec
}

// Validate checks cfg without touching any storage.
func (cfg Config) Validate() error {
	_, err := cfg.plan()
	return err
}

func (cfg Config) plan() (*plan, error) {
	if cfg.Input == "" {
		return nil, fmt.Errorf("%w: no input given", geoknn.ErrInvalidInput)
	}
	if cfg.Output == "" {
		return nil, fmt.Errorf("%w: no output given", geoknn.ErrInvalidInput)
	}
	if cfg.K <= 0 {
		return nil, fmt.Errorf("%w: %w: got %d", geoknn.ErrInvalidInput, geoknn.ErrInvalidK, cfg.K)
	}
	if cfg.Schema.IDColumn == "" || cfg.Schema.LonColumn == "" || cfg.Schema.LatColumn == "" {
		return nil, fmt.Errorf("%w: id, lon and lat columns must be named", geoknn.ErrInvalidInput)
	}

	in, err := blobstore.ParseURL(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: input: %w", geoknn.ErrInvalidInput, err)
	}
	out, err := blobstore.ParseURL(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("%w: output: %w", geoknn.ErrInvalidInput, err)
	}

	format := table.FormatFromPath(cfg.Output)
	if cfg.Format != "" {
		if format, err = table.ParseFormat(cfg.Format); err != nil {
			return nil, fmt.Errorf("%w: %w", geoknn.ErrInvalidInput, err)
		}
	}

	c := codec.Default
	if cfg.Codec != "" {
		var ok bool
		if c, ok = codec.ByName(cfg.Codec); !ok {
			return nil, fmt.Errorf("%w: unknown codec %q", geoknn.ErrInvalidInput, cfg.Codec)
		}
	}

	return &plan{cfg: cfg, input: in, output: out, format: format, codec: c}, nil
}
