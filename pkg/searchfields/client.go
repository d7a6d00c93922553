package searchfields

import (
	"context"
	"errors"
	"time"

	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	"github.com/nonibytes/searchfields/pkg/searchfields/drift"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/mapping"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
	"github.com/nonibytes/searchfields/pkg/searchfields/validator"
)

// Config tunes a Client. Zero values fall back to the package defaults.
type Config struct {
	DocType    string
	Partitions partition.Template
	Lookback   int
	SampleSize int

	Logger   *logging.Logger
	Metrics  *metrics.Metrics
	Cache    drift.Cache
	Notifier drift.Notifier

	// Now is the clock used by MissingFields.
	Now func() time.Time
}

// Client ties a field table to a backend.
type Client struct {
	backend   backend.Backend
	table     schema.Table
	docType   string
	validator *validator.Validator
	detector  *drift.Detector
	now       func() time.Time
	closers   []func() error
}

func NewClient(b backend.Backend, table schema.Table, cfg Config) *Client {
	if cfg.DocType == "" {
		cfg.DocType = DefaultDocType
	}
	if cfg.Partitions == "" {
		cfg.Partitions = DefaultIndexTemplate
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	v := validator.New(b)
	v.Partitions = cfg.Partitions
	if cfg.SampleSize != 0 {
		v.SampleSize = cfg.SampleSize
	}
	v.Logger = cfg.Logger
	v.Metrics = cfg.Metrics
	v.Now = cfg.Now

	d := drift.New(b)
	d.Partitions = cfg.Partitions
	d.DocType = cfg.DocType
	if cfg.Lookback > 0 {
		d.Lookback = cfg.Lookback
	}
	d.Logger = cfg.Logger
	d.Metrics = cfg.Metrics
	d.Cache = cfg.Cache
	d.Notifier = cfg.Notifier

	return &Client{
		backend:   b,
		table:     table,
		docType:   cfg.DocType,
		validator: v,
		detector:  d,
		now:       cfg.Now,
	}
}

func (c *Client) Backend() backend.Backend { return c.backend }

// Fields returns a copy of the field table.
func (c *Client) Fields() schema.Table { return c.table.Clone() }

// Mapping builds the index mapping for the field table. A non-nil override
// replaces (or adds) the descriptor of the same name for this call only.
func (c *Client) Mapping(override *schema.Descriptor) mapping.Document {
	opts := []mapping.BuildOption{mapping.WithDocType(c.docType)}
	if override != nil {
		opts = append(opts, mapping.WithOverride(*override))
	}
	return mapping.Build(c.table, opts...)
}

// TestMapping checks doc against the backend. See validator.Validator.Test.
func (c *Client) TestMapping(ctx context.Context, doc mapping.Document, samples ...map[string]any) error {
	return c.validator.Test(ctx, doc, samples...)
}

// MissingFields lists fields stored in recent indices that the field table
// does not know about.
func (c *Client) MissingFields(ctx context.Context) (drift.Result, error) {
	return c.detector.MissingFields(ctx, c.table, c.now())
}

// Close releases the backend and any notifier or cache connections.
func (c *Client) Close() error {
	errs := make([]error, 0, len(c.closers)+1)
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	errs = append(errs, c.backend.Close())
	return errors.Join(errs...)
}
