// Package drift finds fields that live indices hold but the field table does
// not describe.
package drift

import (
	"context"
	"sort"
	"time"

	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/mapping"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
	"github.com/nonibytes/searchfields/pkg/searchfields/schema"
)

const DefaultLookback = 3

// Result lists the unknown field paths in ascending order.
type Result struct {
	Hits  []string `json:"hits"`
	Total int      `json:"total"`
}

type Detector struct {
	Backend    backend.Backend
	Partitions partition.Template
	// Lookback is the number of weekly partitions scanned, newest first.
	Lookback int
	DocType  string

	Logger  *logging.Logger
	Metrics *metrics.Metrics

	// Cache and Notifier are optional.
	Cache    Cache
	Notifier Notifier
}

func New(b backend.Backend) *Detector {
	return &Detector{
		Backend:    b,
		Partitions: partition.DefaultTemplate,
		Lookback:   DefaultLookback,
		DocType:    mapping.DefaultDocType,
	}
}

func (d *Detector) indices(now time.Time) []string {
	tmpl := d.Partitions
	if tmpl == "" {
		tmpl = partition.DefaultTemplate
	}
	lookback := d.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return tmpl.Weekly(now, lookback)
}

func (d *Detector) docType() string {
	if d.DocType == "" {
		return mapping.DefaultDocType
	}
	return d.DocType
}

// MissingFields scans the recent partitions and reports every field path
// present in their mappings and absent from table. Partitions that do not
// exist are skipped; any other backend error is returned.
func (d *Detector) MissingFields(ctx context.Context, table schema.Table, now time.Time) (Result, error) {
	log := logging.OrNoop(d.Logger)
	indices := d.indices(now)
	known := table.KnownPaths()

	var key string
	if d.Cache != nil {
		key = CacheKey(d.Partitions, indices, known)
		if res, ok, err := d.Cache.Get(ctx, key); err != nil {
			log.WarnContext(ctx, "drift cache read failed", "error", err)
		} else if ok {
			return res, nil
		}
	}

	existing := map[string]struct{}{}
	for _, index := range indices {
		m, err := d.Backend.GetMapping(ctx, index)
		if sferrors.IsCode(err, sferrors.ErrIndexNotFound) {
			log.LogMissingIndex(ctx, index)
			d.Metrics.IncMissingIndex()
			continue
		}
		if err != nil {
			d.Metrics.IncBackendFailure("get_mapping")
			return Result{}, err
		}
		for _, p := range Flatten(propertiesOf(m, d.docType())) {
			existing[p] = struct{}{}
		}
	}

	hits := make([]string, 0)
	for p := range existing {
		if _, ok := known[p]; !ok {
			hits = append(hits, p)
		}
	}
	sort.Strings(hits)
	res := Result{Hits: hits, Total: len(hits)}

	log.LogDrift(ctx, len(indices), res.Total)
	d.Metrics.ObserveDrift(res.Total)

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, key, res); err != nil {
			log.WarnContext(ctx, "drift cache write failed", "error", err)
		}
	}
	if d.Notifier != nil && res.Total > 0 {
		if err := d.Notifier.Notify(ctx, Report{Result: res, Indices: indices, At: now.UTC()}); err != nil {
			log.WarnContext(ctx, "drift notification failed", "error", err)
		}
	}
	return res, nil
}

func propertiesOf(m map[string]any, docType string) map[string]any {
	body, _ := m[docType].(map[string]any)
	props, _ := body["properties"].(map[string]any)
	return props
}

// Flatten returns the dotted path of every leaf under properties. Any node
// carrying its own properties is descended into rather than reported.
func Flatten(properties map[string]any) []string {
	var out []string
	flatten("", properties, &out)
	sort.Strings(out)
	return out
}

func flatten(prefix string, properties map[string]any, out *[]string) {
	for name, v := range properties {
		path := prefix + name
		if node, ok := v.(map[string]any); ok {
			if sub, ok := node["properties"].(map[string]any); ok {
				flatten(path+".", sub, out)
				continue
			}
		}
		*out = append(*out, path)
	}
}
