// Package validator checks a candidate mapping against a live backend by
// creating a throwaway index with it and indexing real documents into it.
package validator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nonibytes/searchfields/pkg/searchfields/backend"
	sferrors "github.com/nonibytes/searchfields/pkg/searchfields/errors"
	"github.com/nonibytes/searchfields/pkg/searchfields/logging"
	"github.com/nonibytes/searchfields/pkg/searchfields/mapping"
	"github.com/nonibytes/searchfields/pkg/searchfields/metrics"
	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
)

const (
	// IndexPrefix starts every disposable index name.
	IndexPrefix = "socorro_mapping_test_"

	DefaultSampleSize = 50
	DefaultSampleAge  = 7 * 24 * time.Hour
)

// MappingArgument names the argument blamed when a mapping is rejected.
const MappingArgument = "storage_mapping"

type Validator struct {
	Backend backend.Backend

	// Partitions names the live indices that sample documents come from.
	Partitions partition.Template
	// SampleSize caps the number of sampled documents. Zero means
	// DefaultSampleSize; negative disables sampling.
	SampleSize int
	// SampleAge is how far back sampling reaches. Zero means DefaultSampleAge.
	SampleAge time.Duration

	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func New(b backend.Backend) *Validator {
	return &Validator{
		Backend:    b,
		Partitions: partition.DefaultTemplate,
		SampleSize: DefaultSampleSize,
		SampleAge:  DefaultSampleAge,
	}
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Test creates a disposable index with doc and indexes samples into it. With
// no samples, recent documents from the live partitions are used, and an
// empty document when there are none. A rejection by the backend is returned
// as ErrBadArgument naming the storage_mapping argument. The disposable
// index is removed on every path.
func (v *Validator) Test(ctx context.Context, doc mapping.Document, samples ...map[string]any) (err error) {
	log := logging.OrNoop(v.Logger)
	start := time.Now()
	index := IndexPrefix + uuid.NewString()
	indexed := 0

	defer func() {
		v.Metrics.ObserveValidation(time.Since(start).Seconds(), err)
		log.LogValidation(ctx, index, indexed, err)
	}()

	body, err := doc.Map()
	if err != nil {
		return sferrors.BadArgument(MappingArgument, "mapping is not serializable", err)
	}

	defer v.cleanup(ctx, log, index)

	if err := v.Backend.CreateIndex(ctx, index, body); err != nil {
		return v.classify("create_index", err)
	}

	if len(samples) == 0 {
		samples, err = v.sample(ctx, doc.DocType)
		if err != nil {
			return err
		}
	}
	for _, s := range samples {
		if err := v.Backend.IndexDocument(ctx, index, doc.DocType, s); err != nil {
			return v.classify("index_document", err)
		}
		indexed++
	}
	if err := v.Backend.Refresh(ctx, index); err != nil {
		return v.classify("refresh", err)
	}
	return nil
}

func (v *Validator) sample(ctx context.Context, docType string) ([]map[string]any, error) {
	size := v.SampleSize
	if size == 0 {
		size = DefaultSampleSize
	}
	var docs []map[string]any
	if size > 0 {
		age := v.SampleAge
		if age == 0 {
			age = DefaultSampleAge
		}
		tmpl := v.Partitions
		if tmpl == "" {
			tmpl = partition.DefaultTemplate
		}
		now := v.now()
		found, err := v.Backend.SampleDocuments(ctx, tmpl.Between(now.Add(-age), now), docType, size)
		if err != nil {
			v.Metrics.IncBackendFailure("sample")
			return nil, err
		}
		docs = found
	}
	if len(docs) == 0 {
		docs = []map[string]any{{}}
	}
	return docs, nil
}

func (v *Validator) classify(op string, err error) error {
	if sferrors.IsCode(err, sferrors.ErrBadArgument) {
		return sferrors.BadArgument(MappingArgument, "mapping rejected by "+op, err)
	}
	v.Metrics.IncBackendFailure(op)
	return err
}

// cleanup deletes the disposable index even when ctx is already cancelled.
// Failures are logged and never replace the result of the run.
func (v *Validator) cleanup(ctx context.Context, log *logging.Logger, index string) {
	ctx = context.WithoutCancel(ctx)
	err := v.Backend.DeleteIndex(ctx, index)
	if err == nil || sferrors.IsCode(err, sferrors.ErrIndexNotFound) {
		return
	}
	v.Metrics.IncBackendFailure("delete_index")
	log.WarnContext(ctx, "could not delete disposable index", "index", index, "error", err)
}
