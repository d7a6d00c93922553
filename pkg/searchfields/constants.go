package searchfields

import (
	"github.com/nonibytes/searchfields/pkg/searchfields/drift"
	"github.com/nonibytes/searchfields/pkg/searchfields/mapping"
	"github.com/nonibytes/searchfields/pkg/searchfields/partition"
	"github.com/nonibytes/searchfields/pkg/searchfields/validator"
)

const (
	DefaultDocType       = mapping.DefaultDocType
	DefaultIndexTemplate = partition.DefaultTemplate
	DefaultLookback      = drift.DefaultLookback
	DefaultSampleSize    = validator.DefaultSampleSize
)
