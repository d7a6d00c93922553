package partition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	at := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "socorro202402", DefaultTemplate.Format(at))
	assert.Equal(t, "fixed_name", Template("fixed_name").Format(at))
}

func TestWeekly(t *testing.T) {
	now := time.Date(2024, time.January, 24, 0, 0, 0, 0, time.UTC)
	got := DefaultTemplate.Weekly(now, 3)
	assert.Equal(t, []string{"socorro202404", "socorro202403", "socorro202402"}, got)
}

func TestWeeklyDeduplicates(t *testing.T) {
	now := time.Date(2024, time.January, 24, 0, 0, 0, 0, time.UTC)
	got := Template("socorro%Y").Weekly(now, 3)
	assert.Equal(t, []string{"socorro2024"}, got)
	assert.Empty(t, DefaultTemplate.Weekly(now, 0))
}

func TestBetween(t *testing.T) {
	to := time.Date(2024, time.January, 24, 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -7)
	assert.Equal(t, []string{"socorro202403", "socorro202404"}, DefaultTemplate.Between(from, to))

	// to falls in a partition the weekly stride skips over
	from = time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)
	to = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"socorro202401", "socorro202402", "socorro202403"}, DefaultTemplate.Between(from, to))
}
