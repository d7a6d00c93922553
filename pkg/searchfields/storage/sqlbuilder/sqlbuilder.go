// Package sqlbuilder allocates bind placeholders for the SQL dialects the
// embedded backends speak.
package sqlbuilder

import (
	"strconv"
	"strings"
)

type PlaceholderStyle int

const (
	// PlaceholderQuestion emits numbered SQLite parameters (?1, ?2, ...).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar emits PostgreSQL parameters ($1, $2, ...).
	PlaceholderDollar
)

type Builder struct {
	Style PlaceholderStyle
	args  []any
}

func New(style PlaceholderStyle) *Builder {
	return &Builder{Style: style, args: make([]any, 0)}
}

// Arg records v and returns the placeholder that binds it.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	n := strconv.Itoa(len(b.args))
	if b.Style == PlaceholderDollar {
		return "$" + n
	}
	return "?" + n
}

// In records every value and returns a parenthesised placeholder list for an
// IN clause. An empty list yields "(NULL)", which matches nothing.
func (b *Builder) In(values []string) string {
	if len(values) == 0 {
		return "(NULL)"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = b.Arg(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (b *Builder) Args() []any { return b.args }
func (b *Builder) Len() int    { return len(b.args) }
