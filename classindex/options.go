package classindex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Mode selects how Builder.Append reacts to a duplicate class name.
type Mode uint8

const (
	// ModeStrict returns a DuplicateClassError from Append when a class
	// name already recorded by this build is appended again.
	ModeStrict Mode = iota
	// ModeLenient silently replaces the earlier descriptor and bumps
	// BuildStats.ReplacedClasses instead of returning an error.
	ModeLenient
)

// Option configures a Builder. See WithMode, WithLogger, and
// WithMetricsRegisterer.
type Option func(*Builder)

// WithMode sets the builder's duplicate-class policy. The default is
// ModeStrict.
func WithMode(m Mode) Option {
	return func(b *Builder) { b.mode = m }
}

// WithLogger sets the *slog.Logger the builder uses for scan diagnostics
// (malformed files skipped in lenient mode, duplicate replacements, final
// scan summary). The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetricsRegisterer registers the builder's scan counters
// (classindex_classes_scanned_total, classindex_malformed_class_files_total,
// classindex_duplicate_classes_total, classindex_annotations_indexed_total)
// with reg. Passing nil (the default) disables metrics entirely; a Builder
// created without this option never touches the default prometheus
// registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(b *Builder) { b.registerer = reg }
}
