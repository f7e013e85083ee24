package classindex

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/edward-ap/classindex/internal/dotted"
)

// BuildStats summarizes one Builder's run once Build has been called.
type BuildStats struct {
	ScanID             string
	ScannedClasses     int
	SkippedClasses     int
	ReplacedClasses    int
	MalformedFiles     int
	DuplicateClasses   int
	AnnotationsIndexed int
}

// Builder accumulates class descriptors and their annotations across many
// calls to Append or ReadClass, then freezes them into an *Index. A Builder
// is single-writer: nothing about it may be accessed from more than one
// goroutine at a time during the build phase. Once Build returns, the
// Builder itself should not be reused.
type Builder struct {
	interner *dotted.Interner
	mode     Mode
	logger   *slog.Logger
	scanID   string

	annotations  map[string][]*AnnotationInstance
	classes      map[string]*ClassDescriptor
	subclasses   map[string][]*ClassDescriptor
	implementors map[string][]*ClassDescriptor

	stats BuildStats

	registerer         prometheus.Registerer
	metricsScanned     prometheus.Counter
	metricsMalformed   prometheus.Counter
	metricsDuplicates  prometheus.Counter
	metricsAnnotations prometheus.Counter
}

// NewBuilder constructs an empty Builder. Every intern table it uses is
// private to this Builder, so class names decoded during this scan never
// leak identity into any other Builder or Index.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		interner:     dotted.NewInterner(),
		logger:       slog.Default(),
		scanID:       uuid.New().String(),
		annotations:  make(map[string][]*AnnotationInstance),
		classes:      make(map[string]*ClassDescriptor),
		subclasses:   make(map[string][]*ClassDescriptor),
		implementors: make(map[string][]*ClassDescriptor),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.stats.ScanID = b.scanID
	if b.registerer != nil {
		b.registerMetrics()
	}
	return b
}

func (b *Builder) registerMetrics() {
	b.metricsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classindex_classes_scanned_total",
		Help: "Class files successfully appended to the index.",
	})
	b.metricsMalformed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classindex_malformed_class_files_total",
		Help: "Class files rejected as malformed, in either mode.",
	})
	b.metricsDuplicates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classindex_duplicate_classes_total",
		Help: "Class names seen more than once in this build, whether rejected (strict mode) or replaced (lenient mode).",
	})
	b.metricsAnnotations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classindex_annotations_indexed_total",
		Help: "Annotation instances recorded across all scanned classes.",
	})
	// A registerer shared by successive builders (one per rescan) already
	// holds these counters; reuse them instead of failing the registration.
	for _, c := range []*prometheus.Counter{&b.metricsScanned, &b.metricsMalformed, &b.metricsDuplicates, &b.metricsAnnotations} {
		if err := b.registerer.Register(*c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				panic(err)
			}
			*c = are.ExistingCollector.(prometheus.Counter)
		}
	}
}

// ReadClass parses one class file's bytes via internal/classreader and
// appends the result. It is a convenience wrapper around Append for callers
// that hold raw class-file bytes rather than pre-parsed descriptors (the
// common case: a jar-walking driver).
func (b *Builder) ReadClass(r io.Reader) error {
	descriptor, annotations, err := readClass(r, b.interner)
	if err != nil {
		b.stats.MalformedFiles++
		if b.metricsMalformed != nil {
			b.metricsMalformed.Inc()
		}
		if IsMalformedClassFile(err) && b.mode == ModeLenient {
			b.stats.SkippedClasses++
			b.logger.Warn("skipping malformed class file", slog.String("scan_id", b.scanID), slog.String("error", err.Error()))
			return nil
		}
		return err
	}
	return b.Append(descriptor, annotations)
}

// Append records one already-parsed class into the builder: the class
// itself, its declared superclass and interfaces edges, and every
// annotation instance found on it, its fields, its methods, and their
// parameters. In ModeStrict a class name already recorded by this build
// returns a DuplicateClassError and leaves prior state untouched. In
// ModeLenient the new descriptor replaces the old one under the same name
// and BuildStats.ReplacedClasses is incremented. Either way a repeated
// class name bumps BuildStats.DuplicateClasses.
func (b *Builder) Append(class *ClassDescriptor, annotations []*AnnotationInstance) error {
	key := class.Name().String()
	if old, exists := b.classes[key]; exists {
		b.stats.DuplicateClasses++
		if b.metricsDuplicates != nil {
			b.metricsDuplicates.Inc()
		}
		if b.mode == ModeStrict {
			return &DuplicateClassError{Name: key}
		}
		b.purgeClass(old)
		b.stats.ReplacedClasses++
		b.logger.Debug("replacing duplicate class", slog.String("scan_id", b.scanID), slog.String("class", key))
	}
	b.classes[key] = class

	if super := class.Super(); super != nil {
		superKey := super.String()
		b.subclasses[superKey] = append(b.subclasses[superKey], class)
	}
	for _, iface := range class.Interfaces() {
		ifaceKey := iface.String()
		b.implementors[ifaceKey] = append(b.implementors[ifaceKey], class)
	}
	for _, inst := range annotations {
		annKey := inst.Name().String()
		b.annotations[annKey] = append(b.annotations[annKey], inst)
	}
	b.stats.AnnotationsIndexed += len(annotations)
	if b.metricsAnnotations != nil {
		b.metricsAnnotations.Add(float64(len(annotations)))
	}

	b.stats.ScannedClasses++
	if b.metricsScanned != nil {
		b.metricsScanned.Inc()
	}
	return nil
}

// purgeClass removes every edge and annotation entry this build has
// recorded that still references old, ahead of old being replaced by a
// newer descriptor of the same name in lenient mode. Without this, a
// replaced class's stale pointer would linger in subclasses/implementors/
// annotations even though it is no longer reachable from Index.classes,
// breaking the annotation round-trip for the replaced class.
func (b *Builder) purgeClass(old *ClassDescriptor) {
	if super := old.Super(); super != nil {
		superKey := super.String()
		b.subclasses[superKey] = removeClass(b.subclasses[superKey], old)
	}
	for _, iface := range old.Interfaces() {
		ifaceKey := iface.String()
		b.implementors[ifaceKey] = removeClass(b.implementors[ifaceKey], old)
	}
	for name, insts := range b.annotations {
		b.annotations[name] = removeAnnotationsOf(insts, old)
	}
}

func removeClass(list []*ClassDescriptor, c *ClassDescriptor) []*ClassDescriptor {
	if len(list) == 0 {
		return list
	}
	out := make([]*ClassDescriptor, 0, len(list))
	for _, x := range list {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

func removeAnnotationsOf(list []*AnnotationInstance, c *ClassDescriptor) []*AnnotationInstance {
	if len(list) == 0 {
		return list
	}
	out := make([]*AnnotationInstance, 0, len(list))
	for _, inst := range list {
		if !targetBelongsToClass(inst.Target(), c) {
			out = append(out, inst)
		}
	}
	return out
}

func targetBelongsToClass(t AnnotationTarget, c *ClassDescriptor) bool {
	switch t.Kind() {
	case TargetClass:
		cls, _ := t.Class()
		return cls == c
	case TargetField:
		f, _ := t.Field()
		return f.Owner() == c
	case TargetMethod:
		m, _ := t.Method()
		return m.Owner() == c
	case TargetParameter:
		m, _, _ := t.Parameter()
		return m.Owner() == c
	default:
		return false
	}
}

// Stats returns the running (or, after Build, final) counters for this
// scan.
func (b *Builder) Stats() BuildStats { return b.stats }

// Build freezes the accumulated maps into an *Index and returns it. Build
// is the publication barrier between the single-writer build phase and the
// lock-free many-reader phase: nothing about the returned Index, or
// anything reachable from it, changes afterward. Calling Append again on
// this Builder after Build is not supported.
func (b *Builder) Build() *Index {
	b.logger.Info("scan complete",
		slog.String("scan_id", b.scanID),
		slog.Int("scanned", b.stats.ScannedClasses),
		slog.Int("skipped", b.stats.SkippedClasses),
		slog.Int("replaced", b.stats.ReplacedClasses),
		slog.Int("malformed", b.stats.MalformedFiles),
		slog.Int("duplicates", b.stats.DuplicateClasses),
		slog.Int("annotations_indexed", b.stats.AnnotationsIndexed),
	)
	return &Index{
		annotations:  b.annotations,
		classes:      b.classes,
		subclasses:   b.subclasses,
		implementors: b.implementors,
	}
}

func (b *Builder) String() string {
	return fmt.Sprintf("Builder{scan_id=%s, classes=%d}", b.scanID, len(b.classes))
}
