package classindex

import (
	"fmt"
	"io"
	"strings"

	"github.com/edward-ap/classindex/internal/sortutil"
)

// PrintAnnotations writes a human-readable dump of every annotation type
// found in the index to w, in the exact format spec.md §4.D and
// Index.java's printAnnotations describe:
//
//	Annotations:
//	pkg.SomeAnnotation:
//	    Class: pkg.Target
//	        (name = value, other = value)
//	    Field: pkg.Target.field
//
// The parenthesized values line is written only for instances that carry
// values.
//
// Annotation-type sections are sorted by name for a deterministic dump;
// within a section, instances appear in append order.
func (idx *Index) PrintAnnotations(w io.Writer) error {
	names := make([]string, 0, len(idx.annotations))
	for name := range idx.annotations {
		names = append(names, name)
	}
	names = sortutil.StablePathSort(names)

	if _, err := fmt.Fprintln(w, "Annotations:"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
		for _, inst := range idx.annotations[name] {
			line := targetLabel(inst.Target()) + inst.Target().String()
			if _, err := fmt.Fprintf(w, "    %s\n", line); err != nil {
				return err
			}
			if len(inst.values) == 0 {
				continue
			}
			parts := make([]string, len(inst.values))
			for i, v := range inst.values {
				parts[i] = v.Render()
			}
			if _, err := fmt.Fprintf(w, "        (%s)\n", strings.Join(parts, ", ")); err != nil {
				return err
			}
		}
	}
	return nil
}

func targetLabel(t AnnotationTarget) string {
	switch t.Kind() {
	case TargetClass:
		return "Class: "
	case TargetField:
		return "Field: "
	case TargetMethod:
		return "Method: "
	case TargetParameter:
		return "Parameter: "
	default:
		return ""
	}
}

// PrintSubclasses writes a human-readable dump of every direct-subclass
// edge in the index to w:
//
//	Subclasses:
//	pkg.Super:
//	    pkg.Child
//
// Superclass sections are sorted by name; within a section, subclasses
// appear in append order.
func (idx *Index) PrintSubclasses(w io.Writer) error {
	names := make([]string, 0, len(idx.subclasses))
	for name := range idx.subclasses {
		names = append(names, name)
	}
	names = sortutil.StablePathSort(names)

	if _, err := fmt.Fprintln(w, "Subclasses:"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
			return err
		}
		for _, c := range idx.subclasses[name] {
			if _, err := fmt.Fprintf(w, "    %s\n", c.Name().String()); err != nil {
				return err
			}
		}
	}
	return nil
}
