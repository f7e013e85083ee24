package classindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edward-ap/classindex/internal/diff"
)

// requireDumpEqual compares a dump against its golden expectation, printing
// a unified diff instead of two dumped strings when they disagree — the
// whole reason PrintAnnotations/PrintSubclasses tests exist as golden files
// rather than one-line assert.Equal calls.
func requireDumpEqual(t *testing.T, name, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	t.Fatalf("%s dump mismatch:\n%s", name, diff.Unified("want", "got", want, got))
}

func TestPrintAnnotationsGolden(t *testing.T) {
	b := NewBuilder()
	in := newTestInterner()

	widget := testClass(in, "com.example.Widget", "")
	gadget := testClass(in, "com.example.Gadget", "")

	widgetAnn := NewAnnotationInstance(
		in.Intern("com.example.Deprecated"),
		classTarget(widget),
		[]AnnotationValue{NewStringValue("reason", "old api"), NewIntValue("since", 2)},
	)
	gadgetAnn := NewAnnotationInstance(in.Intern("com.example.Deprecated"), classTarget(gadget), nil)

	require.NoError(t, b.Append(widget, []*AnnotationInstance{widgetAnn}))
	require.NoError(t, b.Append(gadget, []*AnnotationInstance{gadgetAnn}))

	idx := b.Build()

	var out bytes.Buffer
	require.NoError(t, idx.PrintAnnotations(&out))

	want := "Annotations:\n" +
		"com.example.Deprecated:\n" +
		"    Class: com.example.Widget\n" +
		"        (reason = \"old api\", since = 2)\n" +
		"    Class: com.example.Gadget\n"
	requireDumpEqual(t, "PrintAnnotations", want, out.String())
}

func TestPrintSubclassesGolden(t *testing.T) {
	b := NewBuilder()
	in := newTestInterner()

	base := testClass(in, "com.example.Base", "")
	child1 := testClass(in, "com.example.Child1", "com.example.Base")
	child2 := testClass(in, "com.example.Child2", "com.example.Base")

	require.NoError(t, b.Append(base, nil))
	require.NoError(t, b.Append(child1, nil))
	require.NoError(t, b.Append(child2, nil))

	idx := b.Build()

	var out bytes.Buffer
	require.NoError(t, idx.PrintSubclasses(&out))

	want := "Subclasses:\n" +
		"com.example.Base:\n" +
		"    com.example.Child1\n" +
		"    com.example.Child2\n"
	requireDumpEqual(t, "PrintSubclasses", want, out.String())
}
