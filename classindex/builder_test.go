package classindex

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClass(interner interner, name string, super string, ifaces ...string) *ClassDescriptor {
	c := &ClassDescriptor{name: interner.Intern(name), access: AccPublic}
	if super != "" {
		s := interner.Intern(super)
		c.super = &s
	}
	for _, i := range ifaces {
		c.interfaces = append(c.interfaces, interner.Intern(i))
	}
	return c
}

// interner is the minimal surface builder_test.go needs from
// *dotted.Interner, so tests don't have to import internal/dotted directly.
type interner interface {
	Intern(string) Name
}

func TestBuilderAppendAndBuild(t *testing.T) {
	b := NewBuilder()
	in := newTestInterner()

	base := testClass(in, "com.example.Base", "")
	child := testClass(in, "com.example.Child", "com.example.Base")

	require.NoError(t, b.Append(base, nil))
	require.NoError(t, b.Append(child, nil))

	idx := b.Build()

	subs := idx.GetKnownDirectSubclasses("com.example.Base")
	require.Len(t, subs, 1)
	assert.Equal(t, "com.example.Child", subs[0].Name().String())

	_, ok := idx.GetClassByName("com.example.Nope")
	assert.False(t, ok)

	c, ok := idx.GetClassByName("com.example.Base")
	require.True(t, ok)
	assert.Equal(t, base, c)
}

func TestBuilderStrictModeRejectsDuplicate(t *testing.T) {
	b := NewBuilder(WithMode(ModeStrict))
	in := newTestInterner()
	c1 := testClass(in, "com.example.A", "")
	c2 := testClass(in, "com.example.A", "")

	require.NoError(t, b.Append(c1, nil))
	err := b.Append(c2, nil)
	require.Error(t, err)
	assert.True(t, IsDuplicateClass(err))
}

func TestBuilderLenientModeReplaces(t *testing.T) {
	b := NewBuilder(WithMode(ModeLenient))
	in := newTestInterner()
	c1 := testClass(in, "com.example.A", "")
	c2 := testClass(in, "com.example.A", "")

	require.NoError(t, b.Append(c1, nil))
	require.NoError(t, b.Append(c2, nil))

	stats := b.Stats()
	assert.Equal(t, 1, stats.ReplacedClasses)

	idx := b.Build()
	c, ok := idx.GetClassByName("com.example.A")
	require.True(t, ok)
	assert.Same(t, c2, c)
}

func TestBuilderLenientModeReplacePurgesStaleEdges(t *testing.T) {
	b := NewBuilder(WithMode(ModeLenient))
	in := newTestInterner()

	base := testClass(in, "com.example.Base", "")
	require.NoError(t, b.Append(base, nil))

	child1 := testClass(in, "com.example.Child", "com.example.Base")
	inst := NewAnnotationInstance(in.Intern("com.example.Ann"), classTarget(child1), nil)
	require.NoError(t, b.Append(child1, []*AnnotationInstance{inst}))

	// A second class file for "com.example.Child" arrives (e.g. a rescan):
	// it no longer extends Base and carries no annotations. The stale edges
	// left over from child1 must not survive into the built Index.
	child2 := testClass(in, "com.example.Child", "")
	require.NoError(t, b.Append(child2, nil))

	idx := b.Build()

	subs := idx.GetKnownDirectSubclasses("com.example.Base")
	assert.Empty(t, subs)

	got := idx.GetAnnotations("com.example.Ann")
	assert.Empty(t, got)

	c, ok := idx.GetClassByName("com.example.Child")
	require.True(t, ok)
	assert.Same(t, child2, c)
}

func TestImplementorsIncludeInterfaceExtendsInterface(t *testing.T) {
	b := NewBuilder()
	in := newTestInterner()

	i2 := testClass(in, "com.example.I2", "")
	i2.access |= AccInterface
	i1 := testClass(in, "com.example.I1", "", "com.example.I2")
	i1.access |= AccInterface

	require.NoError(t, b.Append(i2, nil))
	require.NoError(t, b.Append(i1, nil))

	idx := b.Build()
	impls := idx.GetKnownDirectImplementors("com.example.I2")
	require.Len(t, impls, 1)
	assert.Equal(t, "com.example.I1", impls[0].Name().String())
}

func TestGetAnnotationsAndDumpFormat(t *testing.T) {
	b := NewBuilder()
	in := newTestInterner()

	target := testClass(in, "com.example.Widget", "")
	inst := NewAnnotationInstance(
		in.Intern("com.example.Deprecated"),
		classTarget(target),
		[]AnnotationValue{NewStringValue("reason", "old api")},
	)
	require.NoError(t, b.Append(target, []*AnnotationInstance{inst}))

	idx := b.Build()
	got := idx.GetAnnotations("com.example.Deprecated")
	require.Len(t, got, 1)
	assert.Equal(t, "com.example.Widget", got[0].Target().String())

	var out bytes.Buffer
	require.NoError(t, idx.PrintAnnotations(&out))
	expected := "Annotations:\n" +
		"com.example.Deprecated:\n" +
		"    Class: com.example.Widget\n" +
		"        (reason = \"old api\")\n"
	requireDumpEqual(t, "PrintAnnotations", expected, out.String())
}
