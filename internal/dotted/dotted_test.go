package dotted

import "testing"

func TestInternCanonicalization(t *testing.T) {
	in := NewInterner()

	a := in.Intern("java.lang.String")
	b := in.Intern("java.lang.String")
	if !a.Equal(b) {
		t.Fatalf("expected equal names, got %q vs %q", a, b)
	}
	if a.String() != "java.lang.String" {
		t.Fatalf("unexpected render: %q", a.String())
	}

	c := in.Intern("java.lang.Object")
	if a.Equal(c) {
		t.Fatalf("distinct names compared equal")
	}
}

func TestInternComponentMatchesFlat(t *testing.T) {
	in := NewInterner()

	flat := in.Intern("pkg.Outer.Inner")

	var parent *Name
	for _, part := range []string{"pkg", "Outer", "Inner"} {
		n := in.InternComponent(parent, part)
		parent = &n
	}
	shared := *parent

	if !flat.Equal(shared) {
		t.Fatalf("component-built name %q not equal to flat-built name %q", shared, flat)
	}
	if !shared.IsComponentShared() {
		t.Fatalf("expected component-shared flag to be set")
	}
}

func TestInternSlashSeparated(t *testing.T) {
	in := NewInterner()
	a := in.Intern("java/lang/String")
	b := in.Intern("java.lang.String")
	if !a.Equal(b) {
		t.Fatalf("slash and dot forms should intern to the same name")
	}
}

func TestInternIdempotent(t *testing.T) {
	in := NewInterner()
	names := make([]Name, 0, 10)
	for i := 0; i < 10; i++ {
		names = append(names, in.Intern("a.b.C"))
	}
	for _, n := range names[1:] {
		if !n.Equal(names[0]) {
			t.Fatalf("interning is not idempotent")
		}
	}
}
