package classindex

import "github.com/edward-ap/classindex/internal/dotted"

func newTestInterner() *dotted.Interner {
	return dotted.NewInterner()
}
