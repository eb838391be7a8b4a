package source

import (
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/modelgen"
)

// Modifier is a set of declaration flags.
type Modifier uint32

// Declaration flags.
const (
	Public      Modifier = 0x1
	Private     Modifier = 0x2
	Protected   Modifier = 0x4
	Abstract    Modifier = 0x8
	Static      Modifier = 0x10
	Final       Modifier = 0x20
	Get         Modifier = 0x100
	Set         Modifier = 0x200
	GetSet               = Get | Set
	UseEquals   Modifier = 0x10000
	Interface   Modifier = 0x20000
	Constructor Modifier = 0x40000
)

// Has reports whether all flags of f are set in m.
func (m Modifier) Has(f Modifier) bool { return m&f == f }

// visibility returns the access keyword followed by a space, or "".
// Private wins over protected, protected over public.
func (m Modifier) visibility() string {
	switch {
	case m.Has(Private):
		return "private "
	case m.Has(Protected):
		return "protected "
	case m.Has(Public):
		return "public "
	default:
		return ""
	}
}

// String returns the flags in declaration keyword order, e.g. "public static".
func (m Modifier) String() string {
	var words []string
	for _, f := range []struct {
		flag Modifier
		word string
	}{
		{Public, "public"}, {Protected, "protected"}, {Private, "private"},
		{Abstract, "abstract"}, {Static, "static"}, {Final, "final"},
		{Interface, "interface"}, {Constructor, "constructor"},
	} {
		if m.Has(f.flag) {
			words = append(words, f.word)
		}
	}
	return strings.Join(words, " ")
}

// Handle identifies a class model. Members store the handle of their class
// instead of a pointer to it.
type Handle uuid.UUID

// String returns the handle in UUID form.
func (h Handle) String() string { return uuid.UUID(h).String() }

// lifecycle is shared by a class and all its members. Once the class is built,
// every mutation fails with ErrClassRendered.
type lifecycle struct {
	rendered bool
}

func (l *lifecycle) mutable() error {
	if l.rendered {
		return modelgen.ErrClassRendered
	}
	return nil
}
