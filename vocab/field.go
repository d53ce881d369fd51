package vocab

import (
	"github.com/maelig/go-cafuzz/internal/util"
	"github.com/maelig/go-cafuzz/ipm"
)

// Field is one named node of a symbol's field tree: a leaf carrying a
// variable domain, or an inner node grouping child fields.
type Field struct {
	name     string
	domain   Variable
	children []*Field
}

var _ ipm.Node = (*Field)(nil)

// NewField creates a leaf field with the given domain.
func NewField(name string, domain Variable) *Field {
	return &Field{name: name, domain: domain}
}

// NewFieldGroup creates an inner field grouping child fields in order. The
// group carries no domain of its own; its size is the sum of its children.
func NewFieldGroup(name string, children ...*Field) *Field {
	return &Field{name: name, children: children}
}

// Name returns the field name.
func (f *Field) Name() string {
	return f.name
}

// Domain returns the leaf domain, or nil for an inner field.
func (f *Field) Domain() Variable {
	return f.domain
}

// Fields returns the child fields of an inner field.
func (f *Field) Fields() []*Field {
	return util.CloneSlice(f.children, 0)
}

// IPMDomain implements ipm.Node.
func (f *Field) IPMDomain() *ipm.Group {
	if f.domain == nil {
		return nil
	}

	return f.domain.ipmGroup()
}

// IPMChildren implements ipm.Node.
func (f *Field) IPMChildren() []ipm.Child {
	return fieldChildren(f.children)
}

func fieldChildren(fields []*Field) []ipm.Child {
	out := make([]ipm.Child, len(fields))
	for i, f := range fields {
		out[i] = ipm.Child{Name: f.name, Node: f}
	}

	return out
}

func findField(fields []*Field, name string) (*Field, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
		if found, ok := findField(f.children, name); ok {
			return found, true
		}
	}

	return nil, false
}
