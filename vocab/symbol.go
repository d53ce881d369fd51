package vocab

import (
	"fmt"

	"github.com/maelig/go-cafuzz/internal/util"
	"github.com/maelig/go-cafuzz/ipm"
)

// Symbol is a named message format: an ordered tree of fields specialized
// into one contiguous bit sequence.
type Symbol struct {
	name   string
	fields []*Field
}

var _ ipm.Node = (*Symbol)(nil)

// NewSymbol creates a symbol over the given fields and validates the tree:
// names must be non-empty and unique among siblings, every leaf needs a
// domain, and size domains must reference fields inside this symbol.
func NewSymbol(name string, fields ...*Field) (*Symbol, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: symbol", ErrEmptyName)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoFields, name)
	}

	s := &Symbol{name: name, fields: fields}
	if err := s.validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Name returns the symbol name.
func (s *Symbol) Name() string {
	return s.name
}

// Fields returns the top-level fields in order.
func (s *Symbol) Fields() []*Field {
	return util.CloneSlice(s.fields, 0)
}

// FieldByName returns the first field with the given name in depth-first
// declaration order.
func (s *Symbol) FieldByName(name string) (*Field, bool) {
	return findField(s.fields, name)
}

// IPMDomain implements ipm.Node; a symbol carries no domain of its own.
func (s *Symbol) IPMDomain() *ipm.Group {
	return nil
}

// IPMChildren implements ipm.Node.
func (s *Symbol) IPMChildren() []ipm.Child {
	return fieldChildren(s.fields)
}

// BuildModel builds the symbol's input parameter model. Column names are
// prefixed with the symbol name.
func (s *Symbol) BuildModel() (*ipm.Model, error) {
	return ipm.BuildModel(s.name, s)
}

func (s *Symbol) validate() error {
	members := make(map[*Field]bool)
	if err := validateFields(s.fields, members); err != nil {
		return err
	}

	// size targets resolve against the symbol's own tree
	for f := range members {
		so, ok := f.domain.(*SizeOf)
		if !ok {
			continue
		}
		if len(so.targets) == 0 {
			return fmt.Errorf("%w: field %q", ErrNoTargets, f.name)
		}
		if so.width < 1 || so.width > 64 {
			return fmt.Errorf("%w: field %q has width %d", ErrInvalidWidth, f.name, so.width)
		}
		if so.factor <= 0 {
			return fmt.Errorf("%w: field %q has factor %g", ErrInvalidFactor, f.name, so.factor)
		}
		for _, target := range so.targets {
			if target == nil || !members[target] {
				return fmt.Errorf("%w: field %q", ErrForeignTarget, f.name)
			}
		}
	}

	return nil
}

func validateFields(fields []*Field, members map[*Field]bool) error {
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f == nil {
			return ErrNilField
		}
		if f.name == "" {
			return fmt.Errorf("%w: field", ErrEmptyName)
		}
		if names[f.name] {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.name)
		}
		names[f.name] = true
		members[f] = true

		if len(f.children) == 0 {
			if err := validateDomain(f); err != nil {
				return err
			}
			continue
		}
		if err := validateFields(f.children, members); err != nil {
			return err
		}
	}

	return nil
}

func validateDomain(f *Field) error {
	switch d := f.domain.(type) {
	case *Data:
		if d.dataType == nil {
			return fmt.Errorf("%w: %q wraps no type", ErrNoDomain, f.name)
		}
	case *SizeOf:
		// target checks run once the whole tree is collected
	case nil:
		return fmt.Errorf("%w: %q", ErrNoDomain, f.name)
	}

	return nil
}
