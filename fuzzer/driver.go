package fuzzer

import (
	"fmt"
	"strings"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
	"github.com/maelig/go-cafuzz/logger"
	"github.com/maelig/go-cafuzz/pict"
)

// SpecializeFunc produces one message from the current state of the bound
// field tree.
type SpecializeFunc func() (*bitstring.BitString, error)

// Driver turns covering array rows into messages. For every row it
// concretizes the model's objects from the row's cells and invokes the
// specialization closure. The objects are the caller's own, mutated in
// place, so two drivers must not be interleaved over the same field tree.
type Driver struct {
	model      *ipm.Model
	specialize SpecializeFunc
	logger     logger.Logger
}

// DriverOption configures a Driver.
type DriverOption interface {
	apply(*Driver)
}

type driverOptFunc func(*Driver)

func (f driverOptFunc) apply(d *Driver) { f(d) }

// WithDriverLogger replaces the default logger.
func WithDriverLogger(l logger.Logger) DriverOption {
	return driverOptFunc(func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	})
}

// NewDriver binds a parameter model to a specialization closure.
func NewDriver(model *ipm.Model, specialize SpecializeFunc, opts ...DriverOption) (*Driver, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	if specialize == nil {
		return nil, ErrNoSpecializer
	}

	d := &Driver{
		model:      model,
		specialize: specialize,
		logger:     logger.GetLogger(),
	}
	for _, opt := range opts {
		opt.apply(d)
	}

	return d, nil
}

// binding ties one concretizable object to the array columns supplying its
// parameters.
type binding struct {
	column string
	object ipm.Object
	params []paramBinding
}

type paramBinding struct {
	column int
	name   string
}

// Messages returns a lazy one-pass sequence of specialized messages over
// the rows of the primary covering array.
//
// With a nil variable array every object binds against the primary header
// and each primary row yields one message. With a non-nil variable array
// the sequence crosses every variable row against every primary row; type
// objects bind their parameter columns against the primary header and
// variable objects against the variable header.
func (d *Driver) Messages(primary, vars *pict.Array) (*Sequence, error) {
	if primary == nil {
		return nil, ErrNoArray
	}

	varHeader := primary
	if vars != nil {
		varHeader = vars
	}

	seq := &Sequence{
		specialize: d.specialize,
		logger:     d.logger,
		primary:    primary,
	}
	if vars != nil {
		seq.varRows = vars.Rows
		seq.crossed = true
	}

	for _, name := range d.model.Names() {
		kind, _ := d.model.Column(name)
		oc, ok := kind.(ipm.ObjectColumn)
		if !ok {
			continue
		}

		header := primary
		class := oc.Object.IPMClass()
		if class == ipm.ClassVar {
			header = varHeader
		}

		b := binding{
			column: name,
			object: oc.Object,
			params: bindParams(name, class, header),
		}
		if class == ipm.ClassType {
			seq.types = append(seq.types, b)
		} else {
			seq.vars = append(seq.vars, b)
		}
	}

	return seq, nil
}

// bindParams collects the header columns carrying parameters for the given
// object column. A parameter column is named column_prefix_param; cells of
// columns with no such prefix never reach the object.
func bindParams(column string, class ipm.Class, header *pict.Array) []paramBinding {
	prefix := column + "_" + class.Prefix() + "_"

	var out []paramBinding
	for i, name := range header.Params {
		if strings.HasPrefix(name, prefix) {
			out = append(out, paramBinding{column: i, name: strings.TrimPrefix(name, prefix)})
		}
	}

	return out
}

// Sequence is a lazy finite stream of specialized messages. It is not
// restartable; iterating again requires re-reading the covering arrays.
type Sequence struct {
	specialize SpecializeFunc
	logger     logger.Logger
	primary    *pict.Array
	varRows    [][]string
	crossed    bool
	types      []binding
	vars       []binding

	row    int
	varRow int
	msg    *bitstring.BitString
	err    error
	done   bool
}

// Next advances to the next covering array row pair and reports whether a
// message was produced. It returns false when the rows are exhausted or
// when a row failed; a failing row never yields a message.
func (s *Sequence) Next() bool {
	if s.done {
		return false
	}
	if s.row >= len(s.primary.Rows) || (s.crossed && len(s.varRows) == 0) {
		s.done = true
		return false
	}

	row := s.primary.Rows[s.row]
	if s.varRow == 0 {
		// types strictly before variables, so a variable concretized from
		// the same row pair observes the type's already concretized state
		if err := s.concretizeAll(s.types, row); err != nil {
			s.fail(fmt.Errorf("row %d: %w", s.row, err))
			return false
		}
	}

	// without a variable array the primary row stands in for the variable
	// row
	varRow := row
	if s.crossed {
		varRow = s.varRows[s.varRow]
	}
	if err := s.concretizeAll(s.vars, varRow); err != nil {
		s.fail(fmt.Errorf("row %d: %w", s.row, err))
		return false
	}

	msg, err := s.specialize()
	if err != nil {
		s.fail(fmt.Errorf("specialize row %d: %w", s.row, err))
		return false
	}

	s.logger.Debug("specialized message", "row", s.row, "varRow", s.varRow, "bits", msg.Len())
	s.msg = msg
	s.advance()

	return true
}

// Message returns the message produced by the last successful Next.
func (s *Sequence) Message() *bitstring.BitString {
	return s.msg
}

// Err returns the error that ended the sequence early, or nil after a full
// pass.
func (s *Sequence) Err() error {
	return s.err
}

func (s *Sequence) concretizeAll(bindings []binding, row []string) error {
	for _, b := range bindings {
		values := make(map[string]string, len(b.params))
		for _, p := range b.params {
			values[p.name] = row[p.column]
		}
		if err := b.object.Concretize(values); err != nil {
			return fmt.Errorf("concretize %s: %w", b.column, err)
		}
	}

	return nil
}

func (s *Sequence) advance() {
	s.varRow++
	limit := 1
	if s.crossed {
		limit = len(s.varRows)
	}
	if s.varRow >= limit {
		s.varRow = 0
		s.row++
	}
}

func (s *Sequence) fail(err error) {
	s.err = err
	s.done = true
}
