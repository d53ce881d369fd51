package ipm

import (
	"fmt"
	"strings"

	"github.com/maelig/go-cafuzz/internal/util"
)

// Class identifies the kind of a concretizable object referenced by the model.
type Class int

const (
	// ClassType marks a primitive data type.
	ClassType Class = iota
	// ClassVar marks a structural variable.
	ClassVar
)

// Prefix returns the name segment separating an object's parameter columns
// from sibling columns.
func (c Class) Prefix() string {
	switch c {
	case ClassType:
		return "type"
	case ClassVar:
		return "var"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// String returns a human-readable representation of the class.
func (c Class) String() string {
	switch c {
	case ClassType:
		return "primitive type"
	case ClassVar:
		return "variable"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Candidate is one named boundary selection offered by a parameter.
// Valid marks whether selecting it produces a well-formed value; invalid
// candidates drive negative test cases.
type Candidate struct {
	Tag   string
	Valid bool
}

// Param is a named, ordered candidate list reported by an Object.
type Param struct {
	Name       string
	Candidates []Candidate
}

// Object is a concretizable leaf addressed by model columns. Concretize
// receives the parameter assignments of one covering-array row, keyed by
// parameter name with the column prefix already stripped, and mutates the
// object in place.
type Object interface {
	IPMClass() Class
	IPMParams() []Param
	Concretize(values map[string]string) error
}

// Node is one node of a field tree. A node exposes an optional domain and
// an ordered list of named children; both feed the recursive flatten.
type Node interface {
	// IPMDomain returns the node's parameter group, or nil when the node
	// carries none.
	IPMDomain() *Group
	// IPMChildren returns the node's named children in tree order.
	IPMChildren() []Child
}

// Child is a named child node.
type Child struct {
	Name string
	Node Node
}

// ColumnKind is the value of one model column: either an explicit candidate
// list or a reference to a downstream concretizable object.
type ColumnKind interface {
	isColumnKind()
}

// CandidateList is a column holding explicit candidates.
type CandidateList []Candidate

func (CandidateList) isColumnKind() {}

// ObjectColumn is a column referencing a concretizable object. It is a
// structural marker: it never appears in generator input, but anchors the
// prefix under which the object's parameter columns are grouped.
type ObjectColumn struct {
	Object Object
}

func (ObjectColumn) isColumnKind() {}

// ParamNode is one node of a domain's parameter tree before flattening:
// either a Leaf column or a named Group of further nodes.
type ParamNode interface {
	isParamNode()
}

// Leaf wraps a single column value.
type Leaf struct {
	Kind ColumnKind
}

func (Leaf) isParamNode() {}

// Group is an ordered name-to-node mapping.
type Group struct {
	names []string
	nodes map[string]ParamNode
}

func (*Group) isParamNode() {}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{nodes: make(map[string]ParamNode)}
}

// Add inserts a named node, replacing the value but keeping the original
// position when the name already exists.
func (g *Group) Add(name string, node ParamNode) *Group {
	if _, ok := g.nodes[name]; !ok {
		g.names = append(g.names, name)
	}
	g.nodes[name] = node

	return g
}

// Names returns the member names in insertion order.
func (g *Group) Names() []string {
	return util.CloneSlice(g.names, 0)
}

// Node returns the named member.
func (g *Group) Node(name string) (ParamNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.names)
}

// ObjectGroup builds the canonical domain group for a concretizable object:
// the object reference under key, and the object's parameters nested under
// the object's class prefix.
func ObjectGroup(key string, obj Object) *Group {
	g := NewGroup()
	g.Add(key, Leaf{Kind: ObjectColumn{Object: obj}})

	params := NewGroup()
	for _, p := range obj.IPMParams() {
		params.Add(p.Name, Leaf{Kind: CandidateList(p.Candidates)})
	}
	g.Add(obj.IPMClass().Prefix(), params)

	return g
}

// Model is a flat, insertion-ordered mapping from column name to ColumnKind.
type Model struct {
	names   []string
	columns map[string]ColumnKind
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{columns: make(map[string]ColumnKind)}
}

// Names returns the column names in insertion order.
func (m *Model) Names() []string {
	return util.CloneSlice(m.names, 0)
}

// Column returns the named column value.
func (m *Model) Column(name string) (ColumnKind, bool) {
	kind, ok := m.columns[name]
	return kind, ok
}

// Len returns the number of columns.
func (m *Model) Len() int {
	return len(m.names)
}

func (m *Model) add(name string, kind ColumnKind) {
	if _, ok := m.columns[name]; !ok {
		m.names = append(m.names, name)
	}
	m.columns[name] = kind
}

// Split partitions the model into independent type and variable models.
// A type model receives every ObjectColumn of ClassType together with the
// columns grouped under its type prefix; everything else goes to the
// variable model. Order is preserved within each part. The two models must
// be recombined only by aligning rows of their respective covering arrays.
func (m *Model) Split() (types, vars *Model) {
	typeNames := make(map[string]bool, len(m.names))
	for _, name := range m.names {
		oc, ok := m.columns[name].(ObjectColumn)
		if !ok || oc.Object.IPMClass() != ClassType {
			continue
		}
		typeNames[name] = true
		prefix := name + "_" + ClassType.Prefix() + "_"
		for _, k := range m.names {
			if strings.HasPrefix(k, prefix) {
				typeNames[k] = true
			}
		}
	}

	types = NewModel()
	vars = NewModel()
	for _, name := range m.names {
		if typeNames[name] {
			types.add(name, m.columns[name])
		} else {
			vars.add(name, m.columns[name])
		}
	}

	return types, vars
}
