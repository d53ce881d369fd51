package ipm

import "errors"

// ErrNilNode indicates a model build over a nil tree node.
var ErrNilNode = errors.New("nil field tree node")

// BuildModel flattens the field tree rooted at root into a flat parameter
// model. Each child of the root is flattened under <symbolName>_<childName>;
// per node, the domain group is flattened at the node's prefix and children
// recurse with <prefix>_<childName>. Column discovery order is preserved so
// generator input and covering-array headers stay aligned.
func BuildModel(symbolName string, root Node) (*Model, error) {
	if root == nil {
		return nil, ErrNilNode
	}

	m := NewModel()
	for _, child := range root.IPMChildren() {
		if child.Node == nil {
			return nil, ErrNilNode
		}
		flattenNode(m, child.Node, symbolName+"_"+child.Name)
	}

	return m, nil
}

func flattenNode(m *Model, node Node, prefix string) {
	if g := node.IPMDomain(); g != nil {
		flattenGroup(m, g, prefix)
	}
	for _, child := range node.IPMChildren() {
		if child.Node == nil {
			continue
		}
		flattenNode(m, child.Node, prefix+"_"+child.Name)
	}
}

func flattenGroup(m *Model, g *Group, prefix string) {
	for _, name := range g.Names() {
		node, _ := g.Node(name)
		switch pn := node.(type) {
		case Leaf:
			switch kind := pn.Kind.(type) {
			case CandidateList:
				m.add(prefix+"_"+name, kind)
			case ObjectColumn:
				// object references sit at the bare node prefix
				m.add(prefix, kind)
			}
		case *Group:
			flattenGroup(m, pn, prefix+"_"+name)
		}
	}
}
