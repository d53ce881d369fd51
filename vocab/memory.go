package vocab

import "github.com/maelig/go-cafuzz/bitstring"

// Memory persists generated field values across specializations: a value
// drawn for a data domain is memorized and recalled on later runs, keeping
// repeated specializations of related symbols consistent. Values are copied
// on store and on recall.
type Memory struct {
	values map[Variable]*bitstring.BitString
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{values: make(map[Variable]*bitstring.BitString)}
}

// Memorize stores a copy of the value for the variable, replacing any
// earlier one.
func (m *Memory) Memorize(v Variable, value *bitstring.BitString) {
	m.values[v] = value.Clone()
}

// Recall returns a copy of the memorized value for the variable.
func (m *Memory) Recall(v Variable) (*bitstring.BitString, bool) {
	value, ok := m.values[v]
	if !ok {
		return nil, false
	}

	return value.Clone(), true
}

// Forget drops the memorized value for the variable.
func (m *Memory) Forget(v Variable) {
	delete(m.values, v)
}

// Len returns the number of memorized variables.
func (m *Memory) Len() int {
	return len(m.values)
}

// Presets pin leaf fields to fixed bit sequences. A preset bypasses every
// constraint check during specialization: the bits are emitted for the
// field exactly as given, and on a size field they replace the computed
// value outright.
type Presets map[*Field]*bitstring.BitString
