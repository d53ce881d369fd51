package vocab

import (
	"fmt"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/fieldtype"
)

// Specialize resolves every field of the symbol and concatenates the
// resolved bits in field order.
//
// The content pass resolves each data leaf: a preset wins outright, then a
// pinned or concretized value, then a memory recall, and a freshly drawn
// conforming value otherwise (memorized when a memory is given). The size
// pass then computes each size leaf from the resolved lengths of its
// targets, so size fields may precede their targets in the message. Both
// memory and presets may be nil.
func (s *Symbol) Specialize(mem *Memory, presets Presets) (*bitstring.BitString, error) {
	sp := &specializer{
		memory:   mem,
		presets:  presets,
		resolved: make(map[*Field]*bitstring.BitString),
	}

	var leaves []*Field
	collectLeaves(s.fields, &leaves)

	for _, f := range leaves {
		if _, ok := f.domain.(*SizeOf); ok {
			continue
		}
		if err := sp.resolveData(f); err != nil {
			return nil, err
		}
	}

	for _, f := range leaves {
		so, ok := f.domain.(*SizeOf)
		if !ok {
			continue
		}
		if err := sp.resolveSize(f, so); err != nil {
			return nil, err
		}
	}

	return sp.assemble(leaves)
}

type specializer struct {
	memory   *Memory
	presets  Presets
	resolved map[*Field]*bitstring.BitString
}

func (sp *specializer) resolveData(f *Field) error {
	if preset, ok := sp.presets[f]; ok {
		sp.resolved[f] = preset.Clone()
		return nil
	}

	d := f.domain.(*Data)
	dt := d.dataType

	if v := dt.Value(); v != nil {
		sp.resolved[f] = v.Clone()
		return nil
	}

	if sp.memory != nil {
		if v, ok := sp.memory.Recall(d); ok {
			sp.resolved[f] = v
			return nil
		}
	}

	v, err := dt.Generate()
	if err != nil {
		return fmt.Errorf("generate field %q: %w", f.name, err)
	}
	if sp.memory != nil {
		sp.memory.Memorize(d, v)
	}
	sp.resolved[f] = v

	return nil
}

func (sp *specializer) resolveSize(f *Field, so *SizeOf) error {
	if preset, ok := sp.presets[f]; ok {
		sp.resolved[f] = preset.Clone()
		return nil
	}

	targetBits := uint(0)
	for _, target := range so.targets {
		targetBits += sp.lengthOf(target)
	}

	v, err := so.compute(targetBits)
	if err != nil {
		return fmt.Errorf("size field %q: %w", f.name, err)
	}
	sp.resolved[f] = v

	return nil
}

// lengthOf returns the resolved bit length of a field. Size leaves have a
// statically known width, so their length is available before their value.
func (sp *specializer) lengthOf(f *Field) uint {
	if len(f.children) > 0 {
		total := uint(0)
		for _, c := range f.children {
			total += sp.lengthOf(c)
		}

		return total
	}

	if v, ok := sp.resolved[f]; ok {
		return v.Len()
	}
	if preset, ok := sp.presets[f]; ok {
		return preset.Len()
	}
	so := f.domain.(*SizeOf)

	return so.width
}

func (sp *specializer) assemble(leaves []*Field) (*bitstring.BitString, error) {
	total := uint(0)
	for _, f := range leaves {
		total += sp.resolved[f].Len()
	}
	if total > fieldtype.MaxDataBits {
		return nil, fmt.Errorf("%w: %d bits", ErrMessageTooLarge, total)
	}

	// fields keep their own byte mapping; the message is a plain big-endian
	// bit sequence in field order
	out := bitstring.New(total, bitstring.BigEndian)
	offset := uint(0)
	for _, f := range leaves {
		v := sp.resolved[f]
		n := v.Len()
		for i := uint(0); i < n; i++ {
			if v.Bit(i) {
				out.SetBit(offset+i, true)
			}
		}
		offset += n
	}

	return out, nil
}

func collectLeaves(fields []*Field, out *[]*Field) {
	for _, f := range fields {
		if len(f.children) > 0 {
			collectLeaves(f.children, out)
			continue
		}
		*out = append(*out, f)
	}
}
