package fieldtype

import "github.com/maelig/go-cafuzz/bitstring"

// BoundaryValue names one entry of a variant's boundary value catalog.
// Valid marks whether data realizing the entry satisfies the variant's
// constraints; invalid entries drive negative test messages.
type BoundaryValue struct {
	Tag   string
	Valid bool
}

// Generic bit pattern tags, shared by Bits, HexString and unconstrained
// Bytes instances. All of them are valid.
const (
	// TagNone is the all-zero pattern.
	TagNone = "VALUE_NONE"
	// TagAll is the all-one pattern.
	TagAll = "VALUE_ALL"
	// TagRand is a uniform random pattern excluding the six deterministic
	// patterns.
	TagRand = "VALUE_RAND"
	// TagMSB sets only the first bit.
	TagMSB = "VALUE_MSB"
	// TagLSB sets only the last bit.
	TagLSB = "VALUE_LSB"
	// TagTopHalf sets the first half of the bits.
	TagTopHalf = "VALUE_TOPHALF"
	// TagBottomHalf sets the bits from the midpoint on.
	TagBottomHalf = "VALUE_BOTTOMHALF"
)

// Alphabet legality tags, exposed by Bytes instances carrying an alphabet.
const (
	// TagLegal draws every byte from the alphabet.
	TagLegal = "VALUE_LEGAL"
	// TagIllegalStart places a byte outside the alphabet first.
	TagIllegalStart = "VALUE_ILLEGAL_START"
	// TagIllegalEnd places a byte outside the alphabet last.
	TagIllegalEnd = "VALUE_ILLEGAL_END"
	// TagIllegalRand places a byte outside the alphabet at a random interior
	// position.
	TagIllegalRand = "VALUE_ILLEGAL_RAND"
)

// IPv4 tags. The applicable subset depends on whether a network constraint
// is configured.
const (
	// TagHost is a random host inside the configured network.
	TagHost = "VALUE_HOST"
	// TagBroadcast is the broadcast address of the configured network, or
	// 255.255.255.255 without one.
	TagBroadcast = "VALUE_BROADCAST"
	// TagNet is the network address of the configured network.
	TagNet = "VALUE_NET"
	// TagIllegal is a random host of the next adjacent network.
	TagIllegal = "VALUE_ILLEGAL"
	// TagLocalhost is 127.0.0.1.
	TagLocalhost = "VALUE_LOCALHOST"
	// TagPrivate is a random host of 192.168.0.0/16.
	TagPrivate = "VALUE_PRIVATE"
	// TagLink is a random host of the link-local range 169.254.0.0/16.
	TagLink = "VALUE_LINK"
	// TagTestNet is a random host of one of the three documentation ranges.
	TagTestNet = "VALUE_TESTNET"
	// Tag6To4 is a random host of the 6to4 relay range 192.88.99.0/24.
	Tag6To4 = "VALUE_6TO4"
	// TagMulticast is a random host of 224.0.0.0/16.
	TagMulticast = "VALUE_MULTICAST"
	// TagReserved is a random host of the reserved range 240.0.0.0/16.
	TagReserved = "VALUE_RESERVED"
	// TagPublic is a random host of a fixed public range, 13.37.0.0/16.
	TagPublic = "VALUE_PUBLIC"
)

// bitBoundaries returns the generic tags feasible at the given maximum size.
// Tiny sizes omit the patterns that collapse into each other: below 4 bits
// the top half loses distinct meaning, below 3 the bottom half and the
// random pattern, below 2 the single-bit patterns.
func bitBoundaries(maxBits uint) []BoundaryValue {
	out := make([]BoundaryValue, 0, 7)
	out = append(out, BoundaryValue{TagNone, true}, BoundaryValue{TagAll, true})
	if maxBits >= 3 {
		out = append(out, BoundaryValue{TagRand, true})
	}
	if maxBits >= 2 {
		out = append(out, BoundaryValue{TagMSB, true}, BoundaryValue{TagLSB, true})
	}
	if maxBits >= 4 {
		out = append(out, BoundaryValue{TagTopHalf, true})
	}
	if maxBits >= 3 {
		out = append(out, BoundaryValue{TagBottomHalf, true})
	}

	return out
}

// alphabetBoundaries returns the legality tags feasible at the given maximum
// size. The end placement needs at least two units and the interior
// placement at least three, otherwise the positions are indistinguishable.
func alphabetBoundaries(maxBits, unitBits uint) []BoundaryValue {
	out := make([]BoundaryValue, 0, 4)
	out = append(out, BoundaryValue{TagLegal, true}, BoundaryValue{TagIllegalStart, false})
	if maxBits >= 2*unitBits {
		out = append(out, BoundaryValue{TagIllegalEnd, false})
	}
	if maxBits >= 3*unitBits {
		out = append(out, BoundaryValue{TagIllegalRand, false})
	}

	return out
}

// ipv4Boundaries returns the address tags applicable under the given
// configuration. Network-relative tags need a network; the absolute tags
// replace them without one. The limited broadcast applies either way.
func ipv4Boundaries(hasNetwork bool) []BoundaryValue {
	if hasNetwork {
		return []BoundaryValue{
			{TagHost, true},
			{TagBroadcast, false},
			{TagNet, false},
			{TagIllegal, false},
		}
	}

	return []BoundaryValue{
		{TagBroadcast, false},
		{TagLocalhost, true},
		{TagPrivate, true},
		{TagLink, false},
		{TagTestNet, true},
		{Tag6To4, false},
		{TagMulticast, false},
		{TagReserved, false},
		{TagPublic, true},
	}
}

// concretizeBits realizes one generic bit tag at the given size. The second
// return is false when the tag is not a generic bit tag. A zero size yields
// the empty bit string for every tag.
func concretizeBits(tag string, size uint, endian bitstring.Endian) (*bitstring.BitString, bool) {
	switch tag {
	case TagNone, TagAll, TagRand, TagMSB, TagLSB, TagTopHalf, TagBottomHalf:
	default:
		return nil, false
	}

	v := bitstring.New(size, endian)
	if size == 0 {
		return v, true
	}

	switch tag {
	case TagNone:
	case TagAll:
		v.SetAll()
	case TagMSB:
		v.SetBit(0, true)
	case TagLSB:
		v.SetBit(size-1, true)
	case TagTopHalf:
		v.SetRange(0, size/2)
	case TagBottomHalf:
		v.SetRange(size/2, size)
	case TagRand:
		v = randomBitsExcluding(size, endian)
	}

	return v, true
}

// randomBitsExcluding draws uniform random bits, resampling while the draw
// collides with one of the six deterministic patterns. Below 3 bits the
// patterns cover the whole value space and the first draw is kept.
func randomBitsExcluding(size uint, endian bitstring.Endian) *bitstring.BitString {
	excluded := excludedBitPatterns(size, endian)
	v := randomBits(size, endian)
	for size >= 3 && matchesAny(v, excluded) {
		v = randomBits(size, endian)
	}

	return v
}

// excludedBitPatterns builds the six deterministic patterns the random tag
// must avoid: none, all, msb, lsb, top half and bottom half.
func excludedBitPatterns(size uint, endian bitstring.Endian) []*bitstring.BitString {
	patterns := make([]*bitstring.BitString, 6)
	for i := range patterns {
		patterns[i] = bitstring.New(size, endian)
	}
	patterns[1].SetAll()
	if size > 0 {
		patterns[2].SetBit(0, true)
		patterns[3].SetBit(size-1, true)
	}
	patterns[4].SetRange(0, size/2)
	patterns[5].SetRange(size/2, size)

	return patterns
}

func matchesAny(v *bitstring.BitString, patterns []*bitstring.BitString) bool {
	for _, p := range patterns {
		if v.Equal(p) {
			return true
		}
	}

	return false
}
