package bitstring

import (
	"bytes"
	"testing"
)

// FuzzBytesRoundTrip fuzzes the byte conversion in both directions.
//
// The invariant is: FromBytes followed by Bytes must reproduce the input
// exactly for both endianness tags, and must never panic.
func FuzzBytesRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0xFF})
	f.Add([]byte{0xA5, 0x5A})
	f.Add([]byte{0x80, 0x01, 0x7F, 0xFE})
	f.Add(bytes.Repeat([]byte{0x55}, 64))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, endian := range []Endian{BigEndian, LittleEndian} {
			b := FromBytes(data, endian)
			if b.Len() != uint(len(data))*8 {
				t.Fatalf("length mismatch: %d bits for %d bytes", b.Len(), len(data))
			}
			out := b.Bytes()
			if len(data) == 0 {
				if len(out) != 0 {
					t.Fatalf("expected empty output, got %d bytes", len(out))
				}
				continue
			}
			if !bytes.Equal(data, out) {
				t.Fatalf("round trip mismatch for endian %s: in=%x out=%x", endian, data, out)
			}
		}
	})
}

// FuzzParse fuzzes the textual constructor. Parse must never panic; on
// success the String form must reproduce the accepted input.
func FuzzParse(f *testing.F) {
	f.Add("")
	f.Add("0")
	f.Add("1")
	f.Add("010101")
	f.Add("11110000")
	f.Add("012")

	f.Fuzz(func(t *testing.T, s string) {
		b, err := Parse(s, BigEndian)
		if err != nil {
			return
		}
		if b.String() != s {
			t.Fatalf("round trip mismatch: in=%q out=%q", s, b.String())
		}
	})
}
