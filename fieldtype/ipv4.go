package fieldtype

import (
	"fmt"
	"math/rand"
	"net/netip"

	"github.com/maelig/go-cafuzz/bitstring"
	"github.com/maelig/go-cafuzz/ipm"
)

var _ DataType = (*IPv4)(nil)

// Fixed ranges backing the no-network boundary values. The multicast and
// reserved blocks are narrowed from their canonical /4 to /16 so host
// picking stays cheap; the public block is an arbitrary fixed range.
var (
	privateNet   = netip.MustParsePrefix("192.168.0.0/16")
	linkLocalNet = netip.MustParsePrefix("169.254.0.0/16")
	sixToFourNet = netip.MustParsePrefix("192.88.99.0/24")
	multicastNet = netip.MustParsePrefix("224.0.0.0/16")
	reservedNet  = netip.MustParsePrefix("240.0.0.0/16")
	publicNet    = netip.MustParsePrefix("13.37.0.0/16")

	testNets = []netip.Prefix{
		netip.MustParsePrefix("192.0.2.0/24"),
		netip.MustParsePrefix("198.51.100.0/24"),
		netip.MustParsePrefix("203.0.113.0/24"),
	}
)

// IPv4 is the 32-bit address variant. An exact address or a network
// membership constraint narrows what parses; the two are mutually
// exclusive. The size is fixed at 32 bits.
type IPv4 struct {
	baseType
	network    netip.Prefix
	hasNetwork bool
	address    netip.Addr
	hasAddress bool
}

// NewIPv4 creates an IPv4 address type. An exact address configured through
// WithAddress is pinned as the initial value.
func NewIPv4(opts ...Option) (*IPv4, error) {
	cfg := newTypeConfig(KindIPv4, 8, 32, 32)
	if err := cfg.applyOptions(opts); err != nil {
		return nil, err
	}
	t := &IPv4{
		baseType:   cfg.base(),
		network:    cfg.network,
		hasNetwork: cfg.networkSet,
		address:    cfg.address,
		hasAddress: cfg.addressSet,
	}
	if t.hasAddress {
		t.value = addrBits(t.address, t.endian)
	}

	return t, nil
}

// Network returns the configured network constraint.
func (t *IPv4) Network() (netip.Prefix, bool) {
	return t.network, t.hasNetwork
}

// Address returns the configured exact address constraint.
func (t *IPv4) Address() (netip.Addr, bool) {
	return t.address, t.hasAddress
}

// CanParse reports whether data converts to an IPv4 address satisfying the
// exact-value or network constraint. It accepts a dotted-quad string, an
// integer, a netip.Addr and exactly four raw bytes, and fails closed on any
// conversion error.
func (t *IPv4) CanParse(data any) (bool, error) {
	if data == nil {
		return false, ErrNoData
	}
	addr, err := t.toAddr(data)
	if err != nil {
		return false, nil
	}
	if t.hasAddress {
		return addr == t.address, nil
	}
	if t.hasNetwork {
		return t.network.Contains(addr), nil
	}

	return true, nil
}

// Generate returns the pinned value when set, a random member of the
// network when one is configured, and otherwise a random address with no
// zero octets whose first octet avoids the common private and loopback
// blocks.
func (t *IPv4) Generate() (*bitstring.BitString, error) {
	if t.value != nil {
		return t.value, nil
	}
	if t.hasNetwork {
		return addrBits(randomMember(t.network), t.endian), nil
	}

	var quad [4]byte
	first := 1 + rand.Intn(255)
	for first == 10 || first == 127 || first == 169 || first == 172 || first == 192 {
		first = 1 + rand.Intn(255)
	}
	quad[0] = byte(first)
	for i := 1; i < 4; i++ {
		quad[i] = byte(1 + rand.Intn(255))
	}

	return addrBits(netip.AddrFrom4(quad), t.endian), nil
}

// Encode converts a native address to its canonical 32 bits.
func (t *IPv4) Encode(native any) (*bitstring.BitString, error) {
	if native == nil {
		return nil, ErrNoData
	}
	addr, err := t.toAddr(native)
	if err != nil {
		return nil, err
	}

	return addrBits(addr, t.endian), nil
}

// Decode converts canonical 32-bit content back to a netip.Addr.
func (t *IPv4) Decode(bits *bitstring.BitString) (any, error) {
	if bits == nil {
		return nil, ErrNoData
	}
	if bits.Len() != 32 {
		return nil, fmt.Errorf("%w: %d bits is not an IPv4 address", ErrInvalidValue, bits.Len())
	}
	var quad [4]byte
	copy(quad[:], bits.Bytes())

	return netip.AddrFrom4(quad), nil
}

// BoundaryValues returns the network-relative tags when a network is
// configured, the absolute address tags otherwise.
func (t *IPv4) BoundaryValues() []BoundaryValue {
	return ipv4Boundaries(t.hasNetwork)
}

// Concretize pins the address realizing the boundary value selected in
// values. Network-relative tags fail with ErrNetworkRequired when no
// network is configured.
func (t *IPv4) Concretize(values map[string]string) error {
	tag, ok := values[BoundaryParam]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoBoundarySpec, t.kind)
	}
	addr, err := t.boundaryAddr(tag)
	if err != nil {
		return err
	}
	t.pin(addrBits(addr, t.endian))

	return nil
}

// IPMParams contributes the boundary catalog. The size range is closed, so
// no Size column appears.
func (t *IPv4) IPMParams() []ipm.Param {
	return t.ipmParams(t.BoundaryValues())
}

func (t *IPv4) boundaryAddr(tag string) (netip.Addr, error) {
	switch tag {
	case TagHost, TagNet, TagIllegal:
		if !t.hasNetwork {
			return netip.Addr{}, fmt.Errorf("%w: %q", ErrNetworkRequired, tag)
		}
	}

	switch tag {
	case TagHost:
		return randomHost(t.network), nil
	case TagNet:
		return t.network.Addr(), nil
	case TagIllegal:
		return randomHost(nextPrefix(t.network)), nil
	case TagBroadcast:
		if t.hasNetwork {
			return broadcastAddr(t.network), nil
		}

		return netip.AddrFrom4([4]byte{255, 255, 255, 255}), nil
	case TagLocalhost:
		return netip.AddrFrom4([4]byte{127, 0, 0, 1}), nil
	case TagPrivate:
		return randomHost(privateNet), nil
	case TagLink:
		return randomHost(linkLocalNet), nil
	case TagTestNet:
		return randomHost(testNets[rand.Intn(len(testNets))]), nil
	case Tag6To4:
		return randomHost(sixToFourNet), nil
	case TagMulticast:
		return randomHost(multicastNet), nil
	case TagReserved:
		return randomHost(reservedNet), nil
	case TagPublic:
		return randomHost(publicNet), nil
	default:
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrUnknownBoundaryTag, tag)
	}
}

// toAddr converts native data to an IPv4 address, rejecting netmask-shaped
// values. Four raw bytes are read in buffer order; under a signed
// interpretation a byte with the high bit set denotes a negative quad and
// fails the conversion.
func (t *IPv4) toAddr(data any) (netip.Addr, error) {
	switch v := data.(type) {
	case string:
		addr, err := netip.ParseAddr(v)
		if err != nil || !addr.Is4() {
			return netip.Addr{}, fmt.Errorf("%w: %q is not an IPv4 address", ErrInvalidValue, v)
		}

		return checkNetmask(addr)
	case netip.Addr:
		if !v.Is4() {
			return netip.Addr{}, fmt.Errorf("%w: %v is not an IPv4 address", ErrInvalidValue, v)
		}

		return checkNetmask(v)
	case int:
		if v < 0 || int64(v) > 0xFFFFFFFF {
			return netip.Addr{}, fmt.Errorf("%w: %d is outside the IPv4 range", ErrInvalidValue, v)
		}

		return checkNetmask(uintAddr(uint32(v)))
	case uint32:
		return checkNetmask(uintAddr(v))
	case []byte:
		if len(v) != 4 {
			return netip.Addr{}, fmt.Errorf("%w: %d bytes is not an IPv4 address", ErrInvalidValue, len(v))
		}
		if t.sign == Signed {
			for _, c := range v {
				if c > 0x7f {
					return netip.Addr{}, fmt.Errorf("%w: byte 0x%02x is negative under a signed interpretation", ErrInvalidValue, c)
				}
			}
		}

		return checkNetmask(netip.AddrFrom4([4]byte(v)))
	default:
		return netip.Addr{}, fmt.Errorf("%w: cannot encode %T as an IPv4 address", ErrInvalidValue, data)
	}
}

func checkNetmask(addr netip.Addr) (netip.Addr, error) {
	if isNetmask(addr) {
		return netip.Addr{}, fmt.Errorf("%w: %v", ErrNetmaskValue, addr)
	}

	return addr, nil
}

// isNetmask reports whether the address is a contiguous run of one bits
// followed by zeros, the shape of a subnet mask. The all-zero address
// counts as the empty mask.
func isNetmask(addr netip.Addr) bool {
	x := ^addrUint(addr)

	return x&(x+1) == 0
}

// addrBits maps the four address bytes onto canonical bits.
func addrBits(addr netip.Addr, endian bitstring.Endian) *bitstring.BitString {
	quad := addr.As4()

	return bitstring.FromBytes(quad[:], endian)
}

// addrUint returns the address as a 32-bit integer.
func addrUint(addr netip.Addr) uint32 {
	quad := addr.As4()

	return uint32(quad[0])<<24 | uint32(quad[1])<<16 | uint32(quad[2])<<8 | uint32(quad[3])
}

func uintAddr(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// broadcastAddr returns the broadcast address of the prefix.
func broadcastAddr(p netip.Prefix) netip.Addr {
	p = p.Masked()
	mask := uint64(1)<<uint(32-p.Bits()) - 1

	return uintAddr(addrUint(p.Addr()) | uint32(mask))
}

// nextPrefix returns the same-size network immediately after p, wrapping at
// the top of the address space.
func nextPrefix(p netip.Prefix) netip.Prefix {
	p = p.Masked()
	span := uint64(1) << uint(32-p.Bits())

	return netip.PrefixFrom(uintAddr(uint32(uint64(addrUint(p.Addr()))+span)), p.Bits())
}

// randomHost returns a uniform host address of the prefix, excluding the
// network and broadcast addresses. The prefix length is capped at /30 by
// construction, so the host range is never empty.
func randomHost(p netip.Prefix) netip.Addr {
	p = p.Masked()
	lo := addrUint(p.Addr()) + 1
	hi := addrUint(broadcastAddr(p)) - 1

	return uintAddr(lo + uint32(rand.Int63n(int64(hi-lo)+1)))
}

// randomMember returns a uniform member of the prefix, network and
// broadcast addresses included.
func randomMember(p netip.Prefix) netip.Addr {
	p = p.Masked()
	lo := addrUint(p.Addr())
	hi := addrUint(broadcastAddr(p))

	return uintAddr(lo + uint32(rand.Int63n(int64(hi-lo)+1)))
}
