package hdpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// HardenedKeyStart is the index at which a hardened key starts. Each
	// extended key has 2^31 normal child keys and 2^31 hardened child keys.
	// Thus the range for normal child keys is [0, 2^31 - 1] and the range
	// for hardened child keys is [2^31, 2^32 - 1].
	HardenedKeyStart uint32 = 0x80000000 // 2^31

	// MaxChildNumber is the largest number a single child index may carry
	// before the hardened bit is applied.
	MaxChildNumber uint32 = HardenedKeyStart - 1

	// masterMarker is the canonical marker for the root of a path.
	masterMarker = "m"

	// hardenedMarker is the canonical marker for a hardened index. When
	// parsing, 'h' and 'H' are accepted as well.
	hardenedMarker = "'"
)

var (
	// ErrPathSyntax is returned when the textual form of a derivation
	// path cannot be parsed.
	ErrPathSyntax = errors.New("invalid derivation path syntax")

	// ErrIndexOutOfRange is returned when a child number does not fit in
	// 31 bits.
	ErrIndexOutOfRange = errors.New("child index out of range")
)

// ChildIndex is a single step in a derivation path. The number is always
// stored without the hardened offset applied.
type ChildIndex struct {
	number   uint32
	hardened bool
}

// NewChildIndex returns a child index for the given number, which must be
// strictly below 2^31.
func NewChildIndex(number uint32, hardened bool) (ChildIndex, error) {
	if number > MaxChildNumber {
		return ChildIndex{}, fmt.Errorf("%w: %d >= 2^31",
			ErrIndexOutOfRange, number)
	}

	return ChildIndex{number: number, hardened: hardened}, nil
}

// NormalIndex returns a non-hardened child index.
func NormalIndex(number uint32) (ChildIndex, error) {
	return NewChildIndex(number, false)
}

// HardenedIndex returns a hardened child index.
func HardenedIndex(number uint32) (ChildIndex, error) {
	return NewChildIndex(number, true)
}

// ChildIndexFromRaw decodes the BIP32 uint32 encoding of a child index.
func ChildIndexFromRaw(raw uint32) ChildIndex {
	if raw >= HardenedKeyStart {
		return ChildIndex{number: raw - HardenedKeyStart, hardened: true}
	}

	return ChildIndex{number: raw}
}

// Number returns the child number without the hardened offset.
func (c ChildIndex) Number() uint32 {
	return c.number
}

// IsHardened returns true if this index selects a hardened child.
func (c ChildIndex) IsHardened() bool {
	return c.hardened
}

// Raw returns the BIP32 uint32 encoding of the index, i.e. the number with
// 2^31 added for hardened children.
func (c ChildIndex) Raw() uint32 {
	if c.hardened {
		return c.number + HardenedKeyStart
	}

	return c.number
}

// String returns the canonical text for the index, using ' for hardened.
func (c ChildIndex) String() string {
	s := strconv.FormatUint(uint64(c.number), 10)
	if c.hardened {
		return s + hardenedMarker
	}

	return s
}

// DerivationPath is an ordered sequence of child indices. A DerivationPath
// is immutable once constructed: none of its methods modify the receiver and
// the slice handed out by Indices is a copy. The zero value is the empty
// (root) path.
type DerivationPath struct {
	indices []ChildIndex
}

// NewDerivationPath builds a path from the given indices.
func NewDerivationPath(indices ...ChildIndex) DerivationPath {
	if len(indices) == 0 {
		return DerivationPath{}
	}

	cp := make([]ChildIndex, len(indices))
	copy(cp, indices)

	return DerivationPath{indices: cp}
}

// FromRaw builds a path from BIP32 uint32 encoded indices.
func FromRaw(raw ...uint32) DerivationPath {
	if len(raw) == 0 {
		return DerivationPath{}
	}

	indices := make([]ChildIndex, len(raw))
	for i, r := range raw {
		indices[i] = ChildIndexFromRaw(r)
	}

	return DerivationPath{indices: indices}
}

// Concat returns a path holding a's indices followed by b's. The empty path
// is the identity element.
func Concat(a, b DerivationPath) DerivationPath {
	switch {
	case b.IsEmpty():
		return a

	case a.IsEmpty():
		return b
	}

	indices := make([]ChildIndex, 0, len(a.indices)+len(b.indices))
	indices = append(indices, a.indices...)
	indices = append(indices, b.indices...)

	return DerivationPath{indices: indices}
}

// Extend is the method form of Concat.
func (p DerivationPath) Extend(other DerivationPath) DerivationPath {
	return Concat(p, other)
}

// Child returns the path with a single index appended.
func (p DerivationPath) Child(index ChildIndex) DerivationPath {
	return Concat(p, DerivationPath{indices: []ChildIndex{index}})
}

// IsEmpty returns true for the root path.
func (p DerivationPath) IsEmpty() bool {
	return len(p.indices) == 0
}

// Len returns the number of indices in the path.
func (p DerivationPath) Len() int {
	return len(p.indices)
}

// Indices returns a copy of the path's indices in order.
func (p DerivationPath) Indices() []ChildIndex {
	cp := make([]ChildIndex, len(p.indices))
	copy(cp, p.indices)

	return cp
}

// Raw returns the BIP32 uint32 encoding of every index in the path.
func (p DerivationPath) Raw() []uint32 {
	raw := make([]uint32, len(p.indices))
	for i, idx := range p.indices {
		raw[i] = idx.Raw()
	}

	return raw
}

// HasHardened returns true if any index of the path is hardened.
func (p DerivationPath) HasHardened() bool {
	_, ok := p.FirstHardened()
	return ok
}

// FirstHardened returns the position of the first hardened index, if any.
func (p DerivationPath) FirstHardened() (int, bool) {
	for i, idx := range p.indices {
		if idx.hardened {
			return i, true
		}
	}

	return 0, false
}

// Equal returns true if both paths hold the same indices in the same order.
func (p DerivationPath) Equal(other DerivationPath) bool {
	if len(p.indices) != len(other.indices) {
		return false
	}

	for i := range p.indices {
		if p.indices[i] != other.indices[i] {
			return false
		}
	}

	return true
}

// Suffix returns the canonical text of the path without the leading master
// marker, e.g. "44'/0'/0". The empty path yields the empty string.
func (p DerivationPath) Suffix() string {
	parts := make([]string, len(p.indices))
	for i, idx := range p.indices {
		parts[i] = idx.String()
	}

	return strings.Join(parts, "/")
}

// String returns the canonical text of the path, e.g. "m/44'/0'/0". The
// empty path is rendered as "m".
func (p DerivationPath) String() string {
	if p.IsEmpty() {
		return masterMarker
	}

	return masterMarker + "/" + p.Suffix()
}

// markerRule selects how the leading master marker is treated by the parser.
type markerRule uint8

const (
	markerOptional markerRule = iota
	markerRequired
	markerForbidden
)

// Parse parses a derivation path such as "m/84'/1'/0'/0". The leading "m" is
// optional. Hardened indices may be marked with ', h or H.
func Parse(text string) (DerivationPath, error) {
	return parse(text, markerOptional)
}

// ParseAbsolute parses a path that is expressed from the master key and
// therefore must start with "m".
func ParseAbsolute(text string) (DerivationPath, error) {
	return parse(text, markerRequired)
}

// ParseRelative parses a path that is appended to an existing key, e.g. the
// suffix of a descriptor key. A leading "m" is rejected.
func ParseRelative(text string) (DerivationPath, error) {
	return parse(text, markerForbidden)
}

// MustParse is like Parse but panics on error. It is intended for constant
// paths in tests and package level variables.
func MustParse(text string) DerivationPath {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return p
}

func parse(text string, rule markerRule) (DerivationPath, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		if rule == markerRequired {
			return DerivationPath{}, fmt.Errorf("%w: path must "+
				"start with %q", ErrPathSyntax, masterMarker)
		}

		return DerivationPath{}, nil
	}

	segments := strings.Split(text, "/")

	first := segments[0]
	hasMarker := strings.EqualFold(first, masterMarker)
	switch {
	case hasMarker && rule == markerForbidden:
		return DerivationPath{}, fmt.Errorf("%w: relative path %q must "+
			"not start with %q", ErrPathSyntax, text, masterMarker)

	case !hasMarker && rule == markerRequired:
		return DerivationPath{}, fmt.Errorf("%w: path %q must start "+
			"with %q", ErrPathSyntax, text, masterMarker)

	// Anything that starts with the marker letter but isn't exactly the
	// marker, such as "mx" or "m'", is a malformed marker rather than an
	// index.
	case !hasMarker && len(first) > 0 &&
		(first[0] == 'm' || first[0] == 'M'):

		return DerivationPath{}, fmt.Errorf("%w: malformed master "+
			"marker %q", ErrPathSyntax, first)
	}

	if hasMarker {
		segments = segments[1:]
	}

	indices := make([]ChildIndex, 0, len(segments))
	for _, segment := range segments {
		idx, err := parseSegment(segment)
		if err != nil {
			return DerivationPath{}, fmt.Errorf("path %q: %w", text,
				err)
		}

		indices = append(indices, idx)
	}

	return NewDerivationPath(indices...), nil
}

// parseSegment parses a single "/" separated element of a path.
func parseSegment(segment string) (ChildIndex, error) {
	if segment == "" {
		return ChildIndex{}, fmt.Errorf("%w: empty segment",
			ErrPathSyntax)
	}

	hardened := false
	switch segment[len(segment)-1] {
	case '\'', 'h', 'H':
		hardened = true
		segment = segment[:len(segment)-1]
	}

	if segment == "*" {
		return ChildIndex{}, fmt.Errorf("%w: wildcard must be the "+
			"last element of a descriptor", ErrPathSyntax)
	}

	if segment == "" {
		return ChildIndex{}, fmt.Errorf("%w: hardened marker without "+
			"index", ErrPathSyntax)
	}

	// ParseUint accepts a leading '+', we don't.
	for _, r := range segment {
		if r < '0' || r > '9' {
			return ChildIndex{}, fmt.Errorf("%w: segment %q is not "+
				"a non-negative integer", ErrPathSyntax, segment)
		}
	}

	number, err := strconv.ParseUint(segment, 10, 32)
	if err != nil || number > uint64(MaxChildNumber) {
		return ChildIndex{}, fmt.Errorf("%w: segment %q: %w",
			ErrPathSyntax, segment, ErrIndexOutOfRange)
	}

	return ChildIndex{number: uint32(number), hardened: hardened}, nil
}
