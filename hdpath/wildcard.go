package hdpath

import (
	"fmt"
	"strings"
)

// Wildcard marks that the last element of a descriptor key's path is a range
// placeholder rather than a fixed index. It only matters when a key is
// rendered as or parsed from descriptor text; derivation never consumes it.
type Wildcard uint8

const (
	// WildcardNone means the descriptor key is not ranged.
	WildcardNone Wildcard = iota

	// WildcardUnhardened is rendered as "/*".
	WildcardUnhardened

	// WildcardHardened is rendered as "/*'".
	WildcardHardened
)

// String returns a human readable name for the wildcard.
func (w Wildcard) String() string {
	switch w {
	case WildcardNone:
		return "none"
	case WildcardUnhardened:
		return "unhardened"
	case WildcardHardened:
		return "hardened"
	default:
		return "unknown"
	}
}

// Marker returns the text appended to a descriptor key for this wildcard.
func (w Wildcard) Marker() string {
	switch w {
	case WildcardUnhardened:
		return "/*"
	case WildcardHardened:
		return "/*" + hardenedMarker
	default:
		return ""
	}
}

// ParseWildcardName maps the names produced by String back to a Wildcard.
func ParseWildcardName(name string) (Wildcard, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return WildcardNone, nil
	case "unhardened", "*":
		return WildcardUnhardened, nil
	case "hardened", "*'", "*h":
		return WildcardHardened, nil
	default:
		return WildcardNone, fmt.Errorf("unknown wildcard %q", name)
	}
}

// StripWildcard removes a trailing wildcard element from text and reports
// which kind it was. A text consisting of only a wildcard element is
// accepted as well.
func StripWildcard(text string) (string, Wildcard) {
	text = strings.TrimSpace(text)

	last := text
	rest := ""
	if i := strings.LastIndex(text, "/"); i >= 0 {
		last = text[i+1:]
		rest = text[:i]
	}

	switch last {
	case "*":
		return rest, WildcardUnhardened

	case "*'", "*h", "*H":
		return rest, WildcardHardened
	}

	return text, WildcardNone
}

// ParseWithWildcard strips an optional trailing wildcard from text and
// parses the remainder with Parse.
func ParseWithWildcard(text string) (DerivationPath, Wildcard, error) {
	rest, wildcard := StripWildcard(text)

	path, err := Parse(rest)
	if err != nil {
		return DerivationPath{}, WildcardNone, err
	}

	return path, wildcard, nil
}
