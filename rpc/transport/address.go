package transport

import (
	"bytes"
	"fmt"
	"net/netip"
	"strings"
)

// --------------------------------------------------------------------------
// Address Variant Type
// --------------------------------------------------------------------------

// AddrKind discriminates the supported endpoint variants.
type AddrKind uint8

const (
	// AddrNet is an IP address plus port, served over TCP
	AddrNet AddrKind = iota
	// AddrUnix is a unix domain socket identified by a filesystem path
	AddrUnix
	// AddrUnixAbstract is a unix domain socket in the abstract namespace,
	// identified by an arbitrary byte sequence (Linux only)
	AddrUnixAbstract
)

// abstractMarker is the leading byte selecting the abstract namespace in the
// textual address form.
const abstractMarker = '\x00'

// escapedMarker is the escaped spelling of abstractMarker. Command lines and
// environment values cannot carry a NUL byte, so ParseAddress accepts this
// form as well.
const escapedMarker = `\x00`

// Address identifies a transport endpoint. It is a closed variant type: the
// Kind field selects which of the payload fields is valid. Address values
// round-trip through their textual form via ParseAddress and String.
type Address struct {
	Kind AddrKind
	Net  netip.AddrPort // valid for AddrNet
	Path string         // valid for AddrUnix
	Name []byte         // valid for AddrUnixAbstract
}

// NetAddress creates a network Address.
func NetAddress(ap netip.AddrPort) Address {
	return Address{Kind: AddrNet, Net: ap}
}

// UnixAddress creates a path-based unix domain socket Address.
func UnixAddress(path string) Address {
	return Address{Kind: AddrUnix, Path: path}
}

// AbstractAddress creates an abstract-namespace unix domain socket Address.
func AbstractAddress(name []byte) Address {
	return Address{Kind: AddrUnixAbstract, Name: name}
}

// ParseAddress parses a string into an Address.
//
// The string should follow the format of Address.String(). The abstract
// namespace marker is additionally accepted in its escaped spelling \x00,
// since argv and environment values cannot contain a NUL byte. Parsing is
// total: input that is neither an abstract name nor a valid ip:port pair is
// treated as a filesystem path, so malformed input never fails (a colon may
// appear in a legal path on some platforms).
func ParseAddress(s string) Address {
	// Parse abstract socket addresses first as their names can contain any bytes
	if strings.HasPrefix(s, string(rune(abstractMarker))) {
		return AbstractAddress(unescapeASCII(s[1:]))
	}
	if strings.HasPrefix(s, escapedMarker) {
		return AbstractAddress(unescapeASCII(s[len(escapedMarker):]))
	}
	// Usually a colon won't appear in a unix path
	if strings.Contains(s, ":") {
		if ap, err := netip.ParseAddrPort(s); err == nil {
			return NetAddress(ap)
		}
	}
	return UnixAddress(s)
}

// String renders the Address in the textual form understood by ParseAddress.
// Abstract names are prefixed with the namespace marker byte and escaped so
// that non-printable bytes survive the round trip.
func (a Address) String() string {
	switch a.Kind {
	case AddrNet:
		return a.Net.String()
	case AddrUnix:
		return a.Path
	case AddrUnixAbstract:
		return string(rune(abstractMarker)) + escapeASCII(a.Name)
	default:
		return fmt.Sprintf("<invalid address kind %d>", a.Kind)
	}
}

// Equal reports whether two Addresses identify the same endpoint.
func (a Address) Equal(b Address) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AddrNet:
		return a.Net == b.Net
	case AddrUnix:
		return a.Path == b.Path
	case AddrUnixAbstract:
		return bytes.Equal(a.Name, b.Name)
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// ASCII escaping for abstract names
// --------------------------------------------------------------------------

// escapeASCII renders arbitrary bytes as printable ASCII. Printable bytes
// are copied verbatim, common control characters use short escapes and all
// other bytes become \xNN sequences.
func escapeASCII(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		switch {
		case b == '\t':
			sb.WriteString(`\t`)
		case b == '\r':
			sb.WriteString(`\r`)
		case b == '\n':
			sb.WriteString(`\n`)
		case b == '\\':
			sb.WriteString(`\\`)
		case b == '\'':
			sb.WriteString(`\'`)
		case b == '"':
			sb.WriteString(`\"`)
		case b >= 0x20 && b <= 0x7e:
			sb.WriteByte(b)
		default:
			sb.WriteString(fmt.Sprintf(`\x%02x`, b))
		}
	}
	return sb.String()
}

// unescapeASCII is the inverse of escapeASCII. It is total: malformed escape
// sequences are copied through byte-for-byte instead of failing.
func unescapeASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out = append(out, c)
			continue
		}
		i++
		switch s[i] {
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case 'n':
			out = append(out, '\n')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case 'x':
			if i+2 < len(s) {
				if hi, ok1 := unhex(s[i+1]); ok1 {
					if lo, ok2 := unhex(s[i+2]); ok2 {
						out = append(out, hi<<4|lo)
						i += 2
						continue
					}
				}
			}
			// malformed \x escape, keep it verbatim
			out = append(out, '\\', 'x')
		default:
			out = append(out, '\\', s[i])
		}
	}
	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
