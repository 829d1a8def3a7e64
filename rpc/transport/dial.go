package transport

import "fmt"

// Dial establishes a Connection to the given endpoint, choosing the concrete
// transport from the address variant.
func Dial(addr Address) (Connection, error) {
	switch addr.Kind {
	case AddrNet:
		return dialTCP(addr.Net)
	case AddrUnix:
		return dialUnix(addr.Path)
	case AddrUnixAbstract:
		return dialAbstract(addr.Name)
	default:
		return nil, fmt.Errorf("cannot dial unknown address kind %d", addr.Kind)
	}
}

// Listen binds the given endpoint and returns an Acceptor for it, choosing
// the concrete transport from the address variant. The concrete bound
// endpoint (e.g. the assigned port after a wildcard bind) is available via
// Acceptor.Addr.
func Listen(addr Address) (Acceptor, error) {
	switch addr.Kind {
	case AddrNet:
		return listenTCP(addr.Net)
	case AddrUnix:
		return listenUnix(addr.Path)
	case AddrUnixAbstract:
		return listenAbstract(addr.Name)
	default:
		return nil, fmt.Errorf("cannot listen on unknown address kind %d", addr.Kind)
	}
}
