//go:build !unix

package transport

import "fmt"

func dialUnix(path string) (Connection, error) {
	return nil, fmt.Errorf("unix domain sockets are not supported on this platform")
}

func listenUnix(path string) (Acceptor, error) {
	return nil, fmt.Errorf("unix domain sockets are not supported on this platform")
}
