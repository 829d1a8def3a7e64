//go:build !linux

package transport

import "fmt"

func dialAbstract(name []byte) (Connection, error) {
	return nil, fmt.Errorf("abstract unix domain sockets are not supported on this platform")
}

func listenAbstract(name []byte) (Acceptor, error) {
	return nil, fmt.Errorf("abstract unix domain sockets are not supported on this platform")
}
