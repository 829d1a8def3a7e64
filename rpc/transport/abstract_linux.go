//go:build linux

package transport

import "net"

// The net package addresses the abstract namespace with a leading '@' that
// is translated to the NUL byte expected by the kernel.

// dialAbstract connects to an abstract-namespace unix domain socket
func dialAbstract(name []byte) (Connection, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Net: "unix", Name: "@" + string(name)})
	if err != nil {
		return nil, err
	}
	return &unixConn{conn}, nil
}

// listenAbstract binds an abstract-namespace unix domain socket. Abstract
// names have no filesystem presence, so no stale socket file cleanup is
// needed.
func listenAbstract(name []byte) (Acceptor, error) {
	listener, err := net.ListenUnix("unix", &net.UnixAddr{Net: "unix", Name: "@" + string(name)})
	if err != nil {
		return nil, err
	}
	return &unixAcceptor{listener: listener, addr: unixListenerAddress(listener)}, nil
}
