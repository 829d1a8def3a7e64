// Package transport implements the socket layer of the build cache: it
// abstracts over the kind of socket connecting a client to the cache server
// so that the request/response logic above it is transport-agnostic.
//
// The package focuses on:
//   - A closed Address variant type naming any supported endpoint (ip:port,
//     unix socket path, abstract unix socket name) with a total textual
//     parse/format round trip
//   - The Connection capability: a duplex byte stream whose OS handle can be
//     cloned, so one logical connection can be written and read through two
//     independent handles
//   - The Acceptor capability: a bound listening endpoint yielding inbound
//     Connections and reporting its concrete bound Address
//   - Length-delimited wire framing (uvarint length prefix) with an upper
//     bound on the accepted frame size
//
// Key Components:
//
//   - Address / ParseAddress: Tagged variant for endpoint identity. Parsing
//     never fails; unrecognized input is treated as a filesystem path.
//
//   - Connection: Minimal duplex-stream-plus-clone interface. Implemented
//     for TCP and unix domain sockets (path-based everywhere unix sockets
//     exist, abstract namespace on Linux only).
//
//   - Acceptor: Listening-side counterpart, implemented per transport kind.
//     Dial and Listen dispatch on the Address variant.
//
//   - WriteFrame / ReadFrame: The framing convention shared by client and
//     server; every message is uvarint(length) followed by the payload.
package transport
