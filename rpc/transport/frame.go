package transport

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the largest message payload accepted on the wire. A length
// prefix above this bound is rejected before any buffer is allocated, so a
// corrupted or malicious peer cannot force unbounded allocations.
const MaxFrameSize = 256 << 20 // 256 MB

// ErrFrameTooLarge is returned when a frame length exceeds MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame length exceeds maximum frame size")

// WriteFrame writes a single length-delimited frame to the connection:
// - uvarint: payload length in bytes
// - N bytes: payload
// The writer is flushed before returning, so a successful WriteFrame means
// the full frame was handed to the transport.
func WriteFrame(w *bufio.Writer, payload []byte) error {
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}

	var header [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(header[:], uint64(len(payload)))

	if _, err := w.Write(header[:n]); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	return w.Flush()
}

// ReadFrame reads a single length-delimited frame from the connection. A
// stream that ends inside the length prefix or the payload yields an I/O
// error (io.ErrUnexpectedEOF for a truncated payload). A clean EOF before
// any byte of the frame is returned as io.EOF.
func ReadFrame(r *bufio.Reader) ([]byte, error) {
	length, err := binary.ReadUvarint(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read frame length: %w", err)
	}

	// Reject before allocating
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}
	return payload, nil
}
