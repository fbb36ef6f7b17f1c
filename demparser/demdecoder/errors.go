// This file contains the error taxonomy for container-level (demo framing)
// decode failures: the file's outer structure rather than the protocol
// carried inside it.

package demdecoder

import "fmt"

// BadMagicError indicates the demo's magic bytes did not match "HLDEMO\0\0".
type BadMagicError struct {
	Got [8]byte
}

func (e *BadMagicError) Error() string {
	return fmt.Sprintf("demdecoder: bad magic: % x", e.Got[:])
}

// UnsupportedProtocolError indicates a demo_protocol/network_protocol pair
// outside the fully supported set.
type UnsupportedProtocolError struct {
	DemoProtocol    uint32
	NetworkProtocol uint32
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("demdecoder: unsupported protocol: demo=%d network=%d", e.DemoProtocol, e.NetworkProtocol)
}

// CorruptDirectoryError indicates the directory's entry count or an entry's
// offset/length is out of range of the file.
type CorruptDirectoryError struct {
	Reason string
}

func (e *CorruptDirectoryError) Error() string {
	return fmt.Sprintf("demdecoder: corrupt directory: %s", e.Reason)
}

// CorruptFrameError indicates a frame prelude or body could not be read.
type CorruptFrameError struct {
	Offset    int64
	FrameType byte
}

func (e *CorruptFrameError) Error() string {
	return fmt.Sprintf("demdecoder: corrupt frame at offset %d (type %d)", e.Offset, e.FrameType)
}
