// This file contains the decoder's error taxonomy. Every error is fatal for
// the demo being parsed: the decoder never returns a partial MatchReport.
//
// Container-level errors (BadMagic, UnsupportedProtocol, CorruptDirectory,
// CorruptFrame) are defined in demdecoder and aliased here so callers only
// need to import this package to use errors.As against any of them.

package demparser

import (
	"errors"
	"fmt"

	"github.com/dodanalysis/dodrep/demparser/demdecoder"
)

// ErrParsing indicates that an unexpected error (most likely a panic
// recovered from malformed input, or an implementation bug) occurred while
// parsing.
var ErrParsing = errors.New("parsing")

// IoError wraps a filesystem failure encountered while reading a demo.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("dodrep: io error reading %q: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }

// Container-level error aliases, see demdecoder.
type (
	BadMagicError            = demdecoder.BadMagicError
	UnsupportedProtocolError = demdecoder.UnsupportedProtocolError
	CorruptDirectoryError    = demdecoder.CorruptDirectoryError
	CorruptFrameError        = demdecoder.CorruptFrameError
)

// UnknownEngineOpcodeError indicates an engine opcode the decoder has no
// schema for, so it cannot know the message's length and must abort.
type UnknownEngineOpcodeError struct {
	Opcode      byte
	FrameOffset int64
}

func (e *UnknownEngineOpcodeError) Error() string {
	return fmt.Sprintf("dodrep: unknown engine opcode %d at frame offset %d", e.Opcode, e.FrameOffset)
}

// UnknownUserMessageError indicates a svc_UserMsg id was used before being
// registered via svc_NewUserMsg.
type UnknownUserMessageError struct {
	ID byte
}

func (e *UnknownUserMessageError) Error() string {
	return fmt.Sprintf("dodrep: unknown user message id %d", e.ID)
}

// UnexpectedEndError indicates the underlying buffer was exhausted mid-read.
type UnexpectedEndError struct {
	Context string
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("dodrep: unexpected end of buffer: %s", e.Context)
}

// InvalidEncodingError indicates a malformed string or bit-packed field.
type InvalidEncodingError struct {
	Context string
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("dodrep: invalid encoding: %s", e.Context)
}
