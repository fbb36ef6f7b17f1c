/*
Package demdecoder implements decoding the GoldSrc demo (*.dem) container
format: the fixed header, the frame directory, and the frame-by-frame walk
within a directory entry's byte range.

It knows nothing about the Half-Life network-message protocol carried
inside NETMSG frame bodies, or about Day of Defeat user messages; those are
layered on top by the demparser package, keeping container framing
separate from protocol-aware section parsing.

Information sources:

The publicly documented HLDEMO format used by existing open-source replay
tools (e.g. the demoinfo / hl-demo-parsing community write-ups of the
header, directory entry and frame layouts).
*/
package demdecoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// Magic is the fixed 8-byte signature every valid demo begins with.
var Magic = [8]byte{'H', 'L', 'D', 'E', 'M', 'O', 0, 0}

const (
	headerSize       = 544
	directoryEntrySize = 92
	frameHeaderSize  = 9
	netMsgPreludeSize = 468
)

// FrameType identifies the kind of a single demo frame.
type FrameType byte

// Possible frame types.
const (
	FrameDemoStart       FrameType = 0
	FrameConsoleCommand  FrameType = 1
	FrameClientData      FrameType = 2
	FrameNextSection     FrameType = 3
	FrameEvent           FrameType = 4
	FrameWeaponAnim      FrameType = 5
	FrameSound           FrameType = 6
	FrameDemoBuffer      FrameType = 7
	// Any raw type >= 8 is a NETMSG frame; see IsNetMsg.
)

// IsNetMsg reports whether the frame's raw type marks it as a NETMSG frame
// (raw type 8 or above).
func (t FrameType) IsNetMsg() bool {
	return t >= 8
}

// Header is the fixed 544-byte demo header.
type Header struct {
	DemoProtocol    uint32
	NetworkProtocol uint32
	MapName         string
	GameDir         string
	MapChecksum     uint32
}

// DirectoryEntry describes one segment of frames within the demo file.
type DirectoryEntry struct {
	Type        int32
	Description string
	Flags       int32
	CDTrack     int32
	TrackTime   float32
	FrameCount  int32
	Offset      int32
	FileLength  int32
}

// Frame is one decoded outer demo frame. Only the fields relevant to the
// frame's Type are populated; the rest are left at their zero value.
type Frame struct {
	Type        FrameType
	Time        float32
	FrameNumber uint32

	// Offset is the file offset of this frame's header, used for
	// CorruptFrameError reporting.
	Offset int64

	ConsoleCommand string    // Type == FrameConsoleCommand
	ClientData     []byte    // Type == FrameClientData (32 bytes)
	EventRecord    []byte    // Type == FrameEvent (84 bytes)
	WeaponAnimData []byte    // Type == FrameWeaponAnim (8 bytes)
	SoundData      []byte    // Type == FrameSound
	DemoBufferData []byte    // Type == FrameDemoBuffer
	NetMsgPrelude  []byte    // Type.IsNetMsg() (468 bytes)
	NetMsgPayload  []byte    // Type.IsNetMsg(): the engine-message bytes
}

// ErrNoMoreFrames is returned by FrameIter.Next when the entry's frames
// (or the whole file) have been exhausted.
var ErrNoMoreFrames = errors.New("demdecoder: no more frames")

// ReadAll reads the entire content of a demo file into memory. Demos are
// small (tens of MB at most); the whole file is read into a single buffer
// before parsing, consistent with the decoder's pure-function-from-bytes
// resource model.
func ReadAll(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeHeader parses the fixed 544-byte header at the start of data.
func DecodeHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < headerSize {
		return h, &CorruptDirectoryError{Reason: "file shorter than fixed header"}
	}

	var magic [8]byte
	copy(magic[:], data[0:8])
	if magic != Magic {
		return h, &BadMagicError{Got: magic}
	}

	bo := binary.LittleEndian
	h.DemoProtocol = bo.Uint32(data[8:])
	h.NetworkProtocol = bo.Uint32(data[12:])
	h.MapName = cString(data[16 : 16+260])
	h.GameDir = cString(data[276 : 276+260])
	h.MapChecksum = bo.Uint32(data[536:])

	return h, nil
}

// DirectoryOffset returns the file offset of the frame directory, stored as
// a uint32 at a fixed location near the end of the header (offset 540).
func DirectoryOffset(data []byte) (int64, error) {
	if len(data) < headerSize {
		return 0, &CorruptDirectoryError{Reason: "file shorter than fixed header"}
	}
	off := binary.LittleEndian.Uint32(data[540:])
	return int64(off), nil
}

// DecodeDirectory parses the entry_count-prefixed directory at the given
// file offset.
func DecodeDirectory(data []byte, offset int64) ([]DirectoryEntry, error) {
	if offset < 0 || offset+4 > int64(len(data)) {
		return nil, &CorruptDirectoryError{Reason: "directory offset out of range"}
	}

	bo := binary.LittleEndian
	count := bo.Uint32(data[offset:])
	if count > 1<<16 {
		return nil, &CorruptDirectoryError{Reason: "implausible entry count"}
	}

	pos := offset + 4
	entries := make([]DirectoryEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		if pos+directoryEntrySize > int64(len(data)) {
			return nil, &CorruptDirectoryError{Reason: "entry table runs past EOF"}
		}
		e := data[pos : pos+directoryEntrySize]
		entry := DirectoryEntry{
			Type:        int32(bo.Uint32(e[0:])),
			Description: cString(e[4 : 4+64]),
			Flags:       int32(bo.Uint32(e[68:])),
			CDTrack:     int32(bo.Uint32(e[72:])),
			TrackTime:   math32FromBits(bo.Uint32(e[76:])),
			FrameCount:  int32(bo.Uint32(e[80:])),
			Offset:      int32(bo.Uint32(e[84:])),
			FileLength:  int32(bo.Uint32(e[88:])),
		}
		if entry.Offset < 0 || int64(entry.Offset)+int64(entry.FileLength) > int64(len(data)) {
			return nil, &CorruptDirectoryError{Reason: fmt.Sprintf("entry %d declares a range beyond EOF", i)}
		}
		entries = append(entries, entry)
		pos += directoryEntrySize
	}

	return entries, nil
}

// FrameIter walks the frames of a single directory entry.
type FrameIter struct {
	data    []byte
	pos     int64
	end     int64
}

// NewFrameIter creates a FrameIter over the byte range of the given entry.
func NewFrameIter(data []byte, entry DirectoryEntry) *FrameIter {
	return &FrameIter{
		data: data,
		pos:  int64(entry.Offset),
		end:  int64(entry.Offset) + int64(entry.FileLength),
	}
}

// Next decodes and returns the next frame. It returns ErrNoMoreFrames (not
// an error a caller should treat as fatal) once the entry's declared range
// is exhausted or a NextSection frame is seen.
func (it *FrameIter) Next() (Frame, error) {
	if it.pos >= it.end || it.pos+frameHeaderSize > int64(len(it.data)) {
		return Frame{}, ErrNoMoreFrames
	}

	start := it.pos
	raw := it.data[it.pos:]
	bo := binary.LittleEndian

	f := Frame{
		Type:        FrameType(raw[0]),
		Time:        math32FromBits(bo.Uint32(raw[1:])),
		FrameNumber: bo.Uint32(raw[5:]),
		Offset:      start,
	}
	it.pos += frameHeaderSize

	switch {
	case f.Type == FrameDemoStart:
		// Empty body.

	case f.Type == FrameConsoleCommand:
		blob, err := it.readLengthPrefixedBlob(4)
		if err != nil {
			return Frame{}, err
		}
		f.ConsoleCommand = cString(blob)

	case f.Type == FrameClientData:
		b, err := it.readFixed(32)
		if err != nil {
			return Frame{}, err
		}
		f.ClientData = b

	case f.Type == FrameNextSection:
		return f, ErrNoMoreFrames

	case f.Type == FrameEvent:
		b, err := it.readFixed(84)
		if err != nil {
			return Frame{}, err
		}
		f.EventRecord = b

	case f.Type == FrameWeaponAnim:
		b, err := it.readFixed(8)
		if err != nil {
			return Frame{}, err
		}
		f.WeaponAnimData = b

	case f.Type == FrameSound:
		b, err := it.readSoundBody()
		if err != nil {
			return Frame{}, err
		}
		f.SoundData = b

	case f.Type == FrameDemoBuffer:
		blob, err := it.readLengthPrefixedBlob(4)
		if err != nil {
			return Frame{}, err
		}
		f.DemoBufferData = blob

	case f.Type.IsNetMsg():
		prelude, err := it.readFixed(netMsgPreludeSize)
		if err != nil {
			return Frame{}, err
		}
		payload, err := it.readLengthPrefixedBlob(4)
		if err != nil {
			return Frame{}, err
		}
		f.NetMsgPrelude = prelude
		f.NetMsgPayload = payload

	default:
		return Frame{}, &CorruptFrameError{Offset: start, FrameType: byte(f.Type)}
	}

	return f, nil
}

func (it *FrameIter) readFixed(n int64) ([]byte, error) {
	if it.pos+n > int64(len(it.data)) {
		return nil, &CorruptFrameError{Offset: it.pos, FrameType: 0}
	}
	b := it.data[it.pos : it.pos+n]
	it.pos += n
	return b, nil
}

func (it *FrameIter) readLengthPrefixedBlob(prefixWidth int64) ([]byte, error) {
	if it.pos+prefixWidth > int64(len(it.data)) {
		return nil, &CorruptFrameError{Offset: it.pos, FrameType: 0}
	}
	var n int64
	switch prefixWidth {
	case 4:
		n = int64(binary.LittleEndian.Uint32(it.data[it.pos:]))
	default:
		return nil, &CorruptFrameError{Offset: it.pos, FrameType: 0}
	}
	it.pos += prefixWidth
	if n < 0 || it.pos+n > int64(len(it.data)) {
		return nil, &CorruptFrameError{Offset: it.pos, FrameType: 0}
	}
	b := it.data[it.pos : it.pos+n]
	it.pos += n
	return b, nil
}

// readSoundBody consumes a Sound frame's variable body: a flags byte
// selecting which of volume/attenuation/pitch follow, a channel byte, then
// a NUL-terminated sample path.
func (it *FrameIter) readSoundBody() ([]byte, error) {
	start := it.pos
	if it.pos+2 > int64(len(it.data)) {
		return nil, &CorruptFrameError{Offset: start, FrameType: byte(FrameSound)}
	}
	flags := it.data[it.pos]
	it.pos++ // flags
	it.pos++ // channel

	need := int64(0)
	if flags&0x01 != 0 {
		need++ // volume
	}
	if flags&0x02 != 0 {
		need++ // attenuation
	}
	if flags&0x04 != 0 {
		need++ // pitch
	}
	if it.pos+need > int64(len(it.data)) {
		return nil, &CorruptFrameError{Offset: start, FrameType: byte(FrameSound)}
	}
	it.pos += need

	for it.pos < int64(len(it.data)) {
		b := it.data[it.pos]
		it.pos++
		if b == 0 {
			return it.data[start:it.pos], nil
		}
	}
	return nil, &CorruptFrameError{Offset: start, FrameType: byte(FrameSound)}
}

// cString returns the NUL-terminated prefix of data as a string, or the
// whole slice if no NUL byte is present.
func cString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

func math32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}
