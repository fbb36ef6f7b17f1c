package demdecoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildHeader constructs a synthetic 544-byte demo header whose directory
// offset field points just past the header, and returns it. No directory
// bytes are written; callers append their own.
func buildHeader(t *testing.T, demoProtocol, networkProtocol uint32, mapName, gameDir string) []byte {
	t.Helper()

	buf := make([]byte, headerSize)
	copy(buf[0:8], Magic[:])
	binary.LittleEndian.PutUint32(buf[8:], demoProtocol)
	binary.LittleEndian.PutUint32(buf[12:], networkProtocol)
	copy(buf[16:], mapName)
	copy(buf[276:], gameDir)
	binary.LittleEndian.PutUint32(buf[536:], 0xdeadbeef)

	dirOffset := uint32(len(buf))
	binary.LittleEndian.PutUint32(buf[540:], dirOffset)

	return buf
}

func TestDecodeHeader(t *testing.T) {
	buf := buildHeader(t, 5, 48, "dod_caen", "dod")

	h, err := DecodeHeader(buf)
	require.NoError(t, err)
	assert.EqualValues(t, 5, h.DemoProtocol)
	assert.EqualValues(t, 48, h.NetworkProtocol)
	assert.Equal(t, "dod_caen", h.MapName)
	assert.Equal(t, "dod", h.GameDir)
	assert.EqualValues(t, 0xdeadbeef, h.MapChecksum)
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	buf := buildHeader(t, 5, 48, "dod_caen", "dod")
	buf[0] = 'X'

	_, err := DecodeHeader(buf)
	var badMagic *BadMagicError
	assert.ErrorAs(t, err, &badMagic)
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, 10))
	var corrupt *CorruptDirectoryError
	assert.ErrorAs(t, err, &corrupt)
}

func appendDirectoryEntry(buf []byte, e DirectoryEntry) []byte {
	entry := make([]byte, directoryEntrySize)
	bo := binary.LittleEndian
	bo.PutUint32(entry[0:], uint32(e.Type))
	copy(entry[4:4+64], e.Description)
	bo.PutUint32(entry[68:], uint32(e.Flags))
	bo.PutUint32(entry[72:], uint32(e.CDTrack))
	bo.PutUint32(entry[76:], math.Float32bits(e.TrackTime))
	bo.PutUint32(entry[80:], uint32(e.FrameCount))
	bo.PutUint32(entry[84:], uint32(e.Offset))
	bo.PutUint32(entry[88:], uint32(e.FileLength))
	return append(buf, entry...)
}

func TestDecodeDirectory(t *testing.T) {
	data := buildHeader(t, 5, 48, "dod_caen", "dod")
	dirOffset := int64(len(data))

	dir := make([]byte, 4)
	binary.LittleEndian.PutUint32(dir, 1)
	dir = appendDirectoryEntry(dir, DirectoryEntry{
		Type:       0,
		Offset:     int32(dirOffset) + 4 + directoryEntrySize,
		FileLength: 16,
	})
	data = append(data, dir...)
	data = append(data, make([]byte, 16)...)

	entries, err := DecodeDirectory(data, dirOffset)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.EqualValues(t, 16, entries[0].FileLength)
}

func TestDecodeDirectoryEntryBeyondEOF(t *testing.T) {
	data := buildHeader(t, 5, 48, "dod_caen", "dod")
	dirOffset := int64(len(data))

	dir := make([]byte, 4)
	binary.LittleEndian.PutUint32(dir, 1)
	dir = appendDirectoryEntry(dir, DirectoryEntry{
		Type:       0,
		Offset:     1 << 20,
		FileLength: 16,
	})
	data = append(data, dir...)

	_, err := DecodeDirectory(data, dirOffset)
	var corrupt *CorruptDirectoryError
	assert.ErrorAs(t, err, &corrupt)
}

func TestFrameIterNetMsgFrame(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}

	var frames bytes.Buffer
	writeFrameHeader(&frames, 8, 1.5, 1)
	frames.Write(make([]byte, netMsgPreludeSize))
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(payload)))
	frames.Write(lenBuf)
	frames.Write(payload)

	writeFrameHeader(&frames, byte(FrameNextSection), 1.6, 2)

	entry := DirectoryEntry{Offset: 0, FileLength: int32(frames.Len())}
	it := NewFrameIter(frames.Bytes(), entry)

	f, err := it.Next()
	require.NoError(t, err)
	assert.True(t, f.Type.IsNetMsg())
	assert.Equal(t, payload, f.NetMsgPayload)

	_, err = it.Next()
	assert.ErrorIs(t, err, ErrNoMoreFrames)
}

func writeFrameHeader(buf *bytes.Buffer, frameType byte, timeVal float32, frameNumber uint32) {
	buf.WriteByte(frameType)
	tb := make([]byte, 4)
	binary.LittleEndian.PutUint32(tb, math.Float32bits(timeVal))
	buf.Write(tb)
	fb := make([]byte, 4)
	binary.LittleEndian.PutUint32(fb, frameNumber)
	buf.Write(fb)
}
