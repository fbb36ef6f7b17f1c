package demparser

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestDecodeEngineMessagesServerInfo(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(11) // svc_ServerInfo
	buf.Write(u32(48))
	buf.Write(u32(1))
	buf.WriteByte(32) // maxClients
	buf.WriteByte(3)  // player slot
	buf.WriteString("dod\x00")
	buf.WriteString("dod_caen\x00")
	buf.WriteString("a test server\x00")

	ctx := newDecodeContext()
	decodeEngineMessages(newSliceReader(buf.Bytes()), ctx)

	assert.Equal(t, "dod_caen", ctx.mapName)
	assert.EqualValues(t, 32, ctx.maxClients)
}

func TestDecodeEngineMessagesNewUserMsgRegisters(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(42) // svc_NewUserMsg
	buf.WriteByte(64) // id
	buf.WriteByte(6)  // fixed size
	name := make([]byte, 16)
	copy(name, "ScoreShort")
	buf.Write(name)

	ctx := newDecodeContext()
	decodeEngineMessages(newSliceReader(buf.Bytes()), ctx)

	schema, ok := ctx.userMsgs[64]
	require.True(t, ok)
	assert.Equal(t, "ScoreShort", schema.Name)
	assert.EqualValues(t, 6, schema.Size)
}

func TestDecodeEngineMessagesUnknownOpcodePanics(t *testing.T) {
	ctx := newDecodeContext()
	assert.Panics(t, func() {
		decodeEngineMessages(newSliceReader([]byte{0}), ctx)
	})
}

func TestDecodeEngineMessagesSimpleFixedWidth(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(7) // svc_Time
	buf.Write(u32(0x3f800000))
	buf.WriteByte(24) // svc_SetPause
	buf.WriteByte(1)

	ctx := newDecodeContext()
	assert.NotPanics(t, func() {
		decodeEngineMessages(newSliceReader(buf.Bytes()), ctx)
	})
}

func TestSkipPacketEntitiesSentinel(t *testing.T) {
	// entity index 0 (11 bits) terminates immediately.
	sr := newSliceReader([]byte{0x00, 0x00})
	assert.NotPanics(t, func() {
		skipPacketEntities(sr)
	})
}
