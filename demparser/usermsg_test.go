package demparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dodanalysis/dodrep/dem/demevt"
)

func registerUserMsg(ctx *decodeContext, id byte, name string, size int8) {
	ctx.userMsgs[id] = userMsgSchema{Name: name, Size: size}
}

func TestDecodeScoreShortEmitsEvent(t *testing.T) {
	ctx := newDecodeContext()
	registerUserMsg(ctx, 100, "ScoreShort", 9)

	var buf []byte
	buf = append(buf, 100)                    // opcode
	buf = append(buf, 3)                       // slot
	buf = append(buf, i16leBytes(15)...)       // score
	buf = append(buf, i16leBytes(5)...)        // kills
	buf = append(buf, i16leBytes(2)...)        // deaths
	buf = append(buf, i16leBytes(1)...)        // class

	decodeUserMessage(newSliceReader(buf[1:]), ctx, buf[0])

	require.Len(t, ctx.events, 1)
	evt, ok := ctx.events[0].(*demevt.ScoreUpdated)
	require.True(t, ok)
	assert.EqualValues(t, 3, evt.Slot)
	assert.EqualValues(t, 5, evt.Kills)

	assert.True(t, ctx.scoreShortSeenThisFrame[3])
}

func TestDecodeFragsDroppedWhenScoreShortSeen(t *testing.T) {
	ctx := newDecodeContext()
	ctx.scoreShortSeenThisFrame[7] = true
	registerUserMsg(ctx, 101, "Frags", 3)

	var buf []byte
	buf = append(buf, 7)
	buf = append(buf, i16leBytes(9)...)

	decodeFrags(newSliceReader(buf), ctx)
	assert.Empty(t, ctx.events)
}

func TestDecodeFragsEmittedWhenNoScoreShortSeen(t *testing.T) {
	ctx := newDecodeContext()
	registerUserMsg(ctx, 101, "Frags", 3)

	var buf []byte
	buf = append(buf, 7)
	buf = append(buf, i16leBytes(9)...)

	decodeFrags(newSliceReader(buf), ctx)
	require.Len(t, ctx.events, 1)
	evt := ctx.events[0].(*demevt.FragsReported)
	assert.EqualValues(t, 9, evt.Kills)
}

func TestDecodeUserMessageUnregisteredPanics(t *testing.T) {
	ctx := newDecodeContext()
	assert.Panics(t, func() {
		decodeUserMessage(newSliceReader([]byte{}), ctx, 200)
	})
}

func i16leBytes(v int16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
