// This file contains decodeContext, the mutable state threaded through a
// single demo's engine-message decode pass: the user-message registry,
// session constants learned from svc_ServerInfo, and the event sink.

package demparser

import (
	"github.com/dodanalysis/dodrep/dem/demevt"
	"github.com/dodanalysis/dodrep/dodlog"
)

// userMsgSchema describes a registered user message's decoding shape.
type userMsgSchema struct {
	Name string
	// Size is the fixed body size in bytes, or -1 if the body is
	// variable-length (prefixed by a single length byte).
	Size int8
}

// decodeContext is owned by a single demo parse; it is never shared across
// goroutines (each ParseAll worker constructs its own).
type decodeContext struct {
	userMsgs map[byte]userMsgSchema

	frameTime   float32
	frameOffset int64

	mapName    string
	maxClients byte

	// scoreShortSeenThisFrame tracks, within the current frame, which slots
	// have already had a ScoreShort applied, so a same-frame Frags for the
	// same slot can be dropped in favor of it.
	scoreShortSeenThisFrame map[byte]bool

	events []demevt.Event

	// diagnostics collects non-fatal decode notes (e.g. a DeathMsg that
	// fell back to the weapon_index table). Always populated; the caller
	// only copies it onto the report when Config.KeepRawEvents is set.
	diagnostics []string

	log dodlog.Logger
}

func newDecodeContext() *decodeContext {
	return &decodeContext{
		userMsgs:                make(map[byte]userMsgSchema),
		scoreShortSeenThisFrame: make(map[byte]bool),
		log:                     dodlog.GetLogger(),
	}
}

func (c *decodeContext) emit(e demevt.Event) {
	c.events = append(c.events, e)
}

// diagnose records a non-fatal decode note and logs it at Warn, for
// conditions the decoder recovered from by falling back to a heuristic.
func (c *decodeContext) diagnose(msg string, fields ...dodlog.Field) {
	c.diagnostics = append(c.diagnostics, msg)
	c.log.Warn(msg, fields...)
}

// beginFrame resets the per-frame bookkeeping; called once per NETMSG frame
// before its engine messages are decoded.
func (c *decodeContext) beginFrame(time float32, offset int64) {
	c.frameTime = time
	c.frameOffset = offset
	c.log.Debug("decoding frame", dodlog.F("time", time), dodlog.F("offset", offset))
	for k := range c.scoreShortSeenThisFrame {
		delete(c.scoreShortSeenThisFrame, k)
	}
}
