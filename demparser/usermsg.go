// This file decodes DoD's dynamically-registered user messages: those
// registered at runtime via svc_NewUserMsg (engine opcode 42) and
// identified by opcode >= 64 thereafter. Unlike the fixed engine table,
// the set of ids in use and their meaning is negotiated per-session; we
// match by the registered NAME, not by id, since id assignment is
// server-config dependent.

package demparser

import (
	"github.com/dodanalysis/dodrep/dem/demcore"
	"github.com/dodanalysis/dodrep/dem/demevt"
)

// userMsgHandler decodes one user message's body, already isolated to
// exactly its declared length (fixed, or length-prefixed if variable).
type userMsgHandler func(sr *sliceReader, ctx *decodeContext)

// userMsgHandlers maps a registered message name to its decoder. Names not
// present here are consumed (their bytes skipped) but otherwise ignored:
// DoD POV demos register many HUD/ambience messages the reconstructor has
// no use for (Damage, Feign, VGUIMenu, ...).
var userMsgHandlers = map[string]userMsgHandler{
	"ScoreShort": decodeScoreShort,
	"ObjScore":   decodeObjScore,
	"DeathMsg":   decodeDeathMsg,
	"PClass":     decodePClass,
	"PTeam":      decodePTeam,
	"Clan":       decodeClan,
	"RoundState": decodeRoundState,
	"CurMarker":  decodeCurMarker,
	"TimeLeft":   decodeTimeLeft,
	"HudText":    decodeHudText,
	"Frags":      decodeFrags,
}

// decodeUserMessage reads one user message's body, given its opcode byte
// (already consumed by the caller). The schema must have been registered
// earlier in the stream via svc_NewUserMsg; an unregistered id is fatal,
// since its length can't be known.
func decodeUserMessage(sr *sliceReader, ctx *decodeContext, opcode byte) {
	schema, ok := ctx.userMsgs[opcode]
	if !ok {
		panic(&UnknownUserMessageError{ID: opcode})
	}

	var body []byte
	if schema.Size < 0 {
		body = sr.lengthPrefixedBlob(1)
	} else {
		body = sr.readSlice(uint32(schema.Size))
	}

	handler, ok := userMsgHandlers[schema.Name]
	if !ok {
		return
	}
	handler(newSliceReader(body), ctx)
}

// decodeScoreShort decodes: slot, score (short), kills (short), deaths
// (short), class index (short).
func decodeScoreShort(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	score := sr.i16le()
	kills := sr.i16le()
	deaths := sr.i16le()
	class := sr.i16le()

	ctx.scoreShortSeenThisFrame[slot] = true
	ctx.emit(&demevt.ScoreUpdated{
		Base:       demevt.Base{Time: float64(ctx.frameTime)},
		Slot:       slot,
		Score:      score,
		Kills:      kills,
		Deaths:     deaths,
		ClassIndex: class,
	})
}

// decodeObjScore decodes: allies score (short), axis score (short).
func decodeObjScore(sr *sliceReader, ctx *decodeContext) {
	allies := sr.i16le()
	axis := sr.i16le()
	ctx.emit(&demevt.TeamScoreUpdated{
		Base:   demevt.Base{Time: float64(ctx.frameTime)},
		Allies: int(allies),
		Axis:   int(axis),
	})
}

// decodeDeathMsg decodes: killer slot, victim slot, weapon index, weapon
// name (cstring).
func decodeDeathMsg(sr *sliceReader, ctx *decodeContext) {
	killer := sr.u8()
	victim := sr.u8()
	weaponIdx := sr.u8()

	var weaponName string
	if sr.remaining() > 0 {
		weaponName = sr.cstring(64)
	}

	ctx.emit(&demevt.Death{
		Base:        demevt.Base{Time: float64(ctx.frameTime)},
		KillerSlot:  killer,
		VictimSlot:  victim,
		WeaponIndex: weaponIdx,
		WeaponName:  canonicalWeaponName(ctx, weaponIdx, weaponName),
	})
}

// decodePClass decodes: slot, class index.
func decodePClass(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	class := sr.u8()
	ctx.emit(&demevt.ClassChanged{
		Base:       demevt.Base{Time: float64(ctx.frameTime)},
		Slot:       slot,
		ClassIndex: class,
	})
}

// decodePTeam decodes: slot, team index.
func decodePTeam(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	teamID := sr.u8()
	ctx.emit(&demevt.TeamChanged{
		Base: demevt.Base{Time: float64(ctx.frameTime)},
		Slot: slot,
		Team: demcore.TeamByID(teamID),
	})
}

// decodeClan decodes: slot, clan tag (cstring).
func decodeClan(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	var tag string
	if sr.remaining() > 0 {
		tag = decodeDisplayString(sr.cstring(32))
	}
	ctx.emit(&demevt.ClanTagSet{
		Base: demevt.Base{Time: float64(ctx.frameTime)},
		Slot: slot,
		Tag:  tag,
	})
}

// decodeRoundState, decodeCurMarker, decodeTimeLeft, and decodeHudText
// carry round-timer and objective-marker information the match report
// doesn't surface. Each reads its leading field when the body is long
// enough to hold it and otherwise ignores the body; none of them emits an
// event.
func decodeRoundState(sr *sliceReader, ctx *decodeContext) {
	if sr.remaining() > 0 {
		sr.u8()
	}
}

func decodeCurMarker(sr *sliceReader, ctx *decodeContext) {
	if sr.remaining() > 0 {
		sr.cstring(32)
	}
}

func decodeTimeLeft(sr *sliceReader, ctx *decodeContext) {
	if sr.remaining() >= 4 {
		sr.i32le()
	}
}

func decodeHudText(sr *sliceReader, ctx *decodeContext) {
	if sr.remaining() > 0 {
		sr.cstring(cstringMax)
	}
}

// decodeFrags decodes: slot, kill count (short). ScoreShort is
// authoritative over Frags for the same slot within a frame: if a
// ScoreShort for this slot was already decoded this frame, the Frags value
// is dropped rather than emitted, so the reconstructor never has to
// reconcile the two.
func decodeFrags(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	kills := sr.i16le()
	if ctx.scoreShortSeenThisFrame[slot] {
		return
	}
	ctx.emit(&demevt.FragsReported{
		Base:  demevt.Base{Time: float64(ctx.frameTime)},
		Slot:  slot,
		Kills: kills,
	})
}
