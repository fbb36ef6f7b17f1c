// This file contains the normalized, timestamped events the decoder emits
// in frame order for the match reconstructor to consume.

package demevt

import "github.com/dodanalysis/dodrep/dem/demcore"

// Event is the interface common to all normalized events.
type Event interface {
	// BaseEvent returns the base event.
	BaseEvent() *Base
}

// Base is the base of all events: the demo-clock time they occurred at.
type Base struct {
	// Time is the demo-clock time in seconds, non-decreasing across the
	// event stream. Events within a single frame share a Time value; their
	// relative order equals their decode order within that frame.
	Time float64
}

// BaseEvent implements Event.BaseEvent().
func (b *Base) BaseEvent() *Base {
	return b
}

// UserInfoUpdated is emitted when svc_UpdateUserInfo is decoded.
type UserInfoUpdated struct {
	Base

	Slot byte
	// ID is the engine user ID (distinct from Slot, stable across rejoins
	// within a demo far more often than Slot is not, but not relied upon
	// as the identity key: slot is the stable key for per-player state.
	ID uint32

	Name string
	Team string
	Model string
}

// ScoreUpdated is emitted when a ScoreShort user message is decoded.
type ScoreUpdated struct {
	Base

	Slot       byte
	Score      int16
	Kills      int16
	Deaths     int16
	ClassIndex int16
}

// TeamScoreUpdated is emitted when an ObjScore user message is decoded.
type TeamScoreUpdated struct {
	Base

	Allies int
	Axis   int
}

// Death is emitted for every DeathMsg, including self-suicides (killer ==
// victim or a world/fall weapon), which produce no kill credit.
type Death struct {
	Base

	KillerSlot  byte
	VictimSlot  byte
	WeaponIndex byte
	WeaponName  string // from the DeathMsg payload; may be empty
}

// ClassChanged is emitted when a PClass user message is decoded.
type ClassChanged struct {
	Base

	Slot       byte
	ClassIndex byte
}

// TeamChanged is emitted when a PTeam user message is decoded.
type TeamChanged struct {
	Base

	Slot byte
	Team *demcore.Team
}

// ClanTagSet is emitted when a Clan user message is decoded.
type ClanTagSet struct {
	Base

	Slot byte
	Tag  string
}

// FragsReported is emitted when a Frags user message is decoded, but only
// when no ScoreShort for the same slot was already seen in the same frame;
// ScoreShort is the more complete source and always wins.
type FragsReported struct {
	Base

	Slot  byte
	Kills int16
}

// PlayerDisconnected is emitted when the engine reports a client
// disconnect (observed via svc_UpdateUserInfo with an empty info string,
// the GoldSrc convention for a freed slot).
type PlayerDisconnected struct {
	Base

	Slot byte
}
