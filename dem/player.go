// This file contains the types describing players and their weapon tallies.

package dem

import "github.com/dodanalysis/dodrep/dem/demcore"

// PlayerSlot is the small integer index the engine assigns to a connected
// client. It is stable within a demo and is freed when the engine reports a
// disconnect.
type PlayerSlot int

// Player represents a participant seen in the demo.
type Player struct {
	// Slot is the engine-assigned slot index. Stable key for all per-player
	// state within a single demo.
	Slot PlayerSlot

	// PersistentID is the engine-provided user ID from svc_UpdateUserInfo,
	// as a decimal string, preferred over Slot for cross-frame identity
	// display.
	PersistentID string

	// DisplayName may change over the course of a demo (renames).
	DisplayName string

	// ClanTag is the most recently seen clan tag for this player, set by the
	// Clan user message. Empty if the player never had one.
	ClanTag string

	// Team the player currently belongs to.
	Team *demcore.Team

	// Class is nil for Spectator/Unassigned players.
	Class *demcore.Class

	// Kills and Deaths are counted up from Death events; Score, Kills and
	// Deaths are overwritten with the engine's own values whenever a
	// ScoreShort (or, for Kills, a Frags) message reports them.
	Score  int
	Kills  int
	Deaths int

	// firstSeenOrder records the order players were first observed in, used
	// as the final, stable tie-break when sorting the scoreboard.
	firstSeenOrder int

	// disconnected marks a player removed by an explicit disconnect event.
	// Disconnected players are not removed from the final report: they are
	// retained as "surviving disconnect" copies per the data model.
	disconnected bool
}

// NewPlayer constructs a Player from reconstructed per-slot state. It
// exists so demparser's reconstructor, which owns the mutable accumulation
// during decode, can hand off an immutable Player without dem exposing its
// bookkeeping fields (firstSeenOrder, disconnected) as part of the public
// API surface.
func NewPlayer(slot PlayerSlot, persistentID, displayName, clanTag string, team *demcore.Team, class *demcore.Class, score, kills, deaths, firstSeenOrder int, disconnected bool) *Player {
	return &Player{
		Slot:           slot,
		PersistentID:   persistentID,
		DisplayName:    displayName,
		ClanTag:        clanTag,
		Team:           team,
		Class:          class,
		Score:          score,
		Kills:          kills,
		Deaths:         deaths,
		firstSeenOrder: firstSeenOrder,
		disconnected:   disconnected,
	}
}

// WeaponTally maps a canonical weapon name to the number of kills scored
// with it.
type WeaponTally map[string]int

// Total returns the sum of all tallied kills.
func (wt WeaponTally) Total() int {
	total := 0
	for _, n := range wt {
		total += n
	}
	return total
}
