// This file implements the match state machine: it consumes the
// normalized demevt.Event stream in order and produces a dem.MatchReport.
// It has no knowledge of demo framing or wire encoding, keeping wire
// decoding separate from match-level derived state.

package demparser

import (
	"strconv"

	"github.com/dodanalysis/dodrep/dem"
	"github.com/dodanalysis/dodrep/dem/demcore"
	"github.com/dodanalysis/dodrep/dem/demevt"
)

// playerState is the reconstructor's mutable per-slot accumulator; it is
// converted to a dem.Player only once, when building the final report.
type playerState struct {
	slot           byte
	persistentID   string
	displayName    string
	clanTag        string
	team           *demcore.Team
	class          *demcore.Class
	score          int
	kills          int
	deaths         int
	firstSeenOrder int
	disconnected   bool

	weaponTally dem.WeaponTally

	// active is the in-progress streak; nil if the player currently has no
	// open streak (just died, or hasn't killed yet).
	active   *dem.KillStreak
	nextWave int
	finished []dem.KillStreak
}

// reconstructor holds all state accumulated while walking an event stream.
type reconstructor struct {
	// active maps a slot to its current occupant. A slot is removed here
	// (but not from all) when the engine reports its occupant disconnected,
	// so the next player assigned that slot starts a fresh identity instead
	// of silently inheriting the departed player's kills and tally.
	active map[byte]*playerState

	// all holds every playerState ever created, in first-seen order,
	// including identities retired by a disconnect; each becomes its own
	// row in the final report even if it shares a raw slot with another.
	all []*playerState

	finalScore dem.FinalScore
}

func newReconstructor() *reconstructor {
	return &reconstructor{active: make(map[byte]*playerState)}
}

func (r *reconstructor) playerFor(slot byte) *playerState {
	p, ok := r.active[slot]
	if !ok {
		p = &playerState{
			slot:           slot,
			team:           demcore.TeamUnassigned,
			weaponTally:    make(dem.WeaponTally),
			firstSeenOrder: len(r.all),
			nextWave:       1,
		}
		r.active[slot] = p
		r.all = append(r.all, p)
	}
	return p
}

// retire closes the slot's current occupant's streak, marks them
// disconnected, and removes them from the active map: the slot's identity
// is frozen as-is, and a later occupant of the same slot gets a brand new
// playerState rather than continuing to mutate this one.
func (r *reconstructor) retire(slot byte) {
	p, ok := r.active[slot]
	if !ok {
		return
	}
	p.disconnected = true
	p.closeStreak()
	delete(r.active, slot)
}

// closeStreak finalizes a player's in-progress streak, if any, appending it
// to their finished list.
func (p *playerState) closeStreak() {
	if p.active == nil {
		return
	}
	p.finished = append(p.finished, *p.active)
	p.active = nil
}

// flushAt finalizes a player's in-progress streak as of the demo's final
// time, overriding the duration recorded by its last kill so the streak's
// endpoint reflects when the demo actually ended, not when the player last
// scored a kill.
func (p *playerState) flushAt(endTime float64) {
	if p.active == nil {
		return
	}
	p.active.DurationSeconds = endTime - p.active.StartTime
	p.finished = append(p.finished, *p.active)
	p.active = nil
}

// recordKill opens or extends a player's active streak with one kill.
func (p *playerState) recordKill(time float64, weapon string) {
	if p.active == nil {
		p.active = &dem.KillStreak{
			WaveIndex: p.nextWave,
			StartTime: time,
		}
		p.nextWave++
	}
	p.active.Kills++
	p.active.Weapons = append(p.active.Weapons, weapon)
	p.active.DurationSeconds = time - p.active.StartTime
}

// apply folds a single event into reconstructor state.
func (r *reconstructor) apply(evt demevt.Event) {
	switch e := evt.(type) {
	case *demevt.UserInfoUpdated:
		p := r.playerFor(e.Slot)
		p.persistentID = strconv.FormatUint(uint64(e.ID), 10)
		p.displayName = e.Name

	case *demevt.TeamChanged:
		p := r.playerFor(e.Slot)
		p.team = e.Team
		if e.Team != demcore.TeamAllies && e.Team != demcore.TeamAxis {
			p.class = nil
		}

	case *demevt.ClassChanged:
		p := r.playerFor(e.Slot)
		p.class = demcore.ClassByID(p.team, e.ClassIndex)

	case *demevt.ClanTagSet:
		p := r.playerFor(e.Slot)
		p.clanTag = e.Tag

	case *demevt.ScoreUpdated:
		p := r.playerFor(e.Slot)
		p.score = int(e.Score)
		p.kills = int(e.Kills)
		p.deaths = int(e.Deaths)
		p.class = demcore.ClassByID(p.team, byte(e.ClassIndex))

	case *demevt.FragsReported:
		p := r.playerFor(e.Slot)
		p.kills = int(e.Kills)

	case *demevt.TeamScoreUpdated:
		r.finalScore = dem.FinalScore{Allies: e.Allies, Axis: e.Axis}

	case *demevt.Death:
		r.applyDeath(e)

	case *demevt.PlayerDisconnected:
		r.retire(e.Slot)
	}
}

// applyDeath updates the victim's death count, and -- unless the kill is
// a suicide or an environmental death -- the killer's kill count, weapon
// tally, and active streak.
func (r *reconstructor) applyDeath(e *demevt.Death) {
	victim := r.playerFor(e.VictimSlot)
	victim.deaths++
	victim.closeStreak()

	if isEnvironmentalDeath(e.WeaponIndex) || e.KillerSlot == e.VictimSlot {
		return
	}

	killer := r.playerFor(e.KillerSlot)
	killer.kills++
	killer.weaponTally[e.WeaponName]++
	killer.recordKill(e.Time, e.WeaponName)
}

// finish flushes any still-open streaks against the demo's final time (the
// end-of-demo flush) and returns the report-ready building blocks, parallel
// to each other and to players; the caller assembles them into a
// dem.MatchReport via dem.NewMatchReport. endTime is the demo's last frame
// time: an identity still mid-streak when the demo ends (rather than
// having died or disconnected) has that streak's duration extended to this
// time, not truncated to its last kill.
func (r *reconstructor) finish(endTime float64) (players []*dem.Player, weaponTallies []dem.WeaponTally, streaks [][]dem.KillStreak) {
	for _, p := range r.all {
		p.flushAt(endTime)
		players = append(players, p.toPlayer())
		weaponTallies = append(weaponTallies, p.weaponTally)
		streaks = append(streaks, p.finished)
	}
	return players, weaponTallies, streaks
}

func (p *playerState) toPlayer() *dem.Player {
	return dem.NewPlayer(
		dem.PlayerSlot(p.slot),
		p.persistentID,
		p.displayName,
		p.clanTag,
		p.team,
		p.class,
		p.score,
		p.kills,
		p.deaths,
		p.firstSeenOrder,
		p.disconnected,
	)
}
