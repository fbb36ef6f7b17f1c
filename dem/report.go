// This file contains the top-level MatchReport and its per-player
// aggregation, the final immutable model handed to renderers.

package dem

import (
	"sort"
	"time"

	"github.com/dodanalysis/dodrep/dem/demcore"
	"github.com/dodanalysis/dodrep/dem/demevt"
)

// FinalScore holds the team objective score totals at the end of the demo.
type FinalScore struct {
	Allies int
	Axis   int
}

// PlayerReport aggregates a Player with their weapon tally and the ordered,
// non-empty kill streaks they produced.
type PlayerReport struct {
	Player *Player

	// WeaponTally maps canonical weapon name to kill count. Invariant:
	// Player.Kills == WeaponTally.Total().
	WeaponTally WeaponTally

	// Streaks is ordered by WaveIndex ascending; empty streaks are never
	// included.
	Streaks []KillStreak
}

// MatchReport is the top-level, immutable aggregate produced by the
// decoder + reconstructor pipeline.
type MatchReport struct {
	DemoPath        string
	DemoCreatedAt   time.Time
	DemoProtocol    uint32
	NetworkProtocol uint32
	AnalyzerVersion string
	ReportCreatedAt time.Time
	MapName         string
	FinalScore      FinalScore

	// Players is sorted by team (Allies before Axis; Spectators excluded),
	// then by descending score, then by ascending first-seen order.
	Players []*PlayerReport

	// Diagnostics holds non-fatal decode notes (soft-failure channel),
	// populated only when Config.KeepRawEvents is set.
	Diagnostics []string `json:",omitempty"`

	// RawEvents is the normalized event stream, retained only when
	// Config.KeepRawEvents is set.
	RawEvents []demevt.Event `json:",omitempty"`
}

// NewMatchReport assembles a MatchReport's Players slice from reconstructed
// per-player state. weaponTallies and streaks are parallel to players (same
// length, same index for the same identity) rather than keyed by
// PlayerSlot, since a slot freed by a disconnect and reused by a later
// player must produce two independent report rows sharing one Slot value;
// a slot-keyed map could not hold both. The caller (the reconstructor) is
// expected to have already closed every streak, including the end-of-demo
// flush of any still-open one.
//
// The remaining MatchReport fields (DemoPath, timestamps, protocol
// versions, AnalyzerVersion) are populated by the caller after this
// returns, since they're orchestration-level concerns NewMatchReport has
// no access to.
func NewMatchReport(players []*Player, weaponTallies []WeaponTally, streaks [][]KillStreak, finalScore FinalScore, mapName string) *MatchReport {
	all := make([]*PlayerReport, len(players))
	for i, p := range players {
		wt := weaponTallies[i]
		if wt == nil {
			wt = make(WeaponTally)
		}
		all[i] = &PlayerReport{Player: p, WeaponTally: wt, Streaks: streaks[i]}
	}

	return &MatchReport{
		MapName:    mapName,
		FinalScore: finalScore,
		Players:    sortPlayerReports(all),
	}
}

// sortPlayerReports orders reports per MatchReport.Players' documented
// contract.
func sortPlayerReports(all []*PlayerReport) []*PlayerReport {
	filtered := make([]*PlayerReport, 0, len(all))
	for _, pr := range all {
		if pr.Player.Team == demcore.TeamSpectator {
			continue
		}
		filtered = append(filtered, pr)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		pi, pj := filtered[i].Player, filtered[j].Player
		if pi.Team != pj.Team {
			return teamOrder(pi.Team) < teamOrder(pj.Team)
		}
		if pi.Score != pj.Score {
			return pi.Score > pj.Score
		}
		return pi.firstSeenOrder < pj.firstSeenOrder
	})
	return filtered
}

// teamOrder gives the scoreboard's team ordering key: Allies first, then
// Axis, then anything else (Unassigned).
func teamOrder(t *demcore.Team) int {
	switch t {
	case demcore.TeamAllies:
		return 0
	case demcore.TeamAxis:
		return 1
	default:
		return 2
	}
}
