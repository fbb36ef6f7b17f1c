package demparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dodanalysis/dodrep/dem"
	"github.com/dodanalysis/dodrep/dem/demcore"
	"github.com/dodanalysis/dodrep/dem/demevt"
)

// indexOfSlot returns the index of the first player in slot order whose
// Slot matches, for tests that need to find a particular identity among
// finish()'s parallel result slices.
func indexOfSlot(players []*dem.Player, slot dem.PlayerSlot) int {
	for i, p := range players {
		if p.Slot == slot {
			return i
		}
	}
	return -1
}

func TestReconstructorEmptyStream(t *testing.T) {
	r := newReconstructor()
	players, weaponTallies, streaks := r.finish(0)
	assert.Empty(t, players)
	assert.Empty(t, weaponTallies)
	assert.Empty(t, streaks)
}

func TestReconstructorSingleFrameKillAndDeathProducesOneStreak(t *testing.T) {
	r := newReconstructor()

	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 1, Team: demcore.TeamAllies})
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 2, Team: demcore.TeamAxis})

	r.apply(&demevt.Death{
		Base: demevt.Base{Time: 100}, KillerSlot: 1, VictimSlot: 2,
		WeaponIndex: 9, WeaponName: "K98",
	})
	r.apply(&demevt.Death{
		Base: demevt.Base{Time: 100}, KillerSlot: 2, VictimSlot: 1,
		WeaponIndex: 9, WeaponName: "K98",
	})

	players, weaponTallies, streaks := r.finish(150)
	i := indexOfSlot(players, 1)
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, 1, weaponTallies[i]["K98"])

	require.Len(t, streaks[i], 1)
	s := streaks[i][0]
	assert.Equal(t, 1, s.Kills)
	assert.Equal(t, 0.0, s.DurationSeconds)
	assert.Equal(t, 1, s.WaveIndex)
}

func TestReconstructorNeverDiesFlushesOpenStreakAtEndOfDemoTime(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 1, Team: demcore.TeamAllies})
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 2, Team: demcore.TeamAxis})

	r.apply(&demevt.Death{Base: demevt.Base{Time: 10}, KillerSlot: 1, VictimSlot: 2, WeaponIndex: 6, WeaponName: "MP40"})
	r.apply(&demevt.Death{Base: demevt.Base{Time: 20}, KillerSlot: 1, VictimSlot: 2, WeaponIndex: 6, WeaponName: "MP40"})

	// The demo keeps running well past slot 1's last kill; the flush must
	// extend the streak to the demo's actual final time, not truncate it
	// to the last kill.
	players, _, streaks := r.finish(500)
	i := indexOfSlot(players, 1)
	require.GreaterOrEqual(t, i, 0)
	require.Len(t, streaks[i], 1)
	s := streaks[i][0]
	assert.Equal(t, 2, s.Kills)
	assert.Equal(t, 490.0, s.DurationSeconds)
	assert.Equal(t, 500.0, s.EndTime())
}

func TestReconstructorWaveIndicesAreSequential(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.Death{Base: demevt.Base{Time: 1}, KillerSlot: 1, VictimSlot: 2, WeaponIndex: 3, WeaponName: "Colt"})
	r.apply(&demevt.Death{Base: demevt.Base{Time: 2}, KillerSlot: 2, VictimSlot: 1, WeaponIndex: 254}) // environmental, only closes slot 1's streak
	r.apply(&demevt.Death{Base: demevt.Base{Time: 3}, KillerSlot: 1, VictimSlot: 2, WeaponIndex: 3, WeaponName: "Colt"})

	players, _, streaks := r.finish(3)
	i := indexOfSlot(players, 1)
	require.GreaterOrEqual(t, i, 0)
	require.Len(t, streaks[i], 2)
	assert.Equal(t, 1, streaks[i][0].WaveIndex)
	assert.Equal(t, 2, streaks[i][1].WaveIndex)
}

func TestReconstructorSuicideGivesNoKillCredit(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.Death{Base: demevt.Base{Time: 5}, KillerSlot: 1, VictimSlot: 1, WeaponIndex: 0})

	players, weaponTallies, _ := r.finish(5)
	require.Len(t, players, 1)
	assert.Equal(t, 0, players[0].Kills)
	assert.Equal(t, 1, players[0].Deaths)
	assert.Empty(t, weaponTallies[0])
}

func TestReconstructorEnvironmentalDeathGivesNoKillCredit(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.Death{Base: demevt.Base{Time: 5}, KillerSlot: 3, VictimSlot: 4, WeaponIndex: 254})

	_, weaponTallies, _ := r.finish(5)
	for _, wt := range weaponTallies {
		assert.Empty(t, wt)
	}
}

func TestReconstructorScoreShortOverridesScore(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.ScoreUpdated{Base: demevt.Base{Time: 0}, Slot: 1, Score: 10, Kills: 4, Deaths: 1})

	players, _, _ := r.finish(0)
	require.Len(t, players, 1)
	assert.Equal(t, 10, players[0].Score)
	assert.Equal(t, 4, players[0].Kills)
}

func TestReconstructorSpectatorExcludedFromSort(t *testing.T) {
	r := newReconstructor()
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 1, Team: demcore.TeamSpectator})
	players, weaponTallies, streaks := r.finish(0)

	report := dem.NewMatchReport(players, weaponTallies, streaks, dem.FinalScore{}, "dod_caen")
	assert.Empty(t, report.Players)
}

// TestReconstructorSlotReuseProducesTwoReportRows covers the case where the
// engine frees a slot on disconnect and later assigns it to a different
// player: the two occupants must never be merged into one report entry.
func TestReconstructorSlotReuseProducesTwoReportRows(t *testing.T) {
	r := newReconstructor()

	r.apply(&demevt.UserInfoUpdated{Base: demevt.Base{Time: 0}, Slot: 5, ID: 111, Name: "Alice"})
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 0}, Slot: 5, Team: demcore.TeamAllies})
	r.apply(&demevt.Death{Base: demevt.Base{Time: 10}, KillerSlot: 5, VictimSlot: 99, WeaponIndex: 9, WeaponName: "K98"})
	r.apply(&demevt.PlayerDisconnected{Base: demevt.Base{Time: 20}, Slot: 5})

	r.apply(&demevt.UserInfoUpdated{Base: demevt.Base{Time: 30}, Slot: 5, ID: 222, Name: "Bob"})
	r.apply(&demevt.TeamChanged{Base: demevt.Base{Time: 30}, Slot: 5, Team: demcore.TeamAxis})
	r.apply(&demevt.Death{Base: demevt.Base{Time: 40}, KillerSlot: 5, VictimSlot: 99, WeaponIndex: 9, WeaponName: "K98"})
	r.apply(&demevt.Death{Base: demevt.Base{Time: 41}, KillerSlot: 5, VictimSlot: 99, WeaponIndex: 9, WeaponName: "K98"})

	players, weaponTallies, streaks := r.finish(41)

	var withSlot5 []int
	for i, p := range players {
		if p.Slot == 5 {
			withSlot5 = append(withSlot5, i)
		}
	}
	require.Len(t, withSlot5, 2, "slot 5's two occupants must produce two distinct report rows")

	alice, bob := players[withSlot5[0]], players[withSlot5[1]]
	assert.Equal(t, "Alice", alice.DisplayName)
	assert.Equal(t, "Bob", bob.DisplayName)
	assert.Equal(t, 1, weaponTallies[withSlot5[0]]["K98"])
	assert.Equal(t, 2, weaponTallies[withSlot5[1]]["K98"])
	require.Len(t, streaks[withSlot5[0]], 1)
	require.Len(t, streaks[withSlot5[1]], 1)
}
