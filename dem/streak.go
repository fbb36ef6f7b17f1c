// This file contains the KillStreak type, the natural unit of a player's
// run between two of their own deaths.

package dem

// KillStreak is one wave of kills by a single player, bounded by their own
// deaths (or by the end of the demo for the final, still-open streak).
type KillStreak struct {
	// WaveIndex is monotonically increasing per player, starting at 1.
	WaveIndex int

	// Kills is the number of kills in this streak; always >= 1 for a
	// streak that is emitted (empty streaks are never emitted).
	Kills int

	// StartTime is the demo-clock time, in seconds, of the streak's first
	// kill.
	StartTime float64

	// DurationSeconds is the time between the first and last kill in the
	// streak; 0 for a single-kill streak. A streak still open when the demo
	// ends instead runs from its first kill to the demo's final frame time.
	DurationSeconds float64

	// Weapons is the ordered sequence of weapon names used, one per kill:
	// len(Weapons) == Kills always holds.
	Weapons []string
}

// EndTime returns the demo-clock time the streak ended at.
func (k KillStreak) EndTime() float64 {
	return k.StartTime + k.DurationSeconds
}
