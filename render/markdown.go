/*
Package render formats a dem.MatchReport for human and machine consumers:
Markdown renders the report as a scoreboard document, and JSON serializes
it directly for programmatic use.
*/
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dodanalysis/dodrep/dem"
	"github.com/dodanalysis/dodrep/dem/demcore"
)

// anonymizedIDPlaceholder is the fixed-width placeholder every player's
// real ID is replaced with in Markdown output. Anonymization is a
// rendering-layer concern only; MatchReport itself carries raw ids.
const anonymizedIDPlaceholder = "••••••••"

// Markdown renders a MatchReport as the scoreboard document described in
// the external interface: an H1 summary, an H2 scoreboard table, and one
// H3 section per player with their weapon breakdown and kill-streak
// tables.
func Markdown(r *dem.MatchReport) string {
	var b strings.Builder

	writeSummary(&b, r)
	writeScoreboard(&b, r)
	for _, pr := range r.Players {
		writePlayerSection(&b, pr)
	}

	return b.String()
}

func writeSummary(b *strings.Builder, r *dem.MatchReport) {
	fmt.Fprintf(b, "# %s\n\n", r.MapName)
	fmt.Fprintf(b, "- Demo: %s\n", r.DemoPath)
	fmt.Fprintf(b, "- Protocol: demo %d / network %d\n", r.DemoProtocol, r.NetworkProtocol)
	fmt.Fprintf(b, "- Analyzer: %s\n", r.AnalyzerVersion)
	fmt.Fprintf(b, "- Generated: %s\n\n", r.ReportCreatedAt.Format("2006-01-02 15:04:05"))
}

// writeScoreboard orders the two team scores so the losing side appears on
// the left of the heading, per the external interface's `<` convention.
func writeScoreboard(b *strings.Builder, r *dem.MatchReport) {
	left, leftScore, right, rightScore := "Allies", r.FinalScore.Allies, "Axis", r.FinalScore.Axis
	if leftScore > rightScore {
		left, leftScore, right, rightScore = right, rightScore, left, leftScore
	}
	fmt.Fprintf(b, "## Scoreboard: %s (%d) < %s (%d)\n\n", left, leftScore, right, rightScore)

	fmt.Fprintln(b, "| ID | Name | Team | Class | Score | Kills | Deaths |")
	fmt.Fprintln(b, "|---|---|---|---|---|---|---|")
	for _, pr := range r.Players {
		p := pr.Player
		fmt.Fprintf(b, "| %s | %s | %s | %s | %d | %d | %d |\n",
			anonymizedIDPlaceholder, p.DisplayName, teamName(p.Team), className(p.Class),
			p.Score, p.Kills, p.Deaths)
	}
	fmt.Fprintln(b)
}

func writePlayerSection(b *strings.Builder, pr *dem.PlayerReport) {
	p := pr.Player
	fmt.Fprintf(b, "### %s\n\n", p.DisplayName)

	fmt.Fprintln(b, "#### Weapon Breakdown")
	fmt.Fprintln(b, "| Weapon | Kills |")
	fmt.Fprintln(b, "|---|---|")
	for _, name := range sortedWeaponNames(pr.WeaponTally) {
		fmt.Fprintf(b, "| %s | %d |\n", name, pr.WeaponTally[name])
	}
	fmt.Fprintln(b)

	fmt.Fprintln(b, "#### Kill Streaks")
	fmt.Fprintln(b, "| Wave | Total Kills | Start Time | Duration | Weapons Used |")
	fmt.Fprintln(b, "|---|---|---|---|---|")
	for _, s := range pr.Streaks {
		fmt.Fprintf(b, "| %d | %d | %s | %s | %s |\n",
			s.WaveIndex, s.Kills, formatTime(s.StartTime), formatDuration(s.DurationSeconds),
			strings.Join(s.Weapons, ", "))
	}
	fmt.Fprintln(b)
}

func sortedWeaponNames(tally dem.WeaponTally) []string {
	names := make([]string, 0, len(tally))
	for name := range tally {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if tally[names[i]] != tally[names[j]] {
			return tally[names[i]] > tally[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

func teamName(t *demcore.Team) string {
	if t == nil {
		return demcore.TeamUnassigned.Name
	}
	return t.Name
}

func className(c *demcore.Class) string {
	if c == nil {
		return "-"
	}
	return c.Name
}

// formatTime renders a demo-clock timestamp for the kill-streak table's
// Start Time column, in the same "Xm Ys" / "Xs" form as formatDuration.
func formatTime(seconds float64) string {
	return formatDuration(seconds)
}

// formatDuration renders a duration as "Xm Ys" when >= 60s, else "Xs";
// a zero duration renders as "0s".
func formatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%dm %ds", m, s)
}
