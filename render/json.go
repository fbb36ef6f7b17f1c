package render

import (
	"encoding/json"

	"github.com/dodanalysis/dodrep/dem"
)

// JSON serializes one or more MatchReports as a top-level JSON array, one
// element per report, per the external interface's multi-demo contract.
func JSON(reports []*dem.MatchReport, indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(reports, "", "  ")
	}
	return json.Marshal(reports)
}
