// Combat snapshot model shared by the client, writers, and playback
package combat

import (
	"strings"
	"time"
)

// Inbound event type discriminators.
const (
	EventCombatData = "CombatData"
	EventLogLine    = "LogLine"
)

// EncounterSummary holds the encounter-level fields of one snapshot.
type EncounterSummary struct {
	Title    string `json:"title"`
	Zone     string `json:"zone"`
	Duration string `json:"duration"`
	ENCDPS   string `json:"encdps"`
	Damage   string `json:"damage"`
	Active   bool   `json:"active"`
}

// CombatantRow is one leaderboard row. Numeric fields are parsed once for
// sorting; the *Text fields keep the upstream formatting for display.
type CombatantRow struct {
	Name       string  `json:"name"`
	Job        string  `json:"job"`
	DPS        float64 `json:"dps"`
	DPSText    string  `json:"dps_text"`
	Damage     float64 `json:"damage"`
	DamageText string  `json:"damage_text"`
	Share      float64 `json:"share"` // 0..1 of encounter damage
	Crit       string  `json:"crit"`
	DirectHit  string  `json:"direct_hit"`
	Deaths     string  `json:"deaths"`
}

// Snapshot is one CombatData event reduced to leaderboard form. Snapshots
// are rebuilt from scratch on every event; nothing merges across events.
type Snapshot struct {
	EncounterID string           `json:"encounter_id"`
	Encounter   EncounterSummary `json:"encounter"`
	Rows        []CombatantRow   `json:"rows"`
	Timestamp   time.Time        `json:"ts"`
}

// LogLine is one LogLine event.
type LogLine struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}

// Top returns the first n rows, or all rows when n <= 0.
func Top(rows []CombatantRow, n int) []CombatantRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// knownJobs lists FFXIV job codes used by the optional party-only filter.
var knownJobs = map[string]struct{}{
	// Tanks
	"PLD": {}, "WAR": {}, "DRK": {}, "GNB": {},
	// Healers
	"WHM": {}, "SCH": {}, "AST": {}, "SGE": {},
	// Melee
	"MNK": {}, "DRG": {}, "NIN": {}, "SAM": {}, "RPR": {}, "VPR": {},
	// Ranged physical
	"BRD": {}, "MCH": {}, "DNC": {},
	// Casters
	"BLM": {}, "SMN": {}, "RDM": {}, "PCT": {},
	// Limited
	"BLU": {},
}

// KnownJob reports whether job is a recognized job code (case-insensitive).
func KnownJob(job string) bool {
	_, ok := knownJobs[strings.ToUpper(job)]
	return ok
}
