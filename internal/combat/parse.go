// Tolerant field extraction for loosely-schemed ACT-style payloads
package combat

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Event is one decoded inbound frame. Payload fields are kept generic;
// accessors below never fail, they fall back to defaults.
type Event struct {
	Type      string          `json:"type"`
	Encounter map[string]any  `json:"Encounter"`
	Combatant json.RawMessage `json:"Combatant"`
	Line      json.RawMessage `json:"line"`
	RawLine   json.RawMessage `json:"rawLine"`
}

// DecodeEvent decodes one inbound text frame. The error is non-nil only for
// frames that are not valid JSON objects; unknown event types decode fine
// and are left for the caller to ignore.
func DecodeEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Lookup returns the value of the first candidate key present in m.
// Exact matches are tried across all candidates first, then a
// case-insensitive pass, so an exact match on a later candidate beats a
// case-insensitive match on an earlier one. Returns def when nothing matches.
func Lookup(m map[string]any, def any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	for _, k := range keys {
		for mk, v := range m {
			if strings.EqualFold(mk, k) {
				return v
			}
		}
	}
	return def
}

// Text is Lookup rendered as a string via Stringify.
func Text(m map[string]any, def string, keys ...string) string {
	v := Lookup(m, nil, keys...)
	if v == nil {
		return def
	}
	return Stringify(v)
}

// Stringify renders a generic JSON value for display. Nulls become empty
// strings, numbers keep their shortest representation.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// ToFloat coerces a raw field into a float64 for sorting. Strings are
// stripped of every rune that is not a digit, dot, plus, or minus before
// parsing ("1,234.5%" becomes 1234.5). Anything unparseable yields 0.
func ToFloat(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		return ToFloat(t.String())
	case string:
		cleaned := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '+' || r == '-' {
				return r
			}
			return -1
		}, t)
		if cleaned == "" {
			return 0
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return ToFloat(Stringify(t))
	}
}

// Summary extracts the encounter header fields.
func (e *Event) Summary() EncounterSummary {
	enc := e.Encounter
	if enc == nil {
		enc = map[string]any{}
	}
	return EncounterSummary{
		Title:    Text(enc, "", "title", "Encounter"),
		Zone:     Text(enc, "", "CurrentZoneName", "zone"),
		Duration: Text(enc, "?", "duration"),
		ENCDPS:   Text(enc, "?", "encdps", "ENCDPS", "DPS"),
		Damage:   Text(enc, "?", "damage", "damageTotal"),
		Active:   strings.EqualFold(Text(enc, "", "isActive"), "true"),
	}
}

// Rows builds leaderboard rows from the Combatant object, sorted by
// descending DPS. The sort is stable, so ties keep the declaration order of
// the source object; a token-level walk preserves that order, which plain
// map decoding would randomize. Combatants whose stats are absent or not an
// object are dropped. With partyOnly set, rows without a known job code are
// dropped too.
func (e *Event) Rows(partyOnly bool) []CombatantRow {
	var rows []CombatantRow
	var total float64
	for _, c := range e.combatants() {
		name, stats := c.name, c.stats
		job := strings.ToUpper(Text(stats, "", "Job", "job"))
		if partyOnly && !KnownJob(job) {
			continue
		}
		dpsText := Text(stats, "0", "encdps", "ENCDPS", "dps")
		damageText := Text(stats, "0", "damage", "Damage")
		row := CombatantRow{
			Name:       name,
			Job:        job,
			DPS:        ToFloat(dpsText),
			DPSText:    dpsText,
			Damage:     ToFloat(damageText),
			DamageText: damageText,
			Crit:       Text(stats, "", "crithit%", "Crit%", "crithit"),
			DirectHit:  Text(stats, "", "DirectHitPct", "DirectHit%", "DirectHit", "Direct%", "DH%"),
			Deaths:     Text(stats, "0", "deaths", "Deaths"),
		}
		total += row.Damage
		rows = append(rows, row)
	}
	if total > 0 {
		for i := range rows {
			rows[i].Share = rows[i].Damage / total
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].DPS > rows[j].DPS })
	return rows
}

type namedStats struct {
	name  string
	stats map[string]any
}

// combatants walks the Combatant object token by token, returning each
// (name, stats) pair in declaration order.
func (e *Event) combatants() []namedStats {
	if len(e.Combatant) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(e.Combatant))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}
	var out []namedStats
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return out
		}
		name, ok := keyTok.(string)
		if !ok {
			return out
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return out
		}
		var stats map[string]any
		if err := json.Unmarshal(raw, &stats); err != nil || stats == nil {
			continue
		}
		out = append(out, namedStats{name: name, stats: stats})
	}
	return out
}

// LogText returns the text of a LogLine event, preferring "line" over
// "rawLine". Non-string payloads are rendered compactly rather than dropped.
func (e *Event) LogText() string {
	for _, raw := range []json.RawMessage{e.Line, e.RawLine} {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s != "" {
				return s
			}
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return ""
}

// EncounterKeys returns the sorted key set of the Encounter payload.
func (e *Event) EncounterKeys() []string {
	keys := make([]string, 0, len(e.Encounter))
	for k := range e.Encounter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CombatantKeys returns the sorted stat keys of the first combatant, or nil
// when the event has none. Used by sniff mode to discover field names.
func (e *Event) CombatantKeys() []string {
	var keys []string
	for _, stats := range e.combatants() {
		for k := range stats.stats {
			keys = append(keys, k)
		}
		break
	}
	sort.Strings(keys)
	return keys
}

// BuildSnapshot reduces a CombatData event to a Snapshot.
func (e *Event) BuildSnapshot(encounterID string, partyOnly bool, at time.Time) Snapshot {
	return Snapshot{
		EncounterID: encounterID,
		Encounter:   e.Summary(),
		Rows:        e.Rows(partyOnly),
		Timestamp:   at,
	}
}
