package watch

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"time"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"dpswatch/internal/combat"
)

const greptimeWriteTimeout = 5 * time.Second

// GreptimeWriter writes per-combatant DPS samples to GreptimeDB via the
// ingester client, one row per combatant per snapshot. GreptimeDB creates
// the table on first write; a hint sets 30 day retention.
type GreptimeWriter struct {
	client *greptime.Client
	table  string
	logger *slog.Logger
}

// NewGreptimeWriter connects to GreptimeDB. endpoint is "host" or
// "host:port" (gRPC port, default 4001); an empty tableName defaults to
// "combat_dps".
func NewGreptimeWriter(endpoint, database, tableName string, logger *slog.Logger) (*GreptimeWriter, error) {
	if tableName == "" {
		tableName = "combat_dps"
	}
	if logger == nil {
		logger = slog.Default()
	}
	host, port := splitEndpoint(endpoint)
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port > 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeWriter{
		client: client,
		table:  tableName,
		logger: logger,
	}, nil
}

// splitEndpoint splits "host:port" into its parts. A bare host, or anything
// that does not parse, is returned as-is with port 0 so the client default
// applies.
func splitEndpoint(endpoint string) (string, int) {
	host, portText, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, 0
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		return endpoint, 0
	}
	return host, port
}

// snapshotTable builds the ingester table for one snapshot, one row per
// combatant. Column order must match the AddRow calls.
func snapshotTable(name string, snap combat.Snapshot) (*table.Table, error) {
	tbl, err := table.New(name)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"encounter_id", "combatant", "job"} {
		if err := tbl.AddTagColumn(col, types.STRING); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddFieldColumn("zone", types.STRING); err != nil {
		return nil, err
	}
	for _, col := range []string{"dps", "damage", "damage_share", "deaths"} {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}
	for _, r := range snap.Rows {
		err := tbl.AddRow(snap.EncounterID, r.Name, r.Job,
			snap.Encounter.Zone, r.DPS, r.Damage, r.Share,
			combat.ToFloat(r.Deaths), snap.Timestamp)
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// WriteSnapshot implements SnapshotWriter.
func (w *GreptimeWriter) WriteSnapshot(snap combat.Snapshot) error {
	if len(snap.Rows) == 0 {
		return nil
	}
	tbl, err := snapshotTable(w.table, snap)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), greptimeWriteTimeout)
	defer cancel()
	ctx = ingesterContext.New(ctx, ingesterContext.WithHints("ttl=30d"))
	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.logger.Error("greptime write failed", "err", err)
		return err
	}
	return nil
}

// Close shuts down the client connection.
func (w *GreptimeWriter) Close() error {
	return w.client.Close()
}
