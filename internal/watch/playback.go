package watch

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"dpswatch/internal/combat"
)

// ReplaySnapshots replays recorded snapshots from r to writer. A speed >0
// reproduces the original pacing (scaled); speed <= 0 inserts no delay.
func ReplaySnapshots(r io.Reader, writer SnapshotWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var snap combat.Snapshot
		if err := dec.Decode(&snap); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := snap.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.WriteSnapshot(snap); err != nil {
			return err
		}
		prev = snap.Timestamp
	}
}

// ReplayFile opens a snapshot log and replays it.
func ReplayFile(path string, writer SnapshotWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplaySnapshots(f, writer, speed)
}
