package watch

import (
	"encoding/json"
	"os"

	"dpswatch/internal/combat"
)

// FileWriter appends snapshots and log lines to JSONL files, one record per
// line, suitable for later replay.
type FileWriter struct {
	snapFile *os.File
	logFile  *os.File
	snapEnc  *json.Encoder
	logEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. logPath may be empty to skip the log
// line file.
func NewFileWriter(snapshotPath, logPath string) (*FileWriter, error) {
	sf, err := os.Create(snapshotPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{snapFile: sf, snapEnc: json.NewEncoder(sf)}
	if logPath != "" {
		lf, err := os.Create(logPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.logFile = lf
		fw.logEnc = json.NewEncoder(lf)
	}
	return fw, nil
}

// WriteSnapshot logs a single snapshot.
func (f *FileWriter) WriteSnapshot(snap combat.Snapshot) error {
	return f.snapEnc.Encode(snap)
}

// WriteLogLine logs a single log line, if enabled.
func (f *FileWriter) WriteLogLine(line combat.LogLine) error {
	if f.logEnc == nil {
		return nil
	}
	return f.logEnc.Encode(line)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.snapFile != nil {
		if e := f.snapFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.logFile != nil {
		if e := f.logFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
