package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// TrialRow is one trial of the exported diagnostics log.
type TrialRow struct {
	RunID     int64  `parquet:"run_id"`
	Trial     int32  `parquet:"trial"`
	Score     int32  `parquet:"score"`
	Ticks     int32  `parquet:"ticks"`
	CreatedAt int64  `parquet:"created_at_ms"`
	Source    string `parquet:"source,dict"`
}

// TrialRows converts stored records into export rows tagged with source.
func TrialRows(records []TrialRecord, source string) []TrialRow {
	rows := make([]TrialRow, len(records))
	for i, r := range records {
		var created int64
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.UnixMilli()
		}
		rows[i] = TrialRow{
			RunID:     r.RunID,
			Trial:     int32(r.Trial),
			Score:     int32(r.Score),
			Ticks:     int32(r.Ticks),
			CreatedAt: created,
			Source:    source,
		}
	}
	return rows
}

// WriteTrialsParquet writes rows to outPath, replacing it atomically.
func WriteTrialsParquet(outPath string, rows []TrialRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("storage: cannot create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "trial_log_v1"),
		parquet.KeyValueMetadata("trials", strconv.Itoa(len(rows))),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: cannot write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage: cannot rename parquet: %w", err)
	}
	return nil
}
