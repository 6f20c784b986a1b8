package ui

import (
	"fmt"

	"github.com/bamsammich/partsplit/internal/stats"
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  split 3  parts 12  size 1.1 GiB  avg 640.0 MiB/s  time 2s  errors 0
func completionSummary(snap stats.Snapshot, dryRun bool) string {
	if dryRun {
		return fmt.Sprintf("dry run  candidates %s  size %s  nothing written",
			FormatCount(snap.Candidates),
			FormatBytes(snap.BytesTotal),
		)
	}

	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesWritten) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if snap.FilesFailed > 0 {
		icon = "✗"
	}

	base := fmt.Sprintf("done %s  split %s  parts %s  size %s  avg %s  time %s",
		icon,
		FormatCount(snap.FilesSplit),
		FormatCount(snap.PartsWritten),
		FormatBytes(snap.BytesWritten),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)
	if snap.PartsRemoved > 0 {
		base += fmt.Sprintf("  replaced %s", FormatCount(snap.PartsRemoved))
	}
	return base + fmt.Sprintf("  errors %d", snap.FilesFailed)
}
