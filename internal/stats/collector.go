package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks split run statistics. Counters are atomic so a
// presenter goroutine can read them while the engine writes.
type Collector struct {
	filesScanned atomic.Int64
	candidates   atomic.Int64
	filesSplit   atomic.Int64
	filesFailed  atomic.Int64
	partsWritten atomic.Int64
	partsRemoved atomic.Int64
	backups      atomic.Int64
	bytesWritten atomic.Int64
	bytesTotal   atomic.Int64
	startTime    time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesScanned int64
	Candidates   int64
	FilesSplit   int64
	FilesFailed  int64
	PartsWritten int64
	PartsRemoved int64
	Backups      int64
	BytesWritten int64
	BytesTotal   int64
	Elapsed      time.Duration
}

// SetTotals records the scan result: files seen, candidates chosen, and
// the bytes those candidates hold.
func (c *Collector) SetTotals(scanned, candidates, bytes int64) {
	c.filesScanned.Store(scanned)
	c.candidates.Store(candidates)
	c.bytesTotal.Store(bytes)
}

func (c *Collector) AddFilesSplit(n int64)   { c.filesSplit.Add(n) }
func (c *Collector) AddFilesFailed(n int64)  { c.filesFailed.Add(n) }
func (c *Collector) AddPartsWritten(n int64) { c.partsWritten.Add(n) }
func (c *Collector) AddPartsRemoved(n int64) { c.partsRemoved.Add(n) }
func (c *Collector) AddBackups(n int64)      { c.backups.Add(n) }
func (c *Collector) AddBytesWritten(n int64) { c.bytesWritten.Add(n) }

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesScanned: c.filesScanned.Load(),
		Candidates:   c.candidates.Load(),
		FilesSplit:   c.filesSplit.Load(),
		FilesFailed:  c.filesFailed.Load(),
		PartsWritten: c.partsWritten.Load(),
		PartsRemoved: c.partsRemoved.Load(),
		Backups:      c.backups.Load(),
		BytesWritten: c.bytesWritten.Load(),
		BytesTotal:   c.bytesTotal.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"scanned=%d candidates=%d split=%d failed=%d parts=%d removed=%d backups=%d bytes=%d",
		s.FilesScanned, s.Candidates, s.FilesSplit, s.FilesFailed,
		s.PartsWritten, s.PartsRemoved, s.Backups, s.BytesWritten,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
