package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	SplitStarted
	PartsRemoved
	BackupCreated
	PartWritten
	SplitCompleted
	SplitFailed
	NothingToDo
)

var typeNames = [...]string{
	ScanStarted:    "ScanStarted",
	ScanComplete:   "ScanComplete",
	SplitStarted:   "SplitStarted",
	PartsRemoved:   "PartsRemoved",
	BackupCreated:  "BackupCreated",
	PartWritten:    "PartWritten",
	SplitCompleted: "SplitCompleted",
	SplitFailed:    "SplitFailed",
	NothingToDo:    "NothingToDo",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine. When DryRun
// is set the event describes a planned action that was not performed.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string   // candidate or part path
	Target    string   // backup path (BackupCreated)
	Removed   []string // part files removed (PartsRemoved)
	Size      int64    // file or part size
	Index     int      // 1-based part number (PartWritten)
	Total     int64    // candidates (ScanComplete) or parts (SplitCompleted)
	TotalSize int64    // bytes across candidates (ScanComplete)
	Error     error
	DryRun    bool
}
