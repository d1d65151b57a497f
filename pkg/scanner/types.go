package scanner

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Rule ties a project marker to the directories that project type generates
type Rule struct {
	Name       string
	FileMatch  string
	Exclusions []string
}

// Config contains scanner configuration options
type Config struct {
	// Workers is the number of concurrent directory visitors
	Workers int

	// RateLimit caps directory visits per second (0 for unlimited)
	RateLimit int

	// Roots are absolute directories seeding the walk
	Roots []string

	// Ignore holds basename globs; matching directories are skipped with their subtree
	Ignore []string

	// Rules are evaluated in order; the first matching rule wins per entry
	Rules []Rule

	// StatusCacheSize bounds memoized exclusion lookups.
	// 0 selects the default size, negative disables the cache.
	StatusCacheSize int

	// OnEvent receives exclusion events. It is called from worker goroutines.
	OnEvent EventHandler
}

// EventKind tells whether an exclusion changed backup state
type EventKind int

const (
	// EventNewlyExcluded marks a path this run excluded
	EventNewlyExcluded EventKind = iota
	// EventAlreadyExcluded marks a path found but not changed
	EventAlreadyExcluded
)

func (k EventKind) String() string {
	switch k {
	case EventNewlyExcluded:
		return "newly_excluded"
	case EventAlreadyExcluded:
		return "already_excluded"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports one exclusion path found during a scan
type Event struct {
	Kind EventKind
	Path string
	Rule string
}

// String renders the event the way the console prints it
func (e Event) String() string {
	indicator := "✅"
	if e.Kind == EventAlreadyExcluded {
		indicator = "🟡"
	}
	return fmt.Sprintf("%s %s - %s", indicator, e.Path, e.Rule)
}

// EventHandler consumes scan events. Implementations must be safe for
// concurrent use.
type EventHandler func(Event)

// Result contains the final counters of a scan
type Result struct {
	ProcessedPaths int64         `json:"processed_paths" yaml:"processed_paths"`
	ExclusionFound int64         `json:"exclusions_found" yaml:"exclusions_found"`
	NewlyExcluded  int64         `json:"newly_excluded" yaml:"newly_excluded"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
	StartTime      time.Time     `json:"start_time" yaml:"start_time"`
	EndTime        time.Time     `json:"end_time" yaml:"end_time"`
}

// Progress represents the current progress of the scanning operation
type Progress struct {
	ProcessedPaths int64
	ExclusionFound int64
	NewlyExcluded  int64
	StartTime      time.Time
}

// ScannerStats holds the atomic counters for one scan
type ScannerStats struct {
	processedPaths atomic.Int64
	exclusionFound atomic.Int64
	newlyExcluded  atomic.Int64
}

// NewScannerStats creates zeroed counters
func NewScannerStats() *ScannerStats {
	return &ScannerStats{}
}

func (s *ScannerStats) AddProcessedPaths(delta int64) int64 {
	return s.processedPaths.Add(delta)
}

func (s *ScannerStats) AddExclusionFound(delta int64) int64 {
	return s.exclusionFound.Add(delta)
}

func (s *ScannerStats) AddNewlyExcluded(delta int64) int64 {
	return s.newlyExcluded.Add(delta)
}

func (s *ScannerStats) GetProcessedPaths() int64 {
	return s.processedPaths.Load()
}

func (s *ScannerStats) GetExclusionFound() int64 {
	return s.exclusionFound.Load()
}

func (s *ScannerStats) GetNewlyExcluded() int64 {
	return s.newlyExcluded.Load()
}

// ChangeKind describes the outcome of an explicit exclude or include
type ChangeKind int

const (
	// Changed means the backup state was modified
	Changed ChangeKind = iota
	// Unchanged means the path already had the requested state
	Unchanged
)

// Change is the outcome of ExcludePath or IncludePath
type Change struct {
	Path  string
	IsDir bool
	Kind  ChangeKind
}

// ListEntry is the exclusion status of one path
type ListEntry struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	IsDir    bool   `json:"is_dir" yaml:"is_dir"`
	Excluded bool   `json:"excluded" yaml:"excluded"`
}

// Listing is the result of List
type Listing struct {
	Path     string      `json:"path" yaml:"path"`
	IsDir    bool        `json:"is_dir" yaml:"is_dir"`
	WholeDir bool        `json:"whole_dir" yaml:"whole_dir"`
	Entries  []ListEntry `json:"entries" yaml:"entries"`
}
