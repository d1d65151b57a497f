/*
Package scanner walks root directories concurrently, recognizes projects by
their marker files, and excludes the directories those projects generate from
backups.

Each directory is visited once by one worker: its entries are read a single
time, classified against the rules, and only then are its remaining
subdirectories queued. Directories a rule excluded are never descended into.

Basic usage:

	config := scanner.Config{
		Workers: 4,
		Roots:   []string{"/Users/me/src"},
		Ignore:  []string{".git"},
		Rules: []scanner.Rule{
			{Name: "node", FileMatch: "package.json", Exclusions: []string{"node_modules"}},
		},
	}

	s := scanner.NewScanner(config, afero.NewOsFs(), oracle.NewTMUtil(nil, log), log)
	result, err := s.Scan(ctx)
*/
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"

	"github.com/mdnmdn/asimeow/pkg/logger"
	"github.com/mdnmdn/asimeow/pkg/oracle"
	"github.com/mdnmdn/asimeow/pkg/pattern"
	"github.com/mdnmdn/asimeow/pkg/runcache"
	"github.com/mdnmdn/asimeow/pkg/worker"
)

// Scanner defines the interface for exclusion scans
type Scanner interface {
	// Scan walks every configured root and returns the final counters
	Scan(ctx context.Context) (Result, error)

	// Progress returns the counters of the scan in flight
	Progress() Progress
}

type compiledRule struct {
	Rule
	match pattern.Pattern
	// stopsDescent is set when the exclusions name "." or ".."
	stopsDescent bool
}

// run holds the state of one Scan call
type run struct {
	pool    worker.Pool
	oracle  oracle.Oracle
	cache   *runcache.Cache
	links   *runcache.Cache
	ignore  *pattern.Set
	rules   []compiledRule
	stats   *ScannerStats
	nextID  atomic.Int64
	started time.Time
}

// scanner implements the Scanner interface
type scanner struct {
	config  Config
	fs      afero.Fs
	linkFs  SymlinkFs
	oracle  oracle.Oracle
	log     logger.Logger
	current atomic.Pointer[run]
}

// NewScanner creates a Scanner. A nil log discards output.
func NewScanner(config Config, fs afero.Fs, o oracle.Oracle, log logger.Logger) Scanner {
	if log == nil {
		log = logger.Nop()
	}
	return &scanner{
		config: config,
		fs:     fs,
		linkFs: NewSymlinkFs(fs),
		oracle: o,
		log:    log,
	}
}

// Scan performs the exclusion walk
func (s *scanner) Scan(ctx context.Context) (Result, error) {
	if len(s.config.Roots) == 0 {
		return Result{}, ErrNoRoots
	}

	s.log.WithFields(logger.Fields{
		"roots":   s.config.Roots,
		"workers": s.config.Workers,
		"rules":   len(s.config.Rules),
		"ignore":  s.config.Ignore,
	}).Info("Starting scan operation")

	pool, err := worker.NewPool(worker.Config{
		Workers:   s.config.Workers,
		RateLimit: s.config.RateLimit,
	})
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to create worker pool")
		return Result{}, fmt.Errorf("failed to create worker pool: %w", err)
	}

	o, err := s.statusOracle()
	if err != nil {
		return Result{}, err
	}

	r := &run{
		pool:    pool,
		oracle:  o,
		cache:   runcache.New(),
		links:   runcache.New(),
		ignore:  s.compileIgnore(),
		rules:   s.compileRules(),
		stats:   NewScannerStats(),
		started: time.Now(),
	}
	s.current.Store(r)

	// Seed before Start so the first idle worker cannot close the latch early
	for _, root := range s.config.Roots {
		root = filepath.Clean(root)
		if resolved, err := realPath(s.linkFs, root); err == nil && r.links.Claim(resolved) {
			r.links.Done(resolved)
		}
		if err := pool.Submit(s.visitTask(r, root)); err != nil {
			return Result{}, fmt.Errorf("failed to seed root %s: %w", root, err)
		}
	}

	seededLinks := r.links.Len()

	if err := pool.Start(ctx); err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to start worker pool")
		return Result{}, fmt.Errorf("failed to start worker pool: %w", err)
	}

	defer func() {
		if err := pool.Stop(); err != nil {
			s.log.WithFields(logger.Fields{
				"error": err,
			}).Warn("Error stopping worker pool")
		}
	}()

	waitErr := pool.Wait()

	result := Result{
		ProcessedPaths: r.stats.GetProcessedPaths(),
		ExclusionFound: r.stats.GetExclusionFound(),
		NewlyExcluded:  r.stats.GetNewlyExcluded(),
		StartTime:      r.started,
		EndTime:        time.Now(),
	}
	result.Duration = result.EndTime.Sub(result.StartTime)

	if waitErr != nil {
		s.log.WithFields(logger.Fields{
			"error": waitErr,
		}).Error("Scan interrupted")
		return result, fmt.Errorf("scan interrupted: %w", waitErr)
	}

	s.log.WithFields(logger.Fields{
		"duration":       result.Duration,
		"processedPaths": result.ProcessedPaths,
		"exclusionFound": result.ExclusionFound,
		"newlyExcluded":  result.NewlyExcluded,
		"seenPaths":      r.cache.Len(),
		"followedLinks":  r.links.Len() - seededLinks,
		"statusCache":    statusCacheLen(o),
	}).Info("Scan operation completed")

	return result, nil
}

// Progress returns the current scanning progress
func (s *scanner) Progress() Progress {
	r := s.current.Load()
	if r == nil {
		return Progress{}
	}
	return Progress{
		ProcessedPaths: r.stats.GetProcessedPaths(),
		ExclusionFound: r.stats.GetExclusionFound(),
		NewlyExcluded:  r.stats.GetNewlyExcluded(),
		StartTime:      r.started,
	}
}

func (s *scanner) statusOracle() (oracle.Oracle, error) {
	if s.config.StatusCacheSize < 0 {
		return s.oracle, nil
	}
	cached, err := runcache.NewStatusCache(s.oracle, s.config.StatusCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func (s *scanner) compileIgnore() *pattern.Set {
	set := pattern.NewIgnoreSet(s.config.Ignore)
	s.log.WithFields(logger.Fields{
		"patterns": set.Len(),
	}).Debug("Compiled ignore patterns")
	for _, source := range set.Fallbacks() {
		s.log.WithFields(logger.Fields{
			"pattern": source,
		}).Warn("Invalid ignore pattern, using literal match")
	}
	return set
}

func (s *scanner) compileRules() []compiledRule {
	rules := make([]compiledRule, 0, len(s.config.Rules))
	for _, rule := range s.config.Rules {
		p, literal := pattern.CompileRule(rule.FileMatch)
		if literal {
			s.log.WithFields(logger.Fields{
				"pattern": rule.FileMatch,
				"rule":    rule.Name,
			}).Warn("Invalid rule pattern, using literal match")
		}

		cr := compiledRule{Rule: rule, match: p}
		for _, name := range rule.Exclusions {
			if pattern.IsSelfOrParent(name) {
				cr.stopsDescent = true
				break
			}
		}
		rules = append(rules, cr)
	}
	return rules
}

func (s *scanner) visitTask(r *run, dir string) worker.Task {
	return worker.Task{
		ID: int(r.nextID.Add(1)),
		Execute: func(ctx context.Context) error {
			return s.visit(ctx, r, dir)
		},
	}
}

// visit processes one directory: classify its entries, then queue the
// subdirectories no rule claimed
func (s *scanner) visit(ctx context.Context, r *run, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := s.fs.Stat(dir)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Debug("Path does not exist")
		return nil
	}
	if !info.IsDir() {
		s.log.WithFields(logger.Fields{
			"path": dir,
		}).Debug("Not a directory")
		return nil
	}

	if p, ok := r.ignore.Match(filepath.Base(dir)); ok {
		s.log.WithFields(logger.Fields{
			"path":    dir,
			"pattern": p.String(),
		}).Debug("Skipping ignored directory")
		return nil
	}

	r.stats.AddProcessedPaths(1)

	s.log.WithFields(logger.Fields{
		"path": dir,
	}).Trace("Processing path")

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Warn("Failed to read directory")
		return nil
	}

	// Phase 1: classify every entry before queueing anything
	suppressed := make(map[string]struct{})
	for _, entry := range entries {
		for i := range r.rules {
			rule := &r.rules[i]
			if !rule.match.MatchRule(entry.Name()) {
				continue
			}

			s.log.WithFields(logger.Fields{
				"rule":  rule.Name,
				"path":  filepath.Join(dir, entry.Name()),
				"match": rule.FileMatch,
			}).Debug("Found match for rule")

			s.applyRule(ctx, r, dir, rule)

			if rule.stopsDescent {
				return nil
			}
			for _, exclusion := range rule.Exclusions {
				suppressed[exclusion] = struct{}{}
			}
			break
		}
	}

	// Phase 2: queue the remaining subdirectories
	for _, entry := range entries {
		if _, ok := suppressed[entry.Name()]; ok {
			continue
		}

		child := filepath.Join(dir, entry.Name())
		if !entry.IsDir() && !(isSymlink(entry) && s.followLink(r, dir, entry)) {
			continue
		}

		if err := r.pool.Submit(s.visitTask(r, child)); err != nil {
			s.log.WithFields(logger.Fields{
				"error": err,
				"path":  child,
			}).Debug("Failed to queue directory")
		}
	}

	return nil
}

// applyRule asks the oracle to exclude every existing exclusion path of rule
// under dir. Each path is attempted at most once per run.
func (s *scanner) applyRule(ctx context.Context, r *run, dir string, rule *compiledRule) {
	for _, exclusion := range rule.Exclusions {
		target := filepath.Join(dir, exclusion)

		exists, err := afero.Exists(s.fs, target)
		if err != nil || !exists {
			continue
		}
		if !r.cache.Claim(target) {
			s.log.WithFields(logger.Fields{
				"path":      target,
				"completed": r.cache.Seen(target),
			}).Trace("Exclusion path already handled")
			continue
		}

		event := Event{Path: target, Rule: rule.Name}
		if r.oracle.Exclude(ctx, target) {
			r.stats.AddNewlyExcluded(1)
			event.Kind = EventNewlyExcluded
		} else {
			event.Kind = EventAlreadyExcluded
		}
		r.stats.AddExclusionFound(1)
		r.cache.Done(target)

		s.log.WithFields(logger.Fields{
			"path": target,
			"rule": rule.Name,
			"kind": event.Kind.String(),
		}).Debug("Exclusion processed")

		if s.config.OnEvent != nil {
			s.config.OnEvent(event)
		}
	}
}

// followLink reports whether a symlinked entry of dir should be walked. The
// target must be a directory, and each target is walked once per run so
// links pointing back up the tree cannot loop.
func (s *scanner) followLink(r *run, dir string, entry os.FileInfo) bool {
	if !isDirEntry(s.fs, dir, entry) {
		return false
	}

	link := filepath.Join(dir, entry.Name())
	target, err := realPath(s.linkFs, link)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"error": err,
			"path":  link,
		}).Debug("Cannot resolve symlink")
		return false
	}

	if !r.links.Claim(target) {
		s.log.WithFields(logger.Fields{
			"path":   link,
			"target": target,
		}).Debug("Skipping symlink to a directory already walked")
		return false
	}
	r.links.Done(target)
	return true
}

func statusCacheLen(o oracle.Oracle) int {
	if c, ok := o.(*runcache.StatusCache); ok {
		return c.Len()
	}
	return 0
}
