package search

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/traceq/traceq/block"
	"github.com/traceq/traceq/core"
)

// Sentinel errors for search options.
var (
	// ErrBadMaxResults indicates a non-positive result cap.
	ErrBadMaxResults = errors.New("search: MaxResults must be positive")

	// ErrBadWorkers indicates a non-positive worker count.
	ErrBadWorkers = errors.New("search: Workers must be positive")
)

// Result is one ranked match: the agents assigned to the template variables
// (in variable order), the start of each sequential stage plus the final
// end, and the total confidence.
type Result struct {
	AgentIDs   []int
	Timestamps []time.Time
	Confidence core.Confidence
}

// SearchOptions configures one search run.
//
//	MaxResults — size of the global top-K ranking.
//	Workers    — parallel assignment evaluators; 1 reproduces the strictly
//	             sequential reference behavior (and deterministic tie order).
//	Logger     — structured progress/diagnostic sink; silent by default.
type SearchOptions struct {
	MaxResults int
	Workers    int
	Logger     zerolog.Logger
}

// DefaultSearchOptions returns the standard search knobs: top 100 results,
// one worker, no logging.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxResults: 100,
		Workers:    1,
		Logger:     zerolog.Nop(),
	}
}

// Validate checks that the options hold a valid combination.
func (o SearchOptions) Validate() error {
	if o.MaxResults <= 0 {
		return ErrBadMaxResults
	}
	if o.Workers <= 0 {
		return ErrBadWorkers
	}

	return nil
}

// topList is the mutex-guarded running top-K shared by the workers.
type topList struct {
	mu       sync.Mutex
	entries  []Result
	limit    int
	comparer core.Comparer
}

// merge folds new results into the ranking: stable descending sort (earlier
// insertions win ties), truncated to the limit.
func (l *topList) merge(results []Result) {
	if len(results) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, results...)
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.comparer.CompareInt(l.entries[i].Confidence, l.entries[j].Confidence) > 0
	})
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
}

// best returns the current leader, if any.
func (l *topList) best() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return Result{}, false
	}

	return l.entries[0], true
}

// Search runs the complete matching over the agent and pair dictionaries
// and returns up to MaxResults matches, best first. Agents enumerate in
// ascending id order, so runs are reproducible. Cancellation through ctx is
// cooperative, checked between assignments.
func (t *Template) Search(ctx context.Context, agents map[int]*block.Agent,
	pairs map[block.PairKey]*block.AgentPair, opts SearchOptions) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With().Str("run_id", runID).Logger()

	ordered := make([]*block.Agent, 0, len(agents))
	for _, agent := range agents {
		ordered = append(ordered, agent)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	k := len(t.Variables)
	symmetrical := t.Symmetrical()

	var total float64
	if symmetrical {
		total = countCombinations(len(ordered), k)
	} else {
		total = countPermutations(len(ordered), k)
	}

	logger.Info().
		Int("agents", len(agents)).
		Int("pairs", len(pairs)).
		Int("variables", k).
		Bool("symmetrical", symmetrical).
		Float64("assignments", total).
		Msg("search started")

	top := &topList{limit: opts.MaxResults, comparer: t.cfg.Comparer()}

	var processed, skippedViability atomic.Int64
	startedAt := time.Now()

	assignments := make(chan []*block.Agent)
	group, groupCtx := errgroup.WithContext(ctx)

	// Producer: stream the assignments, stopping on cancellation.
	group.Go(func() error {
		defer close(assignments)

		emit := func(indexes []int) bool {
			selection := make([]*block.Agent, len(indexes))
			for i, idx := range indexes {
				selection[i] = ordered[idx]
			}
			select {
			case assignments <- selection:
				return true
			case <-groupCtx.Done():
				return false
			}
		}

		if symmetrical {
			combinations(len(ordered), k, emit)
		} else {
			permutations(len(ordered), k, emit)
		}

		return nil
	})

	// Workers: evaluate assignments independently; shared state is the
	// top-K list and the progress counters only.
	lastPercent := new(atomic.Int64)
	lastPercent.Store(-1)
	for w := 0; w < opts.Workers; w++ {
		group.Go(func() error {
			for selection := range assignments {
				if err := groupCtx.Err(); err != nil {
					return err
				}

				results, skipped := t.evaluate(selection, pairs)
				if skipped {
					skippedViability.Add(1)
				}
				top.merge(results)

				done := processed.Add(1)
				logProgress(logger, top, done, total, startedAt, lastPercent)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	// Cooperative abort: a cancelled caller context outranks partial results.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked := top.reachable()

	logger.Info().
		Int64("considered", processed.Load()).
		Int64("skipped_viability", skippedViability.Load()).
		Int("results", len(ranked)).
		Dur("elapsed", time.Since(startedAt)).
		Msg("search finished")

	return ranked, nil
}

// reachable returns the ranking with unreachable results (evidence still
// +∞) removed.
func (l *topList) reachable() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]Result, 0, len(l.entries))
	for _, r := range l.entries {
		if math.IsInf(r.Confidence.Denom, 1) {
			continue
		}
		kept = append(kept, r)
	}

	return kept
}

// evaluate runs one assignment through viability, slicing, windowing and
// the time graph. skipped reports a viability rejection.
func (t *Template) evaluate(selection []*block.Agent, pairs map[block.PairKey]*block.AgentPair) (results []Result, skipped bool) {
	viable, start, end := t.checkViability(selection)
	if !viable {
		return nil, true
	}

	frame := core.TimeFrame{Start: start, End: end}

	sliced := make([]*block.Agent, len(selection))
	for i, agent := range selection {
		sliced[i] = agent.DuringTime(frame)
	}

	var slicedPairs []*block.AgentPair
	for _, actor := range selection {
		for _, target := range selection {
			if actor.ID == target.ID {
				continue
			}
			if pair, ok := pairs[block.PairKey{Actor: actor.ID, Target: target.ID}]; ok {
				slicedPairs = append(slicedPairs, pair.DuringTime(frame))
			}
		}
	}

	windows, err := block.CutToWindows(sliced, slicedPairs, block.DefaultWindowOptions())
	if err != nil || len(windows) == 0 {
		return nil, false
	}

	graph, err := t.Root.BuildGraph(t.Variables, windows, t.cfg)
	if err != nil {
		return nil, false
	}

	ids := make([]int, len(selection))
	for i, agent := range selection {
		ids[i] = agent.ID
	}

	for _, path := range graph.BestPaths(1) {
		results = append(results, Result{
			AgentIDs:   ids,
			Timestamps: path.Times,
			Confidence: path.Confidence,
		})
	}

	return results, false
}

// logProgress emits one line per whole percent of enumerated assignments,
// with a naive ETA and the current leader.
func logProgress(logger zerolog.Logger, top *topList, done int64, total float64, startedAt time.Time, lastPercent *atomic.Int64) {
	if total <= 0 {
		return
	}

	percent := int64(float64(done) * 100 / total)
	if percent <= lastPercent.Load() {
		return
	}
	lastPercent.Store(percent)

	elapsed := time.Since(startedAt)
	eta := time.Duration(float64(elapsed) / (float64(done) / total))

	event := logger.Debug().
		Int64("percent", percent).
		Dur("elapsed", elapsed).
		Dur("estimated_total", eta)
	if leader, ok := top.best(); ok {
		event = event.Str("best", leader.Confidence.String())
	}
	event.Msg("search progress")
}
