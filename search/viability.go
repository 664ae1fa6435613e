package search

import (
	"time"

	"github.com/traceq/traceq/block"
)

// checkViability reports whether the agent selection has enough temporal
// presence to satisfy the template's stage minimums, and if so, the time
// range worth evaluating: from the first window where stage one can begin
// to the last window where the final stage can end.
//
// Presence is the agents' outer span — intra-agent gaps are deliberately
// ignored, which may overestimate viability but never rejects a real match.
// Agents map to t.Variables in selection order.
func (t *Template) checkViability(agents []*block.Agent) (bool, time.Time, time.Time) {
	windows, err := block.Coverage(agents)
	if err != nil || len(windows) == 0 {
		return false, time.Time{}, time.Time{}
	}

	stageIdx := 0
	stageIndexes := t.variableIndexes(t.stageVars[stageIdx])
	stageTimeLeft := t.stageTimes[stageIdx]

	winIdx := 0
	winTimeLeft := windows[winIdx].Duration()

	viable := false
	for {
		// Every required variable must be present in the current window;
		// otherwise the stage restarts from the next window on.
		if !allPresent(windows[winIdx], stageIndexes) {
			stageTimeLeft = t.stageTimes[stageIdx]

			winIdx++
			if winIdx >= len(windows) {
				break
			}
			winTimeLeft = windows[winIdx].Duration()

			continue
		}

		shiftStage := stageTimeLeft <= winTimeLeft
		shiftWindow := stageTimeLeft >= winTimeLeft

		if shiftStage {
			winTimeLeft -= stageTimeLeft

			stageIdx++
			if stageIdx >= len(t.stageVars) {
				viable = true

				break
			}
			stageIndexes = t.variableIndexes(t.stageVars[stageIdx])
			stageTimeLeft = t.stageTimes[stageIdx]
		}

		if shiftWindow {
			stageTimeLeft -= winTimeLeft

			winIdx++
			if winIdx >= len(windows) {
				break
			}
			winTimeLeft = windows[winIdx].Duration()
		}
	}

	if !viable {
		return false, time.Time{}, time.Time{}
	}

	// The selection fits somewhere; bound the useful range by where the
	// first and last stages can possibly sit.
	firstIndexes := t.variableIndexes(t.stageVars[0])
	var start time.Time
	for _, w := range windows {
		if allPresent(w, firstIndexes) {
			start = w.Start

			break
		}
	}

	lastIndexes := t.variableIndexes(t.stageVars[len(t.stageVars)-1])
	var end time.Time
	for i := len(windows) - 1; i >= 0; i-- {
		if allPresent(windows[i], lastIndexes) {
			end = windows[i].End

			break
		}
	}

	return true, start, end
}

// allPresent reports whether every indexed agent is present in the window.
func allPresent(w block.CoverageWindow, indexes []int) bool {
	for _, idx := range indexes {
		if !w.Present[idx] {
			return false
		}
	}

	return true
}
