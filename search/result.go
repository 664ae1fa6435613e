package search

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/traceq/traceq/core"
)

// resultTimeLayout is the timestamp format of persisted result files,
// matching what downstream previewers parse.
const resultTimeLayout = "2006-01-02 15:04:05.000000"

// Prefixes identifying header columns in persisted result files.
const (
	agentColumnPrefix = "Agent "
	nodeColumnPrefix  = "Node "
)

// ErrBadResultFile indicates a result file whose shape does not match the
// persisted layout.
var ErrBadResultFile = errors.New("search: malformed result file")

// WriteResults persists ranked results as CSV:
//
//	Agent <var1>, …, Agent <vark>, Node <name1>, …, Node <nameh>,
//	Behavior end, Confidence nom, Confidence denom
//
// one row per result, timestamps in resultTimeLayout.
func WriteResults(w io.Writer, tpl *Template, results []Result) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(tpl.Variables)+len(tpl.Root.Children())+3)
	for _, v := range tpl.Variables {
		header = append(header, agentColumnPrefix+string(v))
	}
	for _, child := range tpl.Root.Children() {
		header = append(header, nodeColumnPrefix+child.String())
	}
	header = append(header, "Behavior end", "Confidence nom", "Confidence denom")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("search: writing result header: %w", err)
	}

	for _, result := range results {
		row := make([]string, 0, len(header))
		for _, id := range result.AgentIDs {
			row = append(row, strconv.Itoa(id))
		}
		for _, ts := range result.Timestamps {
			row = append(row, ts.Format(resultTimeLayout))
		}
		row = append(row,
			strconv.FormatFloat(result.Confidence.Nom, 'g', -1, 64),
			strconv.FormatFloat(result.Confidence.Denom, 'g', -1, 64),
		)
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("search: writing result row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// WriteResultsFile persists ranked results to a CSV file.
func WriteResultsFile(path string, tpl *Template, results []Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("search: creating result file: %w", err)
	}
	defer file.Close()

	if err := WriteResults(file, tpl, results); err != nil {
		return err
	}

	return file.Sync()
}

// ReadResults parses a persisted result file back into results plus the
// agent variable names and node labels recovered from the header.
func ReadResults(r io.Reader) (results []Result, agentLabels, nodeLabels []string, err error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: missing header", ErrBadResultFile)
	}

	for _, column := range header {
		switch {
		case strings.HasPrefix(column, agentColumnPrefix):
			agentLabels = append(agentLabels, strings.TrimPrefix(column, agentColumnPrefix))
		case strings.HasPrefix(column, nodeColumnPrefix):
			nodeLabels = append(nodeLabels, strings.TrimPrefix(column, nodeColumnPrefix))
		}
	}
	agentCount := len(agentLabels)
	// One timestamp per node plus the behavior end.
	timeCount := len(nodeLabels) + 1

	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, nil, fmt.Errorf("%w: %v", ErrBadResultFile, readErr)
		}
		if len(row) != agentCount+timeCount+2 {
			return nil, nil, nil, fmt.Errorf("%w: row holds %d fields, want %d",
				ErrBadResultFile, len(row), agentCount+timeCount+2)
		}

		ids := make([]int, agentCount)
		for i := 0; i < agentCount; i++ {
			ids[i], err = strconv.Atoi(row[i])
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: agent id %q", ErrBadResultFile, row[i])
			}
		}

		times := make([]time.Time, timeCount)
		for i := 0; i < timeCount; i++ {
			times[i], err = time.Parse(resultTimeLayout, row[agentCount+i])
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%w: timestamp %q", ErrBadResultFile, row[agentCount+i])
			}
		}

		nom, err := strconv.ParseFloat(row[len(row)-2], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: confidence nom %q", ErrBadResultFile, row[len(row)-2])
		}
		denom, err := strconv.ParseFloat(row[len(row)-1], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%w: confidence denom %q", ErrBadResultFile, row[len(row)-1])
		}

		results = append(results, Result{
			AgentIDs:   ids,
			Timestamps: times,
			Confidence: core.Confidence{Nom: nom, Denom: denom},
		})
	}

	return results, agentLabels, nodeLabels, nil
}
