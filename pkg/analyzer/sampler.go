package analyzer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/linescan"
	"github.com/ajitpratap0/rowscols/pkg/schema"
)

// SampleColumns re-reads path and builds one ColumnInfo per column from at
// most SampleRows data rows.
//
// Header names are taken verbatim from the header row; positions the header
// does not cover get a placeholder. Fields beyond columnCount are ignored
// and missing fields are counted neither empty nor non-empty; each short
// row is logged as a warning.
func (a *Analyzer) SampleColumns(ctx context.Context, path string, hasHeader bool, columnCount int) ([]schema.ColumnInfo, error) {
	columns, _, err := a.sample(ctx, path, hasHeader, columnCount)
	return columns, err
}

func (a *Analyzer) sample(ctx context.Context, path string, hasHeader bool, columnCount int) ([]schema.ColumnInfo, []string, error) {
	sc, err := linescan.Open(path, a.cfg.Analysis.MaxLineBytes)
	if err != nil {
		return nil, nil, err
	}
	defer sc.Close()

	log := a.loggerFor(ctx)
	delim := a.cfg.Analysis.DelimiterRune()

	columns := make([]schema.ColumnInfo, columnCount)
	for i := range columns {
		columns[i] = schema.ColumnInfo{
			Index:        i,
			Name:         schema.PlaceholderName(i),
			SampleValues: []string{},
		}
	}

	if hasHeader {
		if !sc.Next() {
			if err := sc.Err(); err != nil {
				return nil, nil, err
			}
			return nil, nil, errors.Processing("expected a header row but the file is empty", 1, -1).
				WithDetail(errors.DetailPath, path)
		}
		names := SplitFields(sc.Text(), delim)
		for i := 0; i < columnCount && i < len(names); i++ {
			columns[i].Name = names[i]
		}
	}

	var warnings []string
	rows := 0
	for rows < a.cfg.Analysis.SampleRows && sc.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rows++

		fields := SplitFields(sc.Text(), delim)
		if len(fields) < columnCount {
			warnings = append(warnings, fmt.Sprintf("line %d has %d of %d fields; missing fields are not counted",
				sc.Line(), len(fields), columnCount))
			log.Warn("short row sampled",
				zap.Int("line", sc.Line()),
				zap.Int("expected", columnCount),
				zap.Int("fields", len(fields)))
		}
		for i := 0; i < columnCount && i < len(fields); i++ {
			value := strings.TrimSpace(fields[i])
			col := &columns[i]
			if value == "" {
				col.EmptyCount++
				continue
			}
			col.NonEmptyCount++
			if len(col.SampleValues) < schema.MaxSampleValues {
				col.SampleValues = append(col.SampleValues, value)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	for i := range columns {
		columns[i].DetectedType = schema.Classify(columns[i].SampleValues)
	}

	log.Debug("columns sampled",
		zap.Int("rows_sampled", rows),
		zap.Int("columns", columnCount))
	return columns, warnings, nil
}
