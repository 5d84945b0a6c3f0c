package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rowscols/pkg/config"
	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/linescan"
	"github.com/ajitpratap0/rowscols/pkg/schema"
)

// Structure is the outcome of the structural pass.
type Structure struct {
	HasHeader    bool
	ColumnCount  int
	DataRowCount int
	TotalLines   int
	Warnings     []string
}

// AnalyzeStructure determines the column count, header presence and data
// row count of path in one streaming pass.
//
// The column count comes from line 1 only. In auto header mode line 1 is a
// header when it has fewer numeric-looking fields than line 2; a file with
// a single line has no header.
func (a *Analyzer) AnalyzeStructure(ctx context.Context, path string) (Structure, error) {
	sc, err := linescan.Open(path, a.cfg.Analysis.MaxLineBytes)
	if err != nil {
		return Structure{}, err
	}
	defer sc.Close()

	log := a.loggerFor(ctx)
	delim := a.cfg.Analysis.DelimiterRune()

	if !sc.Next() {
		if err := sc.Err(); err != nil {
			return Structure{}, err
		}
		return Structure{}, errors.Processing("file is empty", 1, -1).
			WithDetail(errors.DetailPath, path)
	}

	first := SplitFields(sc.Text(), delim)
	st := Structure{ColumnCount: len(first), TotalLines: 1}

	if sc.Next() {
		st.TotalLines++
		second := SplitFields(sc.Text(), delim)

		if len(second) != st.ColumnCount {
			msg := fmt.Sprintf("inconsistent column counts: line 1 has %d fields, line 2 has %d",
				len(first), len(second))
			log.Warn("inconsistent column counts detected",
				zap.Int("expected", st.ColumnCount),
				zap.Int("line_2_fields", len(second)))
			st.Warnings = append(st.Warnings, msg)
		}

		firstNumeric := schema.CountNumeric(first)
		secondNumeric := schema.CountNumeric(second)
		st.HasHeader = firstNumeric < secondNumeric
		log.Debug("header heuristic",
			zap.Int("line_1_numeric", firstNumeric),
			zap.Int("line_2_numeric", secondNumeric),
			zap.Bool("has_header", st.HasHeader))
	}

	for sc.Next() {
		if err := ctx.Err(); err != nil {
			return Structure{}, err
		}
		st.TotalLines++
	}
	if err := sc.Err(); err != nil {
		return Structure{}, err
	}

	switch a.cfg.Analysis.HeaderMode {
	case config.HeaderPresent:
		st.HasHeader = true
	case config.HeaderAbsent:
		st.HasHeader = false
	}

	st.DataRowCount = st.TotalLines
	if st.HasHeader {
		st.DataRowCount--
	}

	log.Debug("structure analyzed",
		zap.Int("columns", st.ColumnCount),
		zap.Int("data_rows", st.DataRowCount),
		zap.Bool("has_header", st.HasHeader))
	return st, nil
}
