package grid

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// SummaryMode says how the page summary cell gets its content.
type SummaryMode int

const (
	SummaryOff      SummaryMode = iota
	SummaryComputed             // Aggregated from row values
	SummaryLiteral              // Fixed text, never aggregated
)

// Summary is the page summary setting: off, computed, or a literal string.
type Summary struct {
	Mode SummaryMode
	Text string
}

// ComputedSummary aggregates row values with the column's SummaryFunc.
func ComputedSummary() Summary {
	return Summary{Mode: SummaryComputed}
}

// LiteralSummary renders text as the summary content.
func LiteralSummary(text string) Summary {
	return Summary{Mode: SummaryLiteral, Text: text}
}

// enabled reports whether the setting is truthy: computed, or a non-empty literal.
func (s Summary) enabled() bool {
	switch s.Mode {
	case SummaryComputed:
		return true
	case SummaryLiteral:
		return s.Text != ""
	}
	return false
}

// UnmarshalYAML accepts a boolean or a literal string.
func (s *Summary) UnmarshalYAML(unmarshal func(any) error) error {
	var on bool
	if err := unmarshal(&on); err == nil {
		if on {
			*s = ComputedSummary()
		} else {
			*s = Summary{}
		}
		return nil
	}

	var text string
	if err := unmarshal(&text); err != nil {
		return &ConfigurationError{Field: "page_summary", Message: "must be a boolean or a string"}
	}
	*s = LiteralSummary(text)
	return nil
}

// ShouldComputeSummary reports whether the column has a page summary at all,
// regardless of HidePageSummary.
func ShouldComputeSummary(col *CheckboxColumn) bool {
	return col.PageSummary.enabled()
}

// ShouldDisplaySummary reports whether the summary cell shows its content
// in the live grid.
func ShouldDisplaySummary(col *CheckboxColumn) bool {
	return ShouldComputeSummary(col) && !col.HidePageSummary
}

// NeedsAggregation reports whether rows must be fed into PageSummaryState.
// Literal summaries never aggregate.
func NeedsAggregation(col *CheckboxColumn) bool {
	return col.PageSummary.Mode == SummaryComputed
}

// SummaryFunc names the page summary aggregate.
type SummaryFunc string

const (
	SummarySum   SummaryFunc = "sum"
	SummaryCount SummaryFunc = "count"
	SummaryAvg   SummaryFunc = "avg"
	SummaryMax   SummaryFunc = "max"
	SummaryMin   SummaryFunc = "min"
)

// Valid reports whether f is a known aggregate.
func (f SummaryFunc) Valid() bool {
	switch f {
	case SummarySum, SummaryCount, SummaryAvg, SummaryMax, SummaryMin:
		return true
	}
	return false
}

// PageSummaryState accumulates page summary values for one page render.
// All aggregates are order independent, so rows may be added concurrently.
type PageSummaryState struct {
	mu   sync.Mutex
	accs map[string]*accumulator
}

type accumulator struct {
	sum   float64
	count int
	min   float64
	max   float64
}

// NewPageSummaryState returns an empty accumulator set.
func NewPageSummaryState() *PageSummaryState {
	return &PageSummaryState{accs: make(map[string]*accumulator)}
}

// Add records one row value for column.
func (s *PageSummaryState) Add(column string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accs[column]
	if !ok {
		s.accs[column] = &accumulator{sum: v, count: 1, min: v, max: v}
		return
	}
	acc.sum += v
	acc.count++
	acc.min = math.Min(acc.min, v)
	acc.max = math.Max(acc.max, v)
}

// Has reports whether any value was recorded for column.
func (s *PageSummaryState) Has(column string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accs[column]
	return ok
}

// Result returns the aggregate for column. The second value is false when
// no rows were recorded.
func (s *PageSummaryState) Result(column string, fn SummaryFunc) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accs[column]
	if !ok {
		return 0, false
	}
	switch fn {
	case SummaryCount:
		return float64(acc.count), true
	case SummaryAvg:
		return acc.sum / float64(acc.count), true
	case SummaryMax:
		return acc.max, true
	case SummaryMin:
		return acc.min, true
	default:
		return acc.sum, true
	}
}

// Accumulate feeds one row into state if the column aggregates. Exporters
// call it directly; the render pass calls it for every row.
func Accumulate(col *CheckboxColumn, state *PageSummaryState, ctx RenderContext) {
	if state == nil || !NeedsAggregation(col) {
		return
	}
	if col.Value == nil {
		state.Add(col.ID, 1)
		return
	}
	if v, ok := col.Value(ctx.Model, ctx.Key, ctx.Index); ok {
		state.Add(col.ID, v)
	}
}

// SummaryValue returns the summary content for consumers other than the
// live grid (exports). It ignores HidePageSummary. The second value is false
// when the column has no summary or nothing was accumulated.
func SummaryValue(col *CheckboxColumn, state *PageSummaryState) (string, bool) {
	switch {
	case !ShouldComputeSummary(col):
		return "", false
	case col.PageSummary.Mode == SummaryLiteral:
		return col.PageSummary.Text, true
	case state == nil:
		return "", false
	}

	v, ok := state.Result(col.ID, col.PageSummaryFunc)
	if !ok {
		return "", false
	}
	format := col.PageSummaryFormat
	if format == "" {
		format = "%g"
	}
	if strings.Contains(format, "%d") {
		return fmt.Sprintf(format, int64(v)), true
	}
	return fmt.Sprintf(format, v), true
}
