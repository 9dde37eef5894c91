package training

import (
	"math"

	"github.com/rcliao/trait-trainer/internal/model"
)

// Config holds the selection guidance shown to the operator. Only
// MinExamples is enforced, by Save refusing an empty selection.
type Config struct {
	MinExamples int
	OptimalMin  int
	OptimalMax  int
}

// DefaultConfig asks for 3 to 5 examples, at least 1.
func DefaultConfig() Config {
	return Config{MinExamples: 1, OptimalMin: 3, OptimalMax: 5}
}

// SelectionStatus grades a selection size.
type SelectionStatus struct {
	Count   int  `json:"count"`
	Valid   bool `json:"valid"`
	Optimal bool `json:"optimal"`
}

// Grade rates a selection of n examples.
func (c Config) Grade(n int) SelectionStatus {
	return SelectionStatus{
		Count:   n,
		Valid:   n >= c.MinExamples && n > 0,
		Optimal: n >= c.OptimalMin && n <= c.OptimalMax,
	}
}

// Progress is the position within the trait list.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// NewProgress computes progress with a rounded percentage, 0 when total is 0.
func NewProgress(current, total int) Progress {
	p := Progress{Current: current, Total: total}
	if total > 0 {
		p.Percentage = int(math.Round(float64(current) / float64(total) * 100))
	}
	return p
}

// Stats summarizes saved results.
type Stats struct {
	TotalTrained        int `json:"totalTrained"`
	TotalExamples       int `json:"totalExamples"`
	AvgExamplesPerTrait int `json:"avgExamplesPerTrait"`
}

// NewStats counts results and examples.
func NewStats(results map[string]model.TrainingResult) Stats {
	st := Stats{TotalTrained: len(results)}
	for _, r := range results {
		st.TotalExamples += len(r.Examples)
	}
	if st.TotalTrained > 0 {
		st.AvgExamplesPerTrait = int(math.Round(float64(st.TotalExamples) / float64(st.TotalTrained)))
	}
	return st
}
