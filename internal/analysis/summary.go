package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Options controls summary computation.
type Options struct {
	// OutlierThreshold is the robust |z| above which a value counts as an
	// outlier. Values <= 0 fall back to 3.5.
	OutlierThreshold float64
	// OutlierMinCount is the minimum number of values before outliers are
	// counted.
	OutlierMinCount int
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{OutlierThreshold: 3.5, OutlierMinCount: 8}
}

// Summary is the read-only analysis record of a Table.
type Summary struct {
	Name          string                 `json:"name"`
	NumRows       int                    `json:"num_rows"`
	NumColumns    int                    `json:"num_columns"`
	ColumnNames   []string               `json:"column_names"`
	MissingValues map[string]int         `json:"missing_values"`
	Stats         map[string]ColumnStats `json:"summary_stats"`
	Partition     Partition              `json:"partition"`
}

// ColumnStats holds descriptive statistics for one column. Exactly one of
// Numeric or Categorical is set.
type ColumnStats struct {
	Kind        Kind              `json:"kind"`
	Count       int               `json:"count"`
	Numeric     *NumericStats     `json:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty"`
}

// NumericStats mirrors the classic describe() block. Undefined values
// (for example Std of a single value) are NaN.
type NumericStats struct {
	Mean float64
	Std  float64
	Min  float64
	Q25  float64
	Q50  float64
	Q75  float64
	Max  float64
	// Robust outliers (median/MAD z-score); Threshold is 0 when not computed.
	Outliers         int
	OutlierThreshold float64
}

// CategoricalStats holds label statistics for non-numeric columns.
type CategoricalStats struct {
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// MarshalJSON writes NaN values as null.
func (n NumericStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mean             *float64 `json:"mean"`
		Std              *float64 `json:"std"`
		Min              *float64 `json:"min"`
		Q25              *float64 `json:"25%"`
		Q50              *float64 `json:"50%"`
		Q75              *float64 `json:"75%"`
		Max              *float64 `json:"max"`
		Outliers         int      `json:"outliers,omitempty"`
		OutlierThreshold float64  `json:"outlier_threshold,omitempty"`
	}{
		finite(n.Mean), finite(n.Std), finite(n.Min), finite(n.Q25),
		finite(n.Q50), finite(n.Q75), finite(n.Max),
		n.Outliers, n.OutlierThreshold,
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Analyze loads the file at path and computes its Summary.
func Analyze(path string, opt Options) (*Table, *Summary, error) {
	t, err := LoadTable(path)
	if err != nil {
		return nil, nil, err
	}
	return t, Summarize(t, opt), nil
}

// Summarize computes the Summary of an already loaded table.
func Summarize(t *Table, opt Options) *Summary {
	s := &Summary{
		Name:          t.Name,
		NumRows:       t.NumRows(),
		NumColumns:    t.NumColumns(),
		ColumnNames:   t.Names(),
		MissingValues: make(map[string]int, t.NumColumns()),
		Stats:         make(map[string]ColumnStats, t.NumColumns()),
		Partition:     Classify(t),
	}
	for _, c := range t.cols {
		mask := t.Missing(c.Name)
		miss := len(mask) - nonNull(mask)
		s.MissingValues[c.Name] = miss
		cs := ColumnStats{Kind: c.Kind, Count: len(mask) - miss}
		if c.Kind.IsNumeric() {
			cs.Numeric = describeNumeric(t.Floats(c.Name), opt)
		} else {
			cs.Categorical = describeLabels(t.Values(c.Name))
		}
		s.Stats[c.Name] = cs
	}
	return s
}

func describeNumeric(col []float64, opt Options) *NumericStats {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	nan := math.NaN()
	ns := &NumericStats{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	if len(vals) == 0 {
		return ns
	}
	ns.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		ns.Std = stat.StdDev(vals, nil)
	}
	ns.Min = floats.Min(vals)
	ns.Max = floats.Max(vals)
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	ns.Q25 = quantile(sorted, 0.25)
	ns.Q50 = quantile(sorted, 0.5)
	ns.Q75 = quantile(sorted, 0.75)

	minCount := opt.OutlierMinCount
	if minCount <= 0 {
		minCount = 8
	}
	if len(vals) >= minCount {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		ns.Outliers = countOutliers(vals, thr)
		ns.OutlierThreshold = thr
	}
	return ns
}

// countOutliers counts values whose robust z-score (0.6745*(x-median)/MAD)
// exceeds thr in absolute value. A zero MAD yields no outliers.
func countOutliers(vals []float64, thr float64) int {
	median, err := stats.Median(vals)
	if err != nil {
		return 0
	}
	mad, err := stats.MedianAbsoluteDeviationPopulation(vals)
	if err != nil || mad == 0 {
		return 0
	}
	cnt := 0
	for _, v := range vals {
		if math.Abs(0.6745*(v-median)/mad) > thr {
			cnt++
		}
	}
	return cnt
}

// describeLabels computes unique/top/freq. Ties for top go to the label
// seen first.
func describeLabels(vals []string) *CategoricalStats {
	counts := CountValues(vals)
	cs := &CategoricalStats{Unique: len(counts)}
	for _, kv := range counts {
		if kv.Count > cs.Freq {
			cs.Top = kv.Value
			cs.Freq = kv.Count
		}
	}
	return cs
}

// CategoryCount is a label with its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// CountValues counts labels in order of first appearance.
func CountValues(vals []string) []CategoryCount {
	idx := make(map[string]int)
	var out []CategoryCount
	for _, v := range vals {
		if i, ok := idx[v]; ok {
			out[i].Count++
			continue
		}
		idx[v] = len(out)
		out = append(out, CategoryCount{Value: v, Count: 1})
	}
	return out
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
