package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestAnalyzeSmallMixedTable(t *testing.T) {
	p := writeCSV(t, "small.csv", "a,b,c\n1,4,x\n2,5,y\n3,6,x\n")

	tbl, sum, err := Analyze(p, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, tbl)

	assert.Equal(t, "small.csv", sum.Name)
	assert.Equal(t, 3, sum.NumRows)
	assert.Equal(t, 3, sum.NumColumns)
	assert.Equal(t, []string{"a", "b", "c"}, sum.ColumnNames)
	if diff := cmp.Diff(map[string]int{"a": 0, "b": 0, "c": 0}, sum.MissingValues); diff != "" {
		t.Fatalf("missing values mismatch (-want +got):\n%s", diff)
	}
	want := Partition{Numeric: []string{"a", "b"}, Categorical: []string{"c"}}
	if diff := cmp.Diff(want, sum.Partition); diff != "" {
		t.Fatalf("partition mismatch (-want +got):\n%s", diff)
	}

	a := sum.Stats["a"]
	require.NotNil(t, a.Numeric)
	assert.Equal(t, KindInt, a.Kind)
	assert.Equal(t, 3, a.Count)
	assert.InDelta(t, 2.0, a.Numeric.Mean, 1e-12)
	assert.InDelta(t, 1.0, a.Numeric.Std, 1e-12)
	assert.InDelta(t, 1.5, a.Numeric.Q25, 1e-12)
	assert.InDelta(t, 2.0, a.Numeric.Q50, 1e-12)
	assert.InDelta(t, 2.5, a.Numeric.Q75, 1e-12)

	c := sum.Stats["c"]
	require.NotNil(t, c.Categorical)
	assert.Equal(t, CategoricalStats{Unique: 2, Top: "x", Freq: 2}, *c.Categorical)
	assert.Equal(t, []CategoryCount{{"x", 2}, {"y", 1}}, CountValues(tbl.Values("c")))
}

func TestMissingValuesCountNullCells(t *testing.T) {
	body := strings.Join([]string{
		"id,score,label,note",
		"1,1.5,a,",
		"2,,b,NA",
		"3,2.5,,n/a",
		"4,NaN,a,",
		"5,3.0,null,ok",
	}, "\n")
	p := writeCSV(t, "gaps.csv", body)
	tbl, sum, err := Analyze(p, DefaultOptions())
	require.NoError(t, err)

	want := map[string]int{"id": 0, "score": 2, "label": 2, "note": 4}
	if diff := cmp.Diff(want, sum.MissingValues); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
	for _, name := range sum.ColumnNames {
		nulls := 0
		for _, m := range tbl.Missing(name) {
			if m {
				nulls++
			}
		}
		assert.Equal(t, nulls, sum.MissingValues[name], name)
		assert.Equal(t, sum.NumRows-nulls, sum.Stats[name].Count, name)
	}
	score := sum.Stats["score"]
	assert.Equal(t, KindFloat, score.Kind)
	assert.InDelta(t, 7.0/3.0, score.Numeric.Mean, 1e-12)
	assert.Equal(t, []string{"a", "b", "a"}, tbl.Values("label"))
}

func TestClassifyBoolIsOtherAndEmptyIsNumeric(t *testing.T) {
	body := "flag,empty,name,x\ntrue,,foo,1\nfalse,,bar,2\ntrue,,foo,3\n"
	tbl, err := ReadTable(strings.NewReader(body), "flags.csv", ',')
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, KindBool, kinds["flag"])
	assert.Equal(t, KindFloat, kinds["empty"])
	k, ok := tbl.Kind("x")
	assert.True(t, ok)
	assert.True(t, k.IsNumeric())
	_, ok = tbl.Kind("absent")
	assert.False(t, ok)

	p := Classify(tbl)
	assert.Equal(t, []string{"empty", "x"}, p.Numeric)
	assert.Equal(t, []string{"name"}, p.Categorical)
	assert.Equal(t, []string{"flag"}, p.Other)

	sum := Summarize(tbl, DefaultOptions())
	flag := sum.Stats["flag"]
	require.NotNil(t, flag.Categorical)
	assert.Equal(t, 2, flag.Categorical.Unique)
	assert.Equal(t, 2, flag.Categorical.Freq)
	assert.Equal(t, 3, sum.MissingValues["empty"])
	empty := sum.Stats["empty"]
	require.NotNil(t, empty.Numeric)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Numeric.Mean))
}

func TestReadTableTrimsPaddedCells(t *testing.T) {
	body := "name, score, pages\nA, 4.1, 300\nB , 3.9,250 \n"
	tbl, err := ReadTable(strings.NewReader(body), "padded.csv", ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score", "pages"}, tbl.Names())
	p := Classify(tbl)
	assert.Equal(t, []string{"score", "pages"}, p.Numeric)
	assert.Equal(t, []string{"name"}, p.Categorical)
	assert.Equal(t, []string{"A", "B"}, tbl.Values("name"))
	assert.Equal(t, []float64{300, 250}, tbl.Floats("pages"))
}

func TestReadTableHeaderOnly(t *testing.T) {
	p := writeCSV(t, "header.csv", "a,b,c\n")
	tbl, sum, err := Analyze(p, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumColumns())
	assert.Equal(t, 0, sum.NumRows)
	assert.Equal(t, []string{"a", "b", "c"}, sum.ColumnNames)
	for _, name := range sum.ColumnNames {
		assert.Equal(t, 0, sum.MissingValues[name], name)
	}
	assert.Empty(t, sum.Partition.Numeric)
	assert.Empty(t, sum.Partition.Categorical)

	_, err = ReadTable(strings.NewReader(""), "blank.csv", ',')
	assert.Error(t, err)
}

func TestReadTableCapitalizedBooleans(t *testing.T) {
	body := "flag,shout,mixed,n\nTrue,TRUE,True,1\nFalse,FALSE,maybe,2\n,TRUE,False,3\n"
	tbl, err := ReadTable(strings.NewReader(body), "bools.csv", ',')
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, c := range tbl.Columns() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, KindBool, kinds["flag"])
	assert.Equal(t, KindBool, kinds["shout"])
	assert.Equal(t, KindText, kinds["mixed"])
	assert.Equal(t, []string{"True", "maybe", "False"}, tbl.Values("mixed"))

	p := Classify(tbl)
	assert.Equal(t, []string{"mixed"}, p.Categorical)
	assert.Equal(t, []string{"flag", "shout"}, p.Other)

	sum := Summarize(tbl, DefaultOptions())
	assert.Equal(t, 1, sum.MissingValues["flag"])
	assert.Equal(t, 2, sum.Stats["flag"].Count)
}

func TestCategoricalTopPrefersFirstSeenOnTie(t *testing.T) {
	cs := describeLabels([]string{"b", "a", "a", "b", "c"})
	assert.Equal(t, CategoricalStats{Unique: 3, Top: "b", Freq: 2}, *cs)
}

func TestDescribeNumericSingleValueHasNaNStd(t *testing.T) {
	ns := describeNumeric([]float64{math.NaN(), 7}, DefaultOptions())
	assert.Equal(t, 7.0, ns.Mean)
	assert.True(t, math.IsNaN(ns.Std))
	assert.Equal(t, 7.0, ns.Min)
	assert.Equal(t, 7.0, ns.Max)
	assert.Equal(t, 0.0, ns.OutlierThreshold)

	b, err := json.Marshal(ns)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"std":null`)
	assert.Contains(t, string(b), `"50%":7`)
}

func TestOutlierCountRobustZ(t *testing.T) {
	vals := []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50}
	ns := describeNumeric(vals, DefaultOptions())
	assert.Equal(t, 1, ns.Outliers)
	assert.Equal(t, 3.5, ns.OutlierThreshold)

	flat := describeNumeric([]float64{1, 1, 1, 1, 1, 1, 1, 1, 9}, DefaultOptions())
	assert.Equal(t, 0, flat.Outliers, "zero MAD yields no outliers")
}

func TestQuantileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	cases := map[float64]float64{0: 1, 0.25: 1.75, 0.5: 2.5, 0.75: 3.25, 1: 4}
	for q, want := range cases {
		if got := quantile(sorted, q); !almostEqual(got, want, 1e-12) {
			t.Errorf("quantile(%v) = %v, want %v", q, got, want)
		}
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		t.Errorf("expected NaN for empty input")
	}
}

func TestCorrelationsPairwiseComplete(t *testing.T) {
	body := strings.Join([]string{
		"x,y,z,k",
		"1,2,10,5",
		"2,4,8,5",
		"3,6,6,5",
		"4,,4,5",
		",10,2,5",
	}, "\n")
	tbl, err := ReadTable(strings.NewReader(body), "corr.csv", ',')
	require.NoError(t, err)

	m := Correlations(tbl, []string{"x", "y", "z", "k"})
	require.Len(t, m.Values, 4)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
	}
	xy, ok := m.At("x", "y")
	require.True(t, ok)
	assert.InDelta(t, 1.0, xy, 1e-12)
	xz, _ := m.At("x", "z")
	assert.InDelta(t, -1.0, xz, 1e-12)
	yz, _ := m.At("z", "y")
	assert.InDelta(t, -1.0, yz, 1e-12)
	xk, _ := m.At("x", "k")
	assert.True(t, math.IsNaN(xk), "constant column correlates as NaN")
	_, ok = m.At("x", "missing")
	assert.False(t, ok)
}

func TestLoadTableTSVAndErrors(t *testing.T) {
	p := writeCSV(t, "tabbed.tsv", "a\tb\n1\tq\n2\tr\n")
	tbl, err := LoadTable(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
	assert.Equal(t, 2, tbl.NumRows())

	_, err = LoadTable(filepath.Join(t.TempDir(), "nope.csv"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := writeCSV(t, "bad.csv", "a,b\n1,2,3\n")
	_, err = LoadTable(bad)
	require.Error(t, err)
	assert.True(t, errors.As(err, &le))
}

func TestSummaryRenderings(t *testing.T) {
	p := writeCSV(t, "media.csv", "title,rating,votes\nA,4.5,10\nB,3.0,\nA,5.0,30\n")
	_, sum, err := Analyze(p, DefaultOptions())
	require.NoError(t, err)

	md := sum.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: media.csv",
		"Rows: 3",
		"Columns: 3",
		"- title: text (non-null 3, missing 0, 0.0%) — unique 2, top A (2)",
		"- votes: int (non-null 2, missing 1, 33.3%)",
		"- numeric: rating, votes",
		"- categorical: title",
		"- other: (none)",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}

	b, err := sum.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 3, decoded["num_rows"])
	assert.Contains(t, decoded, "summary_stats")

	var sb strings.Builder
	sum.WriteTable(&sb)
	out := sb.String()
	assert.Contains(t, out, "rating")
	assert.Contains(t, out, "unique")
}
