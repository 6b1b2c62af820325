package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"trackdash/table"
)

// Count is the number of rows holding one value.
type Count struct {
	Value string
	N     int
}

// ValueCounts counts the distinct non-missing values, most frequent
// first. Ties keep the order in which values first appear.
func ValueCounts(values []string, missing []bool) []Count {
	index := make(map[string]int)
	counts := make([]Count, 0)
	for i, v := range values {
		if missing != nil && missing[i] {
			continue
		}
		j, ok := index[v]
		if !ok {
			j = len(counts)
			index[v] = j
			counts = append(counts, Count{Value: v})
		}
		counts[j].N++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].N > counts[j].N
	})
	return counts
}

// TopN returns the first n elements of xs, or xs if it is shorter.
func TopN[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

// GroupValue is the mean of a numeric column over one group.
type GroupValue struct {
	Key  string
	Mean float64
	N    int
}

// GroupMean averages vals grouped by keys, skipping missing keys and
// NaN values. Groups without any value are dropped. The result is in
// order of first appearance of each key.
func GroupMean(keys []string, keyMissing []bool, vals []float64) []GroupValue {
	index := make(map[string]int)
	groups := make([]GroupValue, 0)
	sums := make([][]float64, 0)
	for i, k := range keys {
		if keyMissing != nil && keyMissing[i] {
			continue
		}
		if math.IsNaN(vals[i]) {
			continue
		}
		j, ok := index[k]
		if !ok {
			j = len(groups)
			index[k] = j
			groups = append(groups, GroupValue{Key: k})
			sums = append(sums, nil)
		}
		sums[j] = append(sums[j], vals[i])
	}
	for j := range groups {
		groups[j].N = len(sums[j])
		groups[j].Mean = stat.Mean(sums[j], nil)
	}
	return groups
}

// SortByMeanDesc orders groups by mean, highest first, stable on ties.
func SortByMeanDesc(groups []GroupValue) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Mean > groups[j].Mean
	})
}

// YearValue is the mean of a numeric column over one release year.
type YearValue struct {
	Year int
	Mean float64
}

// YearlyMean averages vals by year, ascending by year. NaN years or
// values are skipped.
func YearlyMean(years, vals []float64) []YearValue {
	byYear := make(map[int][]float64)
	for i, y := range years {
		if math.IsNaN(y) || math.IsNaN(vals[i]) {
			continue
		}
		byYear[int(y)] = append(byYear[int(y)], vals[i])
	}

	out := make([]YearValue, 0, len(byYear))
	for y, vs := range byYear {
		out = append(out, YearValue{Year: y, Mean: stat.Mean(vs, nil)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Matrix is a square correlation matrix. Values[i][j] is the
// correlation of Columns[i] and Columns[j].
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// Correlation computes the pairwise Pearson correlation of cols. Each
// pair uses the rows where both values are present. A pair with fewer
// than two such rows, or a constant column, gives NaN.
func Correlation(t *table.Table, cols []string) Matrix {
	data := make([][]float64, len(cols))
	for i, c := range cols {
		data[i] = t.Floats(c)
	}

	m := Matrix{Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
	}
	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pearson(data[i], data[j])
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

func pearson(a, b []float64) float64 {
	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// present drops NaN values.
func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
