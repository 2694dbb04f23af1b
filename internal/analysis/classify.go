package analysis

// Partition splits a table's column names by how they can be visualized.
// Each slice keeps header order.
type Partition struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
	Other       []string `json:"other"`
}

// Classify partitions columns into numeric, categorical and other.
// Columns without any value load as floats and count as numeric; boolean
// columns fall into Other.
func Classify(t *Table) Partition {
	var p Partition
	for _, c := range t.cols {
		switch {
		case c.Kind.IsNumeric():
			p.Numeric = append(p.Numeric, c.Name)
		case c.Kind == KindText && nonNull(t.Missing(c.Name)) > 0:
			p.Categorical = append(p.Categorical, c.Name)
		default:
			p.Other = append(p.Other, c.Name)
		}
	}
	return p
}

func nonNull(mask []bool) int {
	n := 0
	for _, m := range mask {
		if !m {
			n++
		}
	}
	return n
}
