package analysis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/autolysis/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// Markdown renders a compact report of the summary.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.NumRows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", s.NumColumns))

	b.WriteString("[SCHEMA]\n")
	for _, name := range s.ColumnNames {
		cs := s.Stats[name]
		miss := s.MissingValues[name]
		missPct := 0.0
		if s.NumRows > 0 {
			missPct = float64(miss) * 100.0 / float64(s.NumRows)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d, %.1f%%)", safeName(name), cs.Kind, cs.Count, miss, missPct))
		switch {
		case cs.Numeric != nil:
			n := cs.Numeric
			b.WriteString(fmt.Sprintf(" — mean %s, std %s, min %s, 25%% %s, 50%% %s, 75%% %s, max %s",
				num(n.Mean), num(n.Std), num(n.Min), num(n.Q25), num(n.Q50), num(n.Q75), num(n.Max)))
			if n.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", n.Outliers, n.OutlierThreshold))
			}
		case cs.Categorical != nil && cs.Count > 0:
			c := cs.Categorical
			b.WriteString(fmt.Sprintf(" — unique %d, top %s (%d)", c.Unique, safeVal(c.Top), c.Freq))
		}
		b.WriteString("\n")
	}

	p := s.Partition
	b.WriteString("\n[PARTITION]\n")
	b.WriteString(fmt.Sprintf("- numeric: %s\n", joinOrNone(p.Numeric)))
	b.WriteString(fmt.Sprintf("- categorical: %s\n", joinOrNone(p.Categorical)))
	b.WriteString(fmt.Sprintf("- other: %s\n", joinOrNone(p.Other)))
	return b.String()
}

// JSON renders the summary as indented JSON.
func (s *Summary) JSON() ([]byte, error) {
	return utils.PrettyJSON(s)
}

// WriteTable writes the descriptive statistics as a console table, one row
// per column.
func (s *Summary) WriteTable(w io.Writer) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"column", "kind", "count", "missing", "mean", "std", "min", "25%", "50%", "75%", "max", "unique", "top", "freq"})
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	for _, name := range s.ColumnNames {
		cs := s.Stats[name]
		row := []string{name, string(cs.Kind), strconv.Itoa(cs.Count), strconv.Itoa(s.MissingValues[name])}
		if n := cs.Numeric; n != nil {
			row = append(row, num(n.Mean), num(n.Std), num(n.Min), num(n.Q25), num(n.Q50), num(n.Q75), num(n.Max), "", "", "")
		} else if c := cs.Categorical; c != nil {
			row = append(row, "", "", "", "", "", "", "", strconv.Itoa(c.Unique), c.Top, strconv.Itoa(c.Freq))
		}
		tw.Append(row)
	}
	tw.Render()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
