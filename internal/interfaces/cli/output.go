package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/aushadhiai/screening-console/internal/application/viewmodel"
	"github.com/aushadhiai/screening-console/internal/domain/potency"
	"github.com/aushadhiai/screening-console/internal/domain/ranking"
)

// screenOutput is the JSON form of a loaded screen.
type screenOutput[T any] struct {
	Screen     string            `json:"screen"`
	State      string            `json:"state"`
	Query      string            `json:"query"`
	Generation uint64            `json:"generation"`
	Sort       ranking.SortState `json:"sort"`
	Count      int               `json:"count"`
	Items      []T               `json:"items"`
	ErrorCode  string            `json:"error_code,omitempty"`
}

// renderer turns one record into table cells.  detail, when set, adds an
// indented block under the record in text output.
type renderer[T any] struct {
	title   string
	headers []string
	cells   func(item T, paint painter) []string
	detail  func(item T) string
}

// painter colours a cell by a palette name such as "green" or "red".
type painter func(s, palette string) string

func newPainter(enabled bool) painter {
	if !enabled {
		return func(s, _ string) string { return s }
	}
	palette := map[string]*color.Color{
		"green":  color.New(color.FgGreen),
		"yellow": color.New(color.FgYellow),
		"blue":   color.New(color.FgBlue),
		"red":    color.New(color.FgRed),
		"gray":   color.New(color.FgHiBlack),
	}
	for _, c := range palette {
		c.EnableColor()
	}
	return func(s, name string) string {
		if c, ok := palette[name]; ok {
			return c.Sprint(s)
		}
		return s
	}
}

// colorEnabled reports whether text output should carry ANSI colours:
// never with --no-color, otherwise when fatih/color detected a terminal.
func colorEnabled(noColor bool) bool {
	return !noColor && !color.NoColor
}

func printScreen[T any](w io.Writer, format string, noColor bool, v viewmodel.View[T], r renderer[T]) error {
	switch format {
	case OutputJSON:
		out := screenOutput[T]{
			Screen:     v.Screen,
			State:      v.State.String(),
			Query:      v.Param,
			Generation: v.Generation,
			Sort:       v.Sort,
			Count:      len(v.Items),
			Items:      v.Items,
			ErrorCode:  string(v.ErrCode),
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case OutputTable:
		if len(v.Items) == 0 {
			return printEmpty(w, v.Param)
		}
		plain := newPainter(false)
		rows := make([][]string, 0, len(v.Items))
		for i, item := range v.Items {
			rows = append(rows, append([]string{strconv.Itoa(i + 1)}, r.cells(item, plain)...))
		}
		_, err := io.WriteString(w, FormatTable(append([]string{"#"}, r.headers...), rows))
		return err

	default:
		if len(v.Items) == 0 {
			return printEmpty(w, v.Param)
		}
		paint := newPainter(colorEnabled(noColor))
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s for %q: %d %s%s\n", r.title, v.Param, len(v.Items), plural(len(v.Items), "result", "results"), sortSuffix(v.Sort))
		for i, item := range v.Items {
			fmt.Fprintf(&sb, "%3d. %s\n", i+1, strings.Join(r.cells(item, paint), "  "))
			if r.detail != nil {
				if d := strings.TrimSpace(r.detail(item)); d != "" {
					for _, line := range strings.Split(d, "\n") {
						fmt.Fprintf(&sb, "     %s\n", line)
					}
				}
			}
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

func printEmpty(w io.Writer, param string) error {
	_, err := fmt.Fprintf(w, "No results for %q.\n", param)
	return err
}

func sortSuffix(s ranking.SortState) string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf(" (by %s, %s)", s.Field, s.Direction)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func formatIC50(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " nM"
}

func tierCell(ic50 float64, paint painter) string {
	t := potency.Classify(ic50)
	return paint(t.Label(), t.Color())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
