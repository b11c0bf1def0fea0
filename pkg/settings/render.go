package settings

import (
	"strconv"
	"strings"
)

type renderer struct {
	b strings.Builder
}

func (r *renderer) header(title string) {
	r.b.WriteString(title)
	r.b.WriteByte('\n')
}

func (r *renderer) line(label, value string) {
	r.b.WriteString(label)
	r.b.WriteString(": ")
	r.b.WriteString(value)
	r.b.WriteByte('\n')
}

func (r *renderer) String() string { return r.b.String() }

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func formatInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
