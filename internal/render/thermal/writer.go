package thermal

import "strings"

type writer struct {
	width int
	b     strings.Builder
}

func (w *writer) String() string { return w.b.String() }

// line writes s, cut at the width. Callers pass pre-fitted text.
func (w *writer) line(s string) {
	if len(s) > w.width {
		s = s[:w.width]
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) rule() {
	w.line(strings.Repeat("-", w.width))
}

func (w *writer) center(s string) {
	for _, part := range wrap(s, w.width) {
		pad := (w.width - len(part)) / 2
		w.line(strings.Repeat(" ", pad) + part)
	}
}

// field writes "Label: value", wrapping the value onto following lines.
func (w *writer) field(label, value string) {
	w.wrapped(label + ": " + value)
}

// row writes label left-aligned and value right-aligned on one line. When
// both do not fit the label goes on its own line and the value below it;
// a value wider than the paper continues on following lines. Values are
// never cut.
func (w *writer) row(label, value string) {
	if len(label)+1+len(value) <= w.width {
		w.line(label + strings.Repeat(" ", w.width-len(label)-len(value)) + value)
		return
	}
	if label != "" {
		w.wrapped(label)
	}
	for len(value) > w.width {
		w.line(value[:w.width])
		value = value[w.width:]
	}
	w.line(strings.Repeat(" ", w.width-len(value)) + value)
}

// wrapped writes s over as many lines as it needs.
func (w *writer) wrapped(s string) {
	for _, part := range wrap(s, w.width) {
		w.line(part)
	}
}

// item writes a line item; long names wrap and the amount goes on the last
// line when it fits there, otherwise on a line of its own.
func (w *writer) item(name, amount string) {
	parts := wrap(name, w.width)
	last := parts[len(parts)-1]
	for _, p := range parts[:len(parts)-1] {
		w.line(p)
	}
	if len(last)+1+len(amount) <= w.width {
		w.row(last, amount)
		return
	}
	w.line(last)
	w.row("", amount)
}

// wrap breaks s into lines of at most width, preferring spaces.
func wrap(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}
	var out []string
	for len(s) > width {
		cut := strings.LastIndexByte(s[:width+1], ' ')
		if cut <= 0 {
			cut = width
		}
		out = append(out, strings.TrimRight(s[:cut], " "))
		s = strings.TrimLeft(s[cut:], " ")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
