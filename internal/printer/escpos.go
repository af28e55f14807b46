package printer

import (
	"bytes"
	"strings"
)

const (
	esc byte = 0x1B
	gs  byte = 0x1D
	lf  byte = 0x0A
)

// feedLines is the blank paper fed before the cut so the last line clears
// the cutter.
const feedLines = 4

// encode frames text for an ESC/POS receipt printer: reset, the filtered
// lines, a paper feed and a partial cut. Only the commands the receipt flow
// needs are emitted.
func encode(text string, maxLine int) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{esc, '@'})

	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		buf.WriteString(filterLine(line, maxLine))
		buf.WriteByte(lf)
	}

	buf.Write([]byte{esc, 'd', feedLines})
	buf.Write([]byte{gs, 'V', 1})
	return buf.Bytes()
}
