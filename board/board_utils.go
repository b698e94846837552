package board

import (
	"fmt"
	"strings"
)

// ToDisplayText renders the board for a terminal. Empty cells show the
// number a human types to play there.
func (b *Board) ToDisplayText() string {
	var str strings.Builder
	n := b.dim
	width := len(fmt.Sprint(n * n))
	sep := strings.Repeat("-", width+2)
	for i := 0; i < n; i++ {
		str.WriteString(" ")
		for j := 0; j < n; j++ {
			m := b.cells[i*n+j]
			if m == Empty {
				fmt.Fprintf(&str, "%*d", width, i*n+j+1)
			} else {
				fmt.Fprintf(&str, "%*s", width, m.String())
			}
			if j < n-1 {
				str.WriteString(" | ")
			}
		}
		str.WriteString("\n")
		if i < n-1 {
			seps := make([]string, n)
			for j := range seps {
				seps[j] = sep
			}
			str.WriteString(strings.Join(seps, "+") + "\n")
		}
	}
	return str.String()
}
