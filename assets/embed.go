package assets

import (
	_ "embed"
	"strings"
)

//go:embed questions.txt
var questionsTxt string

// Questions returns the compiled-in check-in questions, one per line of
// questions.txt, in file order.
func Questions() []string {
	var out []string
	for _, line := range strings.Split(questionsTxt, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			out = append(out, q)
		}
	}
	return out
}
