// Package protein normalizes, truncates and validates amino-acid sequences
// against the 20-letter alphabet the classifier accepts.
package protein

import "strings"

// Alphabet is the 20 standard residues. Ambiguity codes (B J O X Z) are
// deliberately absent; selenocysteine (U) is rewritten to C before checking.
const Alphabet = "RKNDQEHPYWSTGAMCFLVI"

const (
	// MinMaxScan is the smallest accepted --max-scan.
	MinMaxScan = 16
	// DefaultMaxScan matches the classifier's default scan depth.
	DefaultMaxScan = 80
	// WindowPad residues are kept past max-scan so the last cleavage
	// candidate still has its downstream context.
	WindowPad = 15
)

var admissible [256]bool

func init() {
	for i := 0; i < len(Alphabet); i++ {
		admissible[Alphabet[i]] = true
	}
}

// Window is the number of leading residues kept and validated.
func Window(maxScan int) int { return maxScan + WindowPad }

// Admissible reports whether every byte of seq is in Alphabet.
// The empty string is admissible; emptiness is checked by Prepare.
func Admissible(seq string) bool {
	for i := 0; i < len(seq); i++ {
		if !admissible[seq[i]] {
			return false
		}
	}
	return true
}

// Normalize uppercases raw, rewrites U to C and truncates to Window(maxScan).
// The result is exactly the slice that Admissible must inspect.
func Normalize(raw string, maxScan int) string {
	s := strings.ToUpper(raw)
	s = strings.ReplaceAll(s, "U", "C")
	w := Window(maxScan)
	if w < 0 {
		w = 0
	}
	if len(s) > w {
		s = s[:w]
	}
	return s
}
