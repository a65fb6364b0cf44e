// Package smiles provides lightweight validation of SMILES molecular
// notation strings as returned by chemical lookup services.
//
// The checks are structural, not chemical: a string that passes Valid is
// plausible SMILES, not necessarily a parseable molecule. That is enough to
// reject truncated responses, HTML error pages, and other garbage before it
// is written into a dataset.
package smiles

// MinLength is the shortest string accepted as a SMILES identifier.
const MinLength = 3

// Valid reports whether s is a plausible SMILES string.
//
// A string is accepted when it is at least MinLength characters long, every
// character belongs to the SMILES alphabet (ASCII letters, digits, and the
// symbols ()[]@+-=#/\.), and parentheses and square brackets are individually
// balanced.
func Valid(s string) bool {
	if len(s) < MinLength {
		return false
	}

	parens := 0
	brackets := 0

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			// atoms, ring closures
		case c == '(':
			parens++
		case c == ')':
			parens--
		case c == '[':
			brackets++
		case c == ']':
			brackets--
		case c == '@', c == '+', c == '-', c == '=', c == '#', c == '/', c == '\\', c == '.':
			// stereo, charge, bonds, disconnected fragments
		default:
			return false
		}
	}

	return parens == 0 && brackets == 0
}
