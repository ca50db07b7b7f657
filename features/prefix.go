package features

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Bundle holds one value per requested feature for a sentence pair.
type Bundle map[Name]float64

// Names returns the features of b in alphabetical order.
func (b Bundle) Names() []Name {
	return slices.Sorted(maps.Keys(b))
}

// Subset returns a copy of b restricted to names. Missing names are skipped.
func (b Bundle) Subset(names []Name) Bundle {
	out := make(Bundle, len(names))
	for _, n := range names {
		if v, ok := b[n]; ok {
			out[n] = v
		}
	}
	return out
}

// Round rounds v to two decimals, half to even on exact halves.
func Round(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// FormatValue renders v the way control tokens carry it: rounded to two
// decimals, always with a fractional part ("0.3", "1.0", "0.85").
func FormatValue(v float64) string {
	s := strconv.FormatFloat(Round(v), 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatPrefix renders b as control tokens in alphabetical feature order, each
// followed by a single space, e.g. "<MaxDep_0.3> <Leven_0.8> ".
func FormatPrefix(b Bundle) string {
	var sb strings.Builder
	for _, n := range b.Names() {
		sb.WriteByte('<')
		sb.WriteString(n.Token())
		sb.WriteByte('_')
		sb.WriteString(FormatValue(b[n]))
		sb.WriteString("> ")
	}
	return sb.String()
}

// ParsePrefix reads the leading control tokens of line and returns them with
// the rest of the sentence. A line without control tokens yields an empty bundle.
func ParsePrefix(line string) (Bundle, string, error) {
	b := Bundle{}
	rest := strings.TrimLeft(line, " ")
	for strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			break
		}
		tok := rest[1:end]
		name, value, ok := strings.Cut(tok, "_")
		if !ok {
			break
		}
		n, known := NameForToken(name)
		if !known {
			return nil, "", fmt.Errorf("%w: <%s>", ErrUnknownFeature, tok)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, "", fmt.Errorf("%w: <%s>", ErrMalformedToken, tok)
		}
		b[n] = v
		rest = strings.TrimLeft(rest[end+1:], " ")
	}
	return b, rest, nil
}
