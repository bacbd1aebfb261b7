package engage

import "strings"

// Probabilities for the human-touch pass.
const (
	typoChance     = 0.10
	ellipsisChance = 0.15
)

// humanize roughs up a reply so it reads like a person typed it: sometimes a
// single adjacent-character transposition in one word, sometimes trailing-off
// ellipses instead of full stops.
func (e *Engine) humanize(reply string) string {
	if !e.humanTouch {
		return reply
	}

	if e.rng.Float64() < typoChance {
		reply = transposeTypo(reply, e.rng.Intn)
	}

	if e.rng.Float64() < ellipsisChance {
		reply = strings.ReplaceAll(reply, ".", "...")
	}

	return reply
}

// transposeTypo swaps two adjacent characters in one word. The first word is
// never touched, and words of four characters or fewer are left alone so the
// reply stays legible.
func transposeTypo(s string, intn func(int) int) string {
	words := strings.Split(s, " ")
	if len(words) <= 3 {
		return s
	}

	idx := 1 + intn(len(words)-1)
	word := words[idx]
	if len(word) <= 4 {
		return s
	}

	pos := intn(len(word) - 1)
	b := []byte(word)
	b[pos], b[pos+1] = b[pos+1], b[pos]
	words[idx] = string(b)
	return strings.Join(words, " ")
}
