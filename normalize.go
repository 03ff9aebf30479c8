package fsm

import "strings"

// Normalize inserts the explicit concatenation operator '.' between two adjacent
// runes of pattern whenever no operator already relates them. Nothing is
// inserted after '|', '(' or '.', nor before '|', '*', '+', ')' or '.'.
// Postfix operators end an operand, so "ab*c" becomes "a.b*.c". Normalizing an
// already normalized pattern returns it unchanged.
func Normalize(pattern string) string {
	normalized, _ := normalize(pattern)
	return normalized
}

// normalize also returns, for every rune of the result, the index of the
// pattern rune it came from. An inserted '.' maps to the rune that follows it.
func normalize(pattern string) (string, []int) {
	runes := []rune(pattern)
	if len(runes) == 0 {
		return "", nil
	}

	b := new(strings.Builder)
	b.Grow(len(pattern) * 2)
	origin := make([]int, 0, len(runes)*2)

	for i, cur := range runes {
		b.WriteRune(cur)
		origin = append(origin, i)
		if i+1 == len(runes) {
			break
		}
		next := runes[i+1]
		if strings.ContainsRune("|(.", cur) || strings.ContainsRune("|*+).", next) {
			continue
		}
		b.WriteRune(opConcat)
		origin = append(origin, i+1)
	}
	return b.String(), origin
}
