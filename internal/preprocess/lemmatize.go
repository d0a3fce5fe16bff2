package preprocess

import "strings"

// Lemmatize applies a small suffix-stripping lemmatizer. It is a fallback
// in the loose sense most lightweight stemmers use: when no dictionary-backed
// lemmatizer is configured, it still reduces common inflections instead of
// acting as pure identity.
func Lemmatize(token string) string {
	if len(token) <= 3 {
		return token
	}

	switch {
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "ves") && len(token) > 4:
		return token[:len(token)-3] + "f"
	case strings.HasSuffix(token, "ing") && len(token) > 5:
		raw := token[:len(token)-3]
		if deg := degeminate(raw); deg != raw {
			return deg
		}
		return restoreSilentE(raw)
	case strings.HasSuffix(token, "ed") && len(token) > 4:
		raw := token[:len(token)-2]
		if deg := degeminate(raw); deg != raw {
			return deg
		}
		return restoreSilentE(raw)
	case strings.HasSuffix(token, "es") && len(token) > 4 && endsInSibilant(token[:len(token)-2]):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") && len(token) > 3:
		return token[:len(token)-1]
	default:
		return token
	}
}

func endsInSibilant(s string) bool {
	suffixes := []string{"s", "x", "z", "ch", "sh"}
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// restoreSilentE re-adds a dropped trailing "e" when the stem ends in a
// single consonant preceded by a single vowel (e.g. "clos" -> "close").
func restoreSilentE(stem string) string {
	if len(stem) < 2 {
		return stem
	}
	last := stem[len(stem)-1]
	secondLast := stem[len(stem)-2]
	if !isVowel(rune(last)) && isVowel(rune(secondLast)) {
		return stem + "e"
	}
	return stem
}

// degeminate collapses a trailing doubled consonant left behind by
// stripping "-ing"/"-ed" from a short-vowel stem (e.g. "runn" -> "run").
func degeminate(stem string) string {
	n := len(stem)
	if n < 3 {
		return stem
	}
	last := stem[n-1]
	if last == stem[n-2] && !isVowel(rune(last)) {
		return stem[:n-1]
	}
	return stem
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}
