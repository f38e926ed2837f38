package history

import "slices"

// pushFront inserts v at the head of s and drops tail entries beyond limit.
func pushFront[T any](s []T, v T, limit int) []T {
	s = slices.Insert(s, 0, v)
	if len(s) > limit {
		clear(s[limit:])
		s = s[:limit]
	}
	return s
}

// firstN returns a copy of the first min(n, len(s)) entries.
func firstN[T any](s []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	out := make([]T, min(n, len(s)))
	copy(out, s)
	return out
}

// head returns the first n runes of s.
func head(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// tail returns the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// prefix returns the runes of s before cursor, clamped to [0, len].
func prefix(s string, cursor int) string {
	if cursor <= 0 {
		return ""
	}
	return head(s, cursor)
}
