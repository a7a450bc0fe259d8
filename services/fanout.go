package services

import "unicode/utf8"

const previewLen = 50

// preview returns the first 50 characters of s followed by "..." when s is
// longer than that, and s unchanged otherwise.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "..."
}

// recipients merges candidate ids in order, dropping duplicates, zero ids
// and the excluded author.
func recipients(author uint, candidates ...uint) []uint {
	seen := map[uint]struct{}{author: {}}
	out := make([]uint, 0, len(candidates))
	for _, id := range candidates {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
