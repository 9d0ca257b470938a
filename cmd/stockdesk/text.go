package main

// truncate shortens s to at most width runes, ending in "..." when cut.
// Table cells hold accented product and customer names, so it never splits
// a multi-byte character.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
