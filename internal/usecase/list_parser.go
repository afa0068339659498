package usecase

import "strings"

// ParseItems splits a raw multi-line grocery list into trimmed items,
// dropping blank lines. Order is preserved; the pipeline produces exactly
// one outcome per returned item.
func ParseItems(text string) []string {
	lines := strings.Split(text, "\n")

	items := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.TrimSpace(line)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	return items
}
