package checkpoint

import (
	"fmt"
	"sort"
	"strings"
)

// Key builds the checkpoint filename key for one logical pipeline run:
// "<doc-type>_<min-year>_<max-year>_<sorted-subtypes>". Subtypes are
// sorted so the same (type, years, subtypes) triple always resolves to
// the same file regardless of the order callers supplied them in.
func Key(docType string, years []int, subtypes []string) string {
	minYear, maxYear := years[0], years[0]
	for _, y := range years {
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	sorted := append([]string(nil), subtypes...)
	sort.Strings(sorted)

	parts := []string{docType, fmt.Sprintf("%d", minYear), fmt.Sprintf("%d", maxYear)}
	if len(sorted) > 0 {
		parts = append(parts, strings.Join(sorted, "-"))
	}
	return strings.Join(parts, "_")
}

// CombinationKey builds the "<type>_<year>" key used by
// IsCombinationComplete/MarkCombinationComplete.
func CombinationKey(docType string, year int) string {
	return fmt.Sprintf("%s_%d", docType, year)
}
