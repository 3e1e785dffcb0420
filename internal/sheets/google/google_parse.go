package google

import (
	"fmt"
	"strconv"
	"strings"

	"budgetbuddy/internal/core"
)

func transactionRow(t core.Transaction) []any {
	return []any{
		t.Date,
		t.Type.Title(),
		t.Category,
		core.FormatAmount(t.Amount),
		t.Note,
		t.ID,
	}
}

// parseMirroredIDs collects the positive integer ids of a single-column
// values matrix. The header and blank or hand-edited cells are skipped.
func parseMirroredIDs(values [][]any) map[int]bool {
	ids := make(map[int]bool, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(row[0]))
		id, err := strconv.Atoi(s)
		if err != nil {
			// USER_ENTERED numbers may come back formatted as floats
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil || f != float64(int(f)) {
				continue
			}
			id = int(f)
		}
		if id > 0 {
			ids[id] = true
		}
	}
	return ids
}
