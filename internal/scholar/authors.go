// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// CitingAuthors reads a papers checkpoint and returns the union of all
// citing-author ids as the identifier list for the author fetch. Entries the
// server had no record for are skipped. The ids are sorted ascending so that
// resumed author runs see the same work-set order and reproduce the same
// batch boundaries.
func CitingAuthors(papersPath string) ([]string, error) {
	data, err := os.ReadFile(papersPath)
	if err != nil {
		return nil, fmt.Errorf("reading papers checkpoint %s: %w", papersPath, err)
	}

	papers := make(map[string]*struct {
		CitingAuthors []int64 `json:"citing_authors"`
	})
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, fmt.Errorf("parsing papers checkpoint %s: %w", papersPath, err)
	}

	seen := make(map[int64]bool)
	for _, paper := range papers {
		if paper == nil {
			continue
		}
		for _, id := range paper.CitingAuthors {
			seen[id] = true
		}
	}

	authors := make([]int64, 0, len(seen))
	for id := range seen {
		authors = append(authors, id)
	}
	sort.Slice(authors, func(i, j int) bool { return authors[i] < authors[j] })

	ids := make([]string, len(authors))
	for i, id := range authors {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return ids, nil
}
