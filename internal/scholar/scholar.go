// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar holds the Semantic Scholar side of the pipeline: batch
// endpoint locations, query field specifications, and the transforms that
// reshape raw API records into the stored dataset shapes.
package scholar

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/pdiddy/citegraph/internal/batchquery"
	"github.com/pdiddy/citegraph/pkg/types"
)

// Batch endpoint locations. Declared as vars so tests can substitute an
// httptest server.
var (
	paperBatchAPIBase  = "https://api.semanticscholar.org/graph/v1/paper/batch"
	authorBatchAPIBase = "https://api.semanticscholar.org/graph/v1/author/batch"
)

// Query field specifications for the batch endpoints.
const (
	PaperFields  = "year,referenceCount,isOpenAccess,fieldsOfStudy,s2FieldsOfStudy,publicationTypes,authors,citations.year,citations.authors,references.authors"
	AuthorFields = "papers.year,papers.fieldsOfStudy,papers.s2FieldsOfStudy"
)

// PaperBatchURL returns the paper batch endpoint.
func PaperBatchURL() string { return paperBatchAPIBase }

// AuthorBatchURL returns the author batch endpoint.
func AuthorBatchURL() string { return authorBatchAPIBase }

// ArxivID formats an arXiv id the way the batch endpoint expects.
func ArxivID(id string) string { return "ARXIV:" + id }

// Semantic Scholar API JSON structures. Pointer fields distinguish null from
// zero in the payload.
type paperResponse struct {
	PaperID          string      `json:"paperId"`
	Year             *int        `json:"year"`
	ReferenceCount   int         `json:"referenceCount"`
	IsOpenAccess     bool        `json:"isOpenAccess"`
	FieldsOfStudy    []string    `json:"fieldsOfStudy"`
	S2FieldsOfStudy  []s2Field   `json:"s2FieldsOfStudy"`
	PublicationTypes []string    `json:"publicationTypes"`
	Authors          []authorRef `json:"authors"`
	Citations        []citation  `json:"citations"`
	References       []reference `json:"references"`
}

type s2Field struct {
	Category *string `json:"category"`
}

type authorRef struct {
	AuthorID *string `json:"authorId"`
}

type citation struct {
	Year    *int        `json:"year"`
	Authors []authorRef `json:"authors"`
}

type reference struct {
	Authors []authorRef `json:"authors"`
}

type authorResponse struct {
	Papers []struct {
		Year            *int      `json:"year"`
		FieldsOfStudy   []string  `json:"fieldsOfStudy"`
		S2FieldsOfStudy []s2Field `json:"s2FieldsOfStudy"`
	} `json:"papers"`
}

// PaperTransform returns the transform for paper batch records. A paper with
// no publication year carries no usable citation-window signal and is stored
// as absent. citationYears bounds how long after publication a citation still
// counts toward the citing-author set.
func PaperTransform(citationYears int) batchquery.Transform {
	return func(raw json.RawMessage) (any, error) {
		var p paperResponse
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parsing paper record: %w", err)
		}
		if p.Year == nil {
			return nil, nil
		}

		authors, err := authorIDs(p.Authors)
		if err != nil {
			return nil, err
		}

		var citedRefs []authorRef
		for _, ref := range p.References {
			citedRefs = append(citedRefs, ref.Authors...)
		}
		cited, err := authorIDs(citedRefs)
		if err != nil {
			return nil, err
		}

		return &types.PaperRecord{
			Year:             *p.Year,
			ReferenceCount:   p.ReferenceCount,
			IsOpenAccess:     p.IsOpenAccess,
			FieldsOfStudy:    p.FieldsOfStudy,
			S2FieldsOfStudy:  s2Categories(p.S2FieldsOfStudy),
			PublicationTypes: p.PublicationTypes,
			Authors:          authors,
			CitingAuthors:    citingAuthors(p.Citations, *p.Year, citationYears),
			CitedAuthors:     cited,
		}, nil
	}
}

// AuthorTransform reshapes an author batch record, keeping only papers with a
// known publication year.
func AuthorTransform(raw json.RawMessage) (any, error) {
	var a authorResponse
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parsing author record: %w", err)
	}

	record := &types.AuthorRecord{Papers: []types.AuthorPaper{}}
	for _, p := range a.Papers {
		if p.Year == nil {
			continue
		}
		record.Papers = append(record.Papers, types.AuthorPaper{
			Year:            *p.Year,
			FieldsOfStudy:   p.FieldsOfStudy,
			S2FieldsOfStudy: s2Categories(p.S2FieldsOfStudy),
		})
	}
	return record, nil
}

// citingAuthors collects the authors of citations made within citationYears
// of the paper's publication. Citations with an unknown year are skipped.
func citingAuthors(citations []citation, paperYear, citationYears int) []int64 {
	seen := make(map[int64]bool)
	for _, c := range citations {
		if c.Year == nil || *c.Year >= paperYear+citationYears {
			continue
		}
		for _, a := range c.Authors {
			if a.AuthorID == nil {
				continue
			}
			id, err := strconv.ParseInt(*a.AuthorID, 10, 64)
			if err != nil {
				continue
			}
			seen[id] = true
		}
	}
	return sortedIDs(seen)
}

// authorIDs converts author references to deduplicated numeric ids. Null ids
// are skipped; a non-numeric id is an error, since it signals a payload shape
// the pipeline does not understand.
func authorIDs(refs []authorRef) ([]int64, error) {
	seen := make(map[int64]bool)
	for _, a := range refs {
		if a.AuthorID == nil {
			continue
		}
		id, err := strconv.ParseInt(*a.AuthorID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric author id %q", *a.AuthorID)
		}
		seen[id] = true
	}
	return sortedIDs(seen), nil
}

// s2Categories deduplicates non-null Semantic Scholar field categories.
func s2Categories(fields []s2Field) []string {
	seen := make(map[string]bool)
	for _, f := range fields {
		if f.Category != nil {
			seen[*f.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// sortedIDs returns the keys of seen in ascending order. Stable output keeps
// checkpoint contents and downstream work-set ordering deterministic.
func sortedIDs(seen map[int64]bool) []int64 {
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
