// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PaperRecord is the stored shape of one Semantic Scholar paper, reduced to
// the fields the citation-graph dataset needs. Authors are Semantic Scholar
// numeric author ids. JSON keys follow the remote API where a field is kept
// verbatim.
type PaperRecord struct {
	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// ReferenceCount is the number of references the paper makes.
	ReferenceCount int `json:"referenceCount" yaml:"reference_count"`

	// IsOpenAccess reports whether a free PDF is available.
	IsOpenAccess bool `json:"isOpenAccess" yaml:"is_open_access"`

	// FieldsOfStudy are the externally sourced field labels.
	FieldsOfStudy []string `json:"fieldsOfStudy" yaml:"fields_of_study"`

	// S2FieldsOfStudy are the deduplicated Semantic Scholar field categories.
	S2FieldsOfStudy []string `json:"s2FieldsOfStudy" yaml:"s2_fields_of_study"`

	// PublicationTypes classifies the venue (journal article, conference, ...).
	PublicationTypes []string `json:"publicationTypes" yaml:"publication_types"`

	// Authors are the paper's author ids, deduplicated.
	Authors []int64 `json:"authors" yaml:"authors"`

	// CitingAuthors are authors who cited the paper within the citation window.
	CitingAuthors []int64 `json:"citing_authors" yaml:"citing_authors"`

	// CitedAuthors are authors of the paper's references, deduplicated.
	CitedAuthors []int64 `json:"cited_authors" yaml:"cited_authors"`
}

// AuthorPaper is one entry in an author's publication list.
type AuthorPaper struct {
	Year int `json:"year" yaml:"year"`

	FieldsOfStudy []string `json:"fieldsOfStudy" yaml:"fields_of_study"`

	S2FieldsOfStudy []string `json:"s2FieldsOfStudy" yaml:"s2_fields_of_study"`
}

// AuthorRecord is the stored shape of one Semantic Scholar author: the papers
// they published, keeping only entries with a known year.
type AuthorRecord struct {
	Papers []AuthorPaper `json:"papers" yaml:"papers"`
}
