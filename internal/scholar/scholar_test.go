// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/citegraph/pkg/types"
)

func TestArxivID(t *testing.T) {
	if got := ArxivID("2101.00001"); got != "ARXIV:2101.00001" {
		t.Errorf("ArxivID = %q", got)
	}
}

func TestPaperTransform(t *testing.T) {
	raw := json.RawMessage(`{
		"paperId": "abc",
		"year": 2015,
		"referenceCount": 12,
		"isOpenAccess": true,
		"fieldsOfStudy": ["Computer Science"],
		"s2FieldsOfStudy": [
			{"category": "Computer Science"},
			{"category": "Mathematics"},
			{"category": "Computer Science"},
			{"category": null}
		],
		"publicationTypes": ["JournalArticle"],
		"authors": [
			{"authorId": "30"},
			{"authorId": "10"},
			{"authorId": null},
			{"authorId": "30"}
		],
		"citations": [
			{"year": 2016, "authors": [{"authorId": "100"}, {"authorId": "200"}]},
			{"year": 2017, "authors": [{"authorId": "100"}]},
			{"year": 2018, "authors": [{"authorId": "300"}]},
			{"year": null, "authors": [{"authorId": "400"}]},
			{"year": 2016, "authors": [{"authorId": null}, {"authorId": "not-a-number"}]}
		],
		"references": [
			{"authors": [{"authorId": "7"}]},
			{"authors": [{"authorId": "5"}, {"authorId": "7"}]}
		]
	}`)

	got, err := PaperTransform(3)(raw)
	if err != nil {
		t.Fatalf("PaperTransform: %v", err)
	}
	rec, ok := got.(*types.PaperRecord)
	if !ok {
		t.Fatalf("result type = %T", got)
	}

	if rec.Year != 2015 || rec.ReferenceCount != 12 || !rec.IsOpenAccess {
		t.Errorf("scalar fields = %d/%d/%v", rec.Year, rec.ReferenceCount, rec.IsOpenAccess)
	}
	if !reflect.DeepEqual(rec.S2FieldsOfStudy, []string{"Computer Science", "Mathematics"}) {
		t.Errorf("S2FieldsOfStudy = %v, want deduplicated sorted categories", rec.S2FieldsOfStudy)
	}
	if !reflect.DeepEqual(rec.Authors, []int64{10, 30}) {
		t.Errorf("Authors = %v, want [10 30]", rec.Authors)
	}
	// 2018 falls outside the 2015+3 window; the null-year citation and the
	// non-numeric citing author id are skipped.
	if !reflect.DeepEqual(rec.CitingAuthors, []int64{100, 200}) {
		t.Errorf("CitingAuthors = %v, want [100 200]", rec.CitingAuthors)
	}
	if !reflect.DeepEqual(rec.CitedAuthors, []int64{5, 7}) {
		t.Errorf("CitedAuthors = %v, want [5 7]", rec.CitedAuthors)
	}
}

func TestPaperTransformNullYearIsAbsent(t *testing.T) {
	got, err := PaperTransform(3)(json.RawMessage(`{"paperId": "abc", "year": null}`))
	if err != nil {
		t.Fatalf("PaperTransform: %v", err)
	}
	if got != nil {
		t.Errorf("result = %v, want nil (stored as absent)", got)
	}
}

func TestPaperTransformNonNumericAuthorID(t *testing.T) {
	raw := json.RawMessage(`{"year": 2015, "authors": [{"authorId": "xyz"}]}`)
	_, err := PaperTransform(3)(raw)
	if err == nil || !strings.Contains(err.Error(), "non-numeric author id") {
		t.Fatalf("err = %v, want non-numeric author id error", err)
	}
}

func TestPaperTransformMalformedRecord(t *testing.T) {
	if _, err := PaperTransform(3)(json.RawMessage(`{"year": "twenty"}`)); err == nil {
		t.Error("expected error for malformed paper record")
	}
}

func TestAuthorTransform(t *testing.T) {
	raw := json.RawMessage(`{
		"papers": [
			{"year": 2019, "fieldsOfStudy": ["Computer Science"], "s2FieldsOfStudy": [{"category": "Computer Science"}]},
			{"year": null, "fieldsOfStudy": ["Mathematics"], "s2FieldsOfStudy": []},
			{"year": 2021, "fieldsOfStudy": null, "s2FieldsOfStudy": [{"category": "Biology"}, {"category": null}]}
		]
	}`)

	got, err := AuthorTransform(raw)
	if err != nil {
		t.Fatalf("AuthorTransform: %v", err)
	}
	rec, ok := got.(*types.AuthorRecord)
	if !ok {
		t.Fatalf("result type = %T", got)
	}

	if len(rec.Papers) != 2 {
		t.Fatalf("Papers = %d, want 2 (unknown-year paper dropped)", len(rec.Papers))
	}
	if rec.Papers[0].Year != 2019 || rec.Papers[1].Year != 2021 {
		t.Errorf("paper years = %d/%d", rec.Papers[0].Year, rec.Papers[1].Year)
	}
	if !reflect.DeepEqual(rec.Papers[1].S2FieldsOfStudy, []string{"Biology"}) {
		t.Errorf("S2FieldsOfStudy = %v", rec.Papers[1].S2FieldsOfStudy)
	}
}

func TestAuthorTransformEmptyPapers(t *testing.T) {
	got, err := AuthorTransform(json.RawMessage(`{"papers": []}`))
	if err != nil {
		t.Fatalf("AuthorTransform: %v", err)
	}
	rec := got.(*types.AuthorRecord)
	if rec.Papers == nil || len(rec.Papers) != 0 {
		t.Errorf("Papers = %v, want empty non-nil slice", rec.Papers)
	}
}
