package types

import (
	"testing"

	"github.com/eaburns/pretty"
	"github.com/google/go-cmp/cmp"
	"github.com/quill-lang/quill/loc"
)

func TestDiagsSorted(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		add  []Diag
		want []Diag
	}{
		{name: "empty", add: nil, want: nil},
		{
			name: "ordered by range",
			add: []Diag{
				{Code: TypeMismatch, Args: []string{"Bool", "Int"}, Rng: loc.Range{9, 10}},
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{4, 8}},
			},
			want: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{4, 8}},
				{Code: TypeMismatch, Args: []string{"Bool", "Int"}, Rng: loc.Range{9, 10}},
			},
		},
		{
			name: "same start ordered by end",
			add: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 9}},
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
			},
			want: []Diag{
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 9}},
			},
		},
		{
			name: "same range ordered by code",
			add: []Diag{
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
				{Code: TypeMismatch, Args: []string{"Bool", "Int"}, Rng: loc.Range{1, 2}},
			},
			want: []Diag{
				{Code: TypeMismatch, Args: []string{"Bool", "Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingIntExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
			},
		},
		{
			name: "exact duplicates removed",
			add: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
			},
			want: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
			},
		},
		{
			name: "different arguments kept",
			add: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingBoolExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
			},
			want: []Diag{
				{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{1, 2}},
				{Code: ExpectingBoolExpr, Args: []string{"Double"}, Rng: loc.Range{1, 2}},
			},
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			var ds Diags
			ds.Add(test.add...)
			got := ds.Sorted()
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Sorted differs: %s\n%s", diff, pretty.String(got))
			}
			// Sorted leaves the collection order untouched.
			if diff := cmp.Diff(test.add, ds.All()); diff != "" {
				t.Errorf("All differs after Sorted: %s", diff)
			}
		})
	}
}

func TestDiagRender(t *testing.T) {
	t.Parallel()
	var fs loc.Files
	fs.Add("test.qll", "let x = 5;\nlet y = x + true;\n")

	var ds Diags
	ds.Add(Diag{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{19, 20}})
	ds.Add(Diag{Code: ExpectingIntExpr, Args: []string{"Bool"}, Rng: loc.Range{8, 9}})
	want := []string{
		"test.qll:1.9-1.10: expecting an expression of type Int, have Bool",
		"test.qll:2.9-2.10: expecting an expression of type Bool, have Int",
	}
	if diff := cmp.Diff(want, ds.Render(fs)); diff != "" {
		t.Errorf("Render differs: %s", diff)
	}
}

func TestDiagRenderOutsideFiles(t *testing.T) {
	t.Parallel()
	var fs loc.Files
	fs.Add("test.qll", "let x = 5;\n")
	d := Diag{Code: ExpectingBoolExpr, Args: []string{"Int"}, Rng: loc.Range{100, 101}}
	if got, want := d.Render(fs), d.Error(); got != want {
		t.Errorf("Render=%q, want the offset fallback %q", got, want)
	}
	if got, want := d.Render(nil), d.Error(); got != want {
		t.Errorf("Render with no files=%q, want %q", got, want)
	}
}
