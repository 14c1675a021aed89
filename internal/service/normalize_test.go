package service

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"github.com/shelfview/shelfview/internal/avatar"
	"github.com/shelfview/shelfview/internal/model"
	"github.com/shelfview/shelfview/internal/testutil"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(avatar.NewGravatar("", 0, ""), "", language.English)
}

func titles(copies []model.Copy) []string {
	out := make([]string, len(copies))
	for i, c := range copies {
		out[i] = c.Title
	}
	return out
}

func TestNormalizeCopy_MissingImageGetsPlaceholder(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	got := n.NormalizeCopy(testutil.NewTestCopy("Dune"))

	if got.ImageURL != "images/no-image.png" {
		t.Errorf("ImageURL = %q, want images/no-image.png", got.ImageURL)
	}
}

func TestNormalizeCopy_CustomPlaceholder(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(avatar.NewGravatar("", 0, ""), "/static/blank.png", language.Und)
	got := n.NormalizeCopy(testutil.NewTestCopy("Dune"))

	if got.ImageURL != "/static/blank.png" {
		t.Errorf("ImageURL = %q, want /static/blank.png", got.ImageURL)
	}
}

func TestNormalizeCopy_KeepsExistingImage(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	got := n.NormalizeCopy(model.Copy{Title: "Dune", ImageURL: "https://covers.test/dune.jpg"})

	if got.ImageURL != "https://covers.test/dune.jpg" {
		t.Errorf("ImageURL = %q, want original", got.ImageURL)
	}
}

func TestNormalizeCopy_LastLoanAvatar(t *testing.T) {
	t.Parallel()

	g := avatar.NewGravatar("", 0, "")
	n := NewNormalizer(g, "", language.English)

	emails := []string{"reader@example.com", "Someone.Else@Example.org", ""}
	for _, email := range emails {
		got := n.NormalizeCopy(testutil.NewTestLoanedCopy("Dune", email))

		if got.LastLoan == nil || got.LastLoan.User == nil {
			t.Fatalf("expected last loan user for %q", email)
		}
		if want := g.AvatarURL(email); got.LastLoan.User.ImageURL != want {
			t.Errorf("avatar for %q = %q, want %q", email, got.LastLoan.User.ImageURL, want)
		}
		if got.LastLoan.Email != email {
			t.Errorf("Email = %q, want %q", got.LastLoan.Email, email)
		}
	}
}

func TestNormalizeCopy_NoLastLoan(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	got := n.NormalizeCopy(testutil.NewTestCopy("Dune"))

	if got.LastLoan != nil {
		t.Errorf("expected no last loan, got %+v", got.LastLoan)
	}
}

func TestNormalizeCopy_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	in := testutil.NewTestLoanedCopy("Dune", "reader@example.com")
	loan := in.LastLoan

	_ = n.NormalizeCopy(in)

	if loan.User != nil {
		t.Error("input loan was mutated")
	}
	if in.ImageURL != "" {
		t.Error("input image was mutated")
	}
}

func TestSortByTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"basic", []string{"Zebra", "Apple", "Mango"}, []string{"Apple", "Mango", "Zebra"}},
		{"case insensitive primary order", []string{"banana", "Apple", "cherry"}, []string{"Apple", "banana", "cherry"}},
		{"accents", []string{"éclair", "Zebra", "apple", "Eagle"}, []string{"apple", "Eagle", "éclair", "Zebra"}},
		{"single", []string{"Only"}, []string{"Only"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			copies := make([]model.Copy, len(tt.input))
			for i, title := range tt.input {
				copies[i] = testutil.NewTestCopy(title)
			}

			got := titles(newTestNormalizer().SortByTitle(copies))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SortByTitle(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortByTitle_Stable(t *testing.T) {
	t.Parallel()

	copies := []model.Copy{
		{Title: "Dune", Author: "first"},
		{Title: "Alpha"},
		{Title: "Dune", Author: "second"},
	}

	got := newTestNormalizer().SortByTitle(copies)

	if got[1].Author != "first" || got[2].Author != "second" {
		t.Errorf("equal titles changed order: %+v", got)
	}
}

func TestSortByTitle_DoesNotReorderInput(t *testing.T) {
	t.Parallel()

	copies := []model.Copy{testutil.NewTestCopy("B"), testutil.NewTestCopy("A")}
	_ = newTestNormalizer().SortByTitle(copies)

	if copies[0].Title != "B" {
		t.Error("input slice was reordered")
	}
}

func TestPrepare(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()
	page := testutil.PageOf(
		testutil.NewTestLoanedCopy("Zebra", "z@example.com"),
		model.Copy{Title: "Apple", ImageURL: "apple.png"},
		testutil.NewTestCopy("Mango"),
	)

	got := n.Prepare(page)

	if want := []string{"Apple", "Mango", "Zebra"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("titles = %v, want %v", titles(got), want)
	}
	for _, c := range got {
		if c.ImageURL == "" {
			t.Errorf("copy %q has empty image", c.Title)
		}
	}
	if got[0].ImageURL != "apple.png" {
		t.Errorf("Apple image = %q, want apple.png", got[0].ImageURL)
	}
	if got[2].LastLoan == nil || got[2].LastLoan.User == nil || got[2].LastLoan.User.ImageURL == "" {
		t.Errorf("Zebra last loan not normalized: %+v", got[2].LastLoan)
	}
}

func TestPrepare_NoEmbedded(t *testing.T) {
	t.Parallel()

	n := newTestNormalizer()

	for name, page := range map[string]*model.CopiesPage{
		"nil page":       nil,
		"no embedded":    {},
		"nil copies":     {Embedded: &model.EmbeddedCopies{}},
		"empty embedded": testutil.PageOf(),
	} {
		got := n.Prepare(page)
		if got == nil || len(got) != 0 {
			t.Errorf("%s: Prepare() = %#v, want empty non-nil list", name, got)
		}
	}
}

func TestNormalizeCopy_KeepsIdentityAndLinks(t *testing.T) {
	t.Parallel()

	in := model.Copy{ID: "17", Title: "Dune", Links: []byte(`{"self":{"href":"/copies/17"}}`)}
	got := newTestNormalizer().NormalizeCopy(in)

	if got.ID != "17" {
		t.Errorf("ID = %q, want 17", got.ID)
	}
	if string(got.Links) != string(in.Links) {
		t.Errorf("Links = %s, want %s", got.Links, in.Links)
	}
}
