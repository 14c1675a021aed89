package service

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shelfview/shelfview/internal/avatar"
	"github.com/shelfview/shelfview/internal/model"
)

// DefaultNoImagePath is the placeholder for copies without an image.
const DefaultNoImagePath = "images/no-image.png"

// Normalizer turns raw catalog copies into renderable ones.
type Normalizer struct {
	avatars     avatar.Resolver
	noImagePath string
	locale      language.Tag
}

// NewNormalizer creates a Normalizer. An empty noImagePath uses
// DefaultNoImagePath; language.Und collates with the root locale.
func NewNormalizer(avatars avatar.Resolver, noImagePath string, locale language.Tag) *Normalizer {
	if noImagePath == "" {
		noImagePath = DefaultNoImagePath
	}
	return &Normalizer{
		avatars:     avatars,
		noImagePath: noImagePath,
		locale:      locale,
	}
}

// Prepare extracts the embedded copies of page, sorts them by title and
// normalizes each one. The result is never nil and page is left untouched.
func (n *Normalizer) Prepare(page *model.CopiesPage) []model.Copy {
	sorted := n.SortByTitle(page.EmbeddedList())

	out := make([]model.Copy, len(sorted))
	for i, c := range sorted {
		out[i] = n.NormalizeCopy(c)
	}
	return out
}

// SortByTitle returns a copy of copies ordered by title using the
// normalizer's locale. Equal titles keep their input order.
func (n *Normalizer) SortByTitle(copies []model.Copy) []model.Copy {
	sorted := slices.Clone(copies)
	if sorted == nil {
		return []model.Copy{}
	}

	// Collators keep internal buffers and are not safe for concurrent use.
	col := collate.New(n.locale)
	slices.SortStableFunc(sorted, func(a, b model.Copy) int {
		return col.CompareString(a.Title, b.Title)
	})

	return sorted
}

// NormalizeCopy fills in the placeholder image and the borrower avatar.
func (n *Normalizer) NormalizeCopy(c model.Copy) model.Copy {
	if !c.HasImage() {
		c.ImageURL = n.noImagePath
	}

	if c.LastLoan != nil {
		c.LastLoan = &model.Loan{
			Email: c.LastLoan.Email,
			User: &model.LoanUser{
				ImageURL: n.avatars.AvatarURL(c.LastLoan.Email),
			},
		}
	}

	return c
}
