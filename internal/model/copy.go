package model

import "encoding/json"

// LoanUser holds the borrower data attached to a loan during normalization.
type LoanUser struct {
	ImageURL string `json:"imageUrl"`
}

// Loan is the most recent loan of a copy.
type Loan struct {
	Email string    `json:"email"`
	User  *LoanUser `json:"user,omitempty"`
}

// Copy is a single loanable instance of a book title.
// Links carries the upstream HAL "_links" block unchanged.
type Copy struct {
	ID       ID              `json:"id,omitempty"`
	Title    string          `json:"title"`
	Author   string          `json:"author,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
	LastLoan *Loan           `json:"lastLoan,omitempty"`
	Links    json.RawMessage `json:"_links,omitempty"`
}

// HasImage reports whether the copy carries its own image.
func (c Copy) HasImage() bool {
	return c.ImageURL != ""
}

// EmbeddedCopies is the HAL "_embedded" block of a copies response.
type EmbeddedCopies struct {
	Copies []Copy `json:"copies"`
}

// CopiesPage is the catalog response for the copies of one library.
type CopiesPage struct {
	Embedded *EmbeddedCopies `json:"_embedded,omitempty"`
}

// EmbeddedList returns the embedded copies, or nil when the response has no
// embedded collection.
func (p *CopiesPage) EmbeddedList() []Copy {
	if p == nil || p.Embedded == nil {
		return nil
	}
	return p.Embedded.Copies
}
