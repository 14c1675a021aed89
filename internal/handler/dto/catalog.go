// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/shelfview/shelfview/internal/model"

// LibraryListResponse represents the list of libraries.
type LibraryListResponse struct {
	Data []model.Library `json:"data"`
}

// CopyListResponse represents the normalized copies of one library.
type CopyListResponse struct {
	Library string       `json:"library"`
	Data    []model.Copy `json:"data"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
