package models

import "strings"

// ContactRequest is a "Talk to Business" inquiry. It only lives for the
// duration of one submission.
type ContactRequest struct {
	Name     string `json:"name" form:"name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,contains=@"`
	Interest string `json:"interest" form:"interest" validate:"required"`
}

// Normalize trims surrounding whitespace from every field
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Interest = strings.TrimSpace(r.Interest)
}
