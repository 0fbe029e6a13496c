package handler

import (
	"fmt"

	"hotpicks/internal/lines"
	dErrors "hotpicks/pkg/domain-errors"
	"hotpicks/pkg/email"
)

// maxRequestLines caps how many lines a caller may export or compare at once.
const maxRequestLines = 1000

// PreviewRequest asks for the free preview batch, optionally emailed.
type PreviewRequest struct {
	Email string `json:"email"`
}

func (r *PreviewRequest) Validate() error {
	r.Email = email.Normalize(r.Email)
	if r.Email != "" && !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid address")
	}
	return nil
}

// GenerateRequest asks for a premium batch of Count lines.
type GenerateRequest struct {
	Count *int `json:"count"`
}

func (r *GenerateRequest) Validate() error {
	if r.Count != nil && *r.Count < 1 {
		return dErrors.New(dErrors.CodeValidation, "count must be at least 1")
	}
	return nil
}

// CountOrDefault returns the requested count or the default batch size.
func (r *GenerateRequest) CountOrDefault() int {
	if r.Count == nil {
		return lines.DefaultBatchSize
	}
	return *r.Count
}

// ExportRequest carries previously generated lines to render as CSV.
type ExportRequest struct {
	Lines []lines.Line `json:"lines"`
}

func (r *ExportRequest) Validate() error {
	if len(r.Lines) == 0 {
		return dErrors.New(dErrors.CodeValidation, "lines are required")
	}
	return validateLineCount(len(r.Lines))
}

// CompareRequest scores predictions against a draw typed as free text,
// e.g. {"main": "3, 17, 27, 40, 50", "bonus": "2, 9"}.
type CompareRequest struct {
	Lines []lines.Line `json:"lines"`
	Main  string       `json:"main"`
	Bonus string       `json:"bonus"`
}

func (r *CompareRequest) Validate() error {
	return validateLineCount(len(r.Lines))
}

func validateLineCount(n int) error {
	if n > maxRequestLines {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("at most %d lines per request", maxRequestLines))
	}
	return nil
}
