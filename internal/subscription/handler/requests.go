package handler

import (
	"strings"

	dErrors "hotpicks/pkg/domain-errors"
)

// CheckoutRequest starts a subscription checkout.
type CheckoutRequest struct {
	Email string `json:"email"`
}

func (r *CheckoutRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}
