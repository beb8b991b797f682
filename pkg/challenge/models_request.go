package challenge

import (
	"fmt"
	"strings"
)

// IdentityRequest is the body of the generate-webhook call.
type IdentityRequest struct {
	Name  string `json:"name"`
	RegNo string `json:"regNo"`
	Email string `json:"email"`
}

func (r IdentityRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidIdentity)
	case strings.TrimSpace(r.RegNo) == "":
		return fmt.Errorf("%w: regNo is required", ErrInvalidIdentity)
	case strings.TrimSpace(r.Email) == "":
		return fmt.Errorf("%w: email is required", ErrInvalidIdentity)
	}
	return nil
}

// SolutionSubmission is the body posted to the webhook.
type SolutionSubmission struct {
	FinalQuery string `json:"finalQuery"`
}
