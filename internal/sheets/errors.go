package sheets

import (
	"errors"
	"fmt"

	gapi "google.golang.org/api/googleapi"
)

// AuthRequiredError reports an operation that needs an authenticated Sheets
// client when none is available or the credentials were rejected.
type AuthRequiredError struct {
	Op    string
	Cause error
}

func (e *AuthRequiredError) Error() string {
	return fmt.Sprintf("sheets: %s requires authenticated access", e.Op)
}

func (e *AuthRequiredError) Unwrap() error {
	return e.Cause
}

// isAuthErr reports whether err is a credentials problem (as opposed to a
// transient transport failure). Only these trigger the CSV read fallback.
func isAuthErr(err error) bool {
	var ge *gapi.Error
	if errors.As(err, &ge) {
		return ge.Code == 401 || ge.Code == 403
	}
	var ae *AuthRequiredError
	return errors.As(err, &ae)
}
