package portal

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by the client.
var (
	ErrUnauthorized    = errors.New("session expired or invalid, please log in again")
	ErrNotLoggedIn     = errors.New("not logged in, run `lectern login` first")
	ErrNotLecturer     = errors.New("access denied: this account is not a lecturer")
	ErrInvalidResponse = errors.New("invalid response from portal")
	ErrMissingArgument = errors.New("missing required argument")
)

// APIError is an HTTP error response from the portal.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("portal error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("portal error: %d %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 response.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
