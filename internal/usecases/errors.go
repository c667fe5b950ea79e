package usecases

import "errors"

// Tenant resolution failures. These are the only errors the webhook maps to
// HTTP-level failure codes; every later pipeline failure is reflected in
// the response status field instead.
var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrCompanyInactive = errors.New("company is not active")
)
