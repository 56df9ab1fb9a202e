package apperror

import (
	"errors"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
)

// identityMapping binds a vendor error predicate to a taxonomy error.
// Order matters: the first matching row wins.
type identityMapping struct {
	match func(error) bool
	build func() *Error
}

var identityMappings = []identityMapping{
	{auth.IsEmailAlreadyExists, func() *Error {
		return Conflict("An account with this email already exists")
	}},
	{auth.IsUserNotFound, func() *Error {
		return InvalidCredentials()
	}},
	{auth.IsIDTokenExpired, func() *Error {
		return Unauthorized("Your session has expired")
	}},
	{auth.IsIDTokenRevoked, func() *Error {
		return Unauthorized("Your session has been revoked")
	}},
	{auth.IsIDTokenInvalid, func() *Error {
		return Unauthorized("Your session is invalid")
	}},
	{errorutils.IsResourceExhausted, func() *Error {
		return Forbidden("Too many requests. Please try again later")
	}},
	{errorutils.IsPermissionDenied, func() *Error {
		return Forbidden("This account has been disabled")
	}},
	{errorutils.IsUnauthenticated, func() *Error {
		return Unauthorized("")
	}},
	{errorutils.IsInvalidArgument, func() *Error {
		return Validation("Please provide a valid email address", nil)
	}},
}

// FromIdentity translates an identity-provider error into the taxonomy.
// Taxonomy errors pass through untouched; unmapped vendor codes fall
// through to INTERNAL_ERROR.
func FromIdentity(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, m := range identityMappings {
		if m.match(err) {
			return m.build()
		}
	}
	return Internal()
}

// signInMappings translates REST sign-in endpoint codes. The endpoint
// reports failures as bare message strings rather than structured errors.
var signInMappings = map[string]func() *Error{
	"EMAIL_NOT_FOUND":             func() *Error { return InvalidCredentials() },
	"INVALID_PASSWORD":            func() *Error { return InvalidCredentials() },
	"INVALID_LOGIN_CREDENTIALS":   func() *Error { return InvalidCredentials() },
	"INVALID_EMAIL":               func() *Error { return Validation("Please provide a valid email address", nil) },
	"USER_DISABLED":               func() *Error { return Forbidden("This account has been disabled") },
	"TOO_MANY_ATTEMPTS_TRY_LATER": func() *Error { return Forbidden("Too many requests. Please try again later") },
	"WEAK_PASSWORD": func() *Error {
		return Validation("Password should be at least 6 characters",
			map[string][]string{"password": {"Password should be at least 6 characters"}})
	},
}

// FromSignInCode translates a password-verification endpoint error code.
// Codes may carry a trailing qualifier ("TOO_MANY_ATTEMPTS_TRY_LATER :
// retry later"); only the leading token is significant.
func FromSignInCode(code string) *Error {
	for i := 0; i < len(code); i++ {
		if code[i] == ' ' || code[i] == ':' {
			code = code[:i]
			break
		}
	}
	if build, ok := signInMappings[code]; ok {
		return build()
	}
	return Internal()
}
