package translator

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderFailure marks any call that did not yield a translation.
	ErrProviderFailure = errors.New("translation provider failure")
	// ErrRateLimited marks a call that was still throttled after the last
	// attempt. It also matches ErrProviderFailure.
	ErrRateLimited = errors.New("translation provider rate limited")
)

type ProviderError struct {
	Provider    string
	StatusCode  int
	Attempts    int
	RateLimited bool
	Body        string
	Err         error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, ErrProviderFailure.Error())
	if e.RateLimited {
		msg = fmt.Sprintf("%s: %s", e.Provider, ErrRateLimited.Error())
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	msg = fmt.Sprintf("%s after %d attempt(s)", msg, e.Attempts)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *ProviderError) Unwrap() []error {
	out := []error{ErrProviderFailure}
	if e.RateLimited {
		out = append(out, ErrRateLimited)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// statusError is a single non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider http %d: %s", e.code, e.body)
}
