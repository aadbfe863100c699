package trends

import (
	"context"
	"errors"
	"fmt"

	"github.com/valyala/fasthttp"
)

// ErrDataUnavailable matches every provider failure: transport errors,
// non-200 responses, rate limiting, undecodable or empty results.
var ErrDataUnavailable = errors.New("trends data unavailable")

// Reason classifies why a provider call produced no data.
type Reason string

const (
	ReasonRateLimited Reason = "rate_limited"
	ReasonHTTPStatus  Reason = "http_status"
	ReasonTransport   Reason = "transport"
	ReasonDecode      Reason = "decode"
	ReasonEmpty       Reason = "empty_result"
	ReasonNoWidget    Reason = "no_widget"
	ReasonCanceled    Reason = "canceled"
)

// ProviderError describes a failed provider operation.
type ProviderError struct {
	Op         string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("trends %s: %s", e.Op, e.Reason)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is makes every ProviderError match ErrDataUnavailable.
func (e *ProviderError) Is(target error) bool {
	return target == ErrDataUnavailable
}

// IsRateLimited reports whether err was caused by provider throttling.
func IsRateLimited(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Reason == ReasonRateLimited
}

func reasonForStatus(code int) Reason {
	if code == fasthttp.StatusTooManyRequests {
		return ReasonRateLimited
	}
	return ReasonHTTPStatus
}

func reasonForTransport(err error) Reason {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	return ReasonTransport
}
