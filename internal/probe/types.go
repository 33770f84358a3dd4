package probe

import (
	"time"
)

// Outcome classifies a single probe.
type Outcome int

const (
	NotFound Outcome = iota
	Exists
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Exists:
		return "exists"
	case NotFound:
		return "not_found"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

type Result struct {
	Candidate string
	URL       string

	Outcome    Outcome
	StatusCode int
	Elapsed    time.Duration
	// Skipped is set when the candidate was rejected by the username
	// pattern and no request was sent.
	Skipped bool
	Err     *Error
}

type Config struct {
	BaseURL   string
	UserAgent string
	// RegexCheck is an optional username pattern. Candidates that do not
	// match are reported NotFound without a request.
	RegexCheck string
}

// Error is a transport-level failure for one candidate.
type Error struct {
	Candidate string
	Reason    string
	timeout   bool
	cause     error
}

func (e *Error) Error() string {
	return e.Reason
}

func (e *Error) Unwrap() error { return e.cause }

// Timeout reports whether the request exceeded the per-request timeout.
func (e *Error) Timeout() bool { return e.timeout }
