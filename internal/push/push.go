package push

import (
	"context"
)

// Result reports per-token outcomes of one multicast call.
type Result struct {
	SuccessCount int
	FailureCount int
}

// Sender delivers one notification to a set of device tokens in a single
// multicast call. Partial per-token failures are reported in the Result, not
// as an error; an error means the call as a whole failed.
type Sender interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (*Result, error)
}
