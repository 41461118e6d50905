package client

import "errors"

// ErrRateLimited marks an upstream 429. Callers surface it to the user as a
// distinct, retryable condition rather than a generic failure.
var ErrRateLimited = errors.New("rate limited")
