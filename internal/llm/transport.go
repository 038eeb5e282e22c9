package llm

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// Retry policy for the shared session. Status-code retries live inside the
// transport; the manual loop in doWithRetry sits above it and handles
// connection errors, timeouts, and explicit 429 responses with their own
// backoff schedules.
const (
	transportRetryBudget = 3
	transportBackoff     = 1 * time.Second // exponential backoff factor
	manualAttempts       = 2
)

var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// sleepFn is stubbed in tests to avoid real backoff waits.
var sleepFn = time.Sleep

var (
	sessionOnce sync.Once
	session     *http.Client
)

// Session returns the process-wide connection-reusing HTTP client shared
// by all network-based adapters. Initialization is once-guarded so racing
// first callers cannot build redundant clients.
func Session() *http.Client {
	sessionOnce.Do(func() {
		session = &http.Client{
			Transport: &retryTransport{base: http.DefaultTransport},
		}
	})
	return session
}

// retryTransport retries GET/POST requests whose responses carry a
// retry-eligible status code, with exponential backoff. Permanent 4xx
// responses (other than 429) pass through untouched so the attempt budget
// is not wasted on unrecoverable errors.
type retryTransport struct {
	base http.RoundTripper
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		return t.base.RoundTrip(req)
	}
	// A request body can only be replayed when GetBody is available.
	if req.Body != nil && req.GetBody == nil {
		return t.base.RoundTrip(req)
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt <= transportRetryBudget; attempt++ {
		if attempt > 0 {
			sleepFn(transportBackoff * time.Duration(1<<(attempt-1)))
			if req.GetBody != nil {
				body, bodyErr := req.GetBody()
				if bodyErr != nil {
					return resp, bodyErr
				}
				req.Body = body
			}
		}
		resp, err = t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if !retryStatus[resp.StatusCode] || attempt == transportRetryBudget {
			return resp, nil
		}
		drain(resp)
	}
	return resp, err
}

// doWithRetry layers the manual retry loop over the shared session:
// connection errors and timeouts back off 2^attempt seconds, an explicit
// 429 waits 5*(attempt+1) seconds, and anything else is returned to the
// caller as-is. On exhaustion the caller receives a TransportExhausted
// error naming the failure class, never a bare low-level error.
func doWithRetry(client *http.Client, newReq func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	class := FailureOther

	for attempt := 0; attempt < manualAttempts; attempt++ {
		req, err := newReq()
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			class = classifyNetError(err)
			if attempt < manualAttempts-1 {
				sleepFn(time.Duration(1<<attempt) * time.Second)
				continue
			}
			break
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = errors.New("rate limited: HTTP 429")
			class = FailureRateLimit
			drain(resp)
			if attempt < manualAttempts-1 {
				sleepFn(time.Duration(5*(attempt+1)) * time.Second)
				continue
			}
			break
		}

		return resp, nil
	}

	return nil, &TransportExhausted{Class: class, Attempts: manualAttempts, Err: lastErr}
}

func classifyNetError(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	return FailureConnection
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
}
