package token

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

const maxResponseBody = 1 << 20

// bodyRecorder keeps a copy of the last response body that passed through it.
// The token library parses the body itself and does not expose the raw bytes on success.
type bodyRecorder struct {
	next http.RoundTripper

	lock sync.Mutex
	body []byte
}

func (b *bodyRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := b.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseBody {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", req.URL.Redacted(), maxResponseBody)
	}

	b.lock.Lock()
	b.body = data
	b.lock.Unlock()

	resp.Body = io.NopCloser(bytes.NewReader(data))
	resp.ContentLength = int64(len(data))
	return resp, nil
}

func (b *bodyRecorder) Body() string {
	b.lock.Lock()
	defer b.lock.Unlock()
	return string(b.body)
}
