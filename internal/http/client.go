package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// ErrUnsupportedMethod is returned by Send for any method other than GET,
// POST, PUT and DELETE. No request is sent in that case.
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

// TransportError reports a call that never produced a complete HTTP
// response: connection refused, DNS failure, timeout, cancellation or a
// connection lost while the body was being read.
type TransportError struct {
	Method  string
	URL     string
	Elapsed time.Duration
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SupportedMethod reports whether Send knows how to issue method.
func SupportedMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// Client issues timed requests against a catalog base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options. Unlike most
// clients it has no timeout by default, so a hung catalog call is measured
// for as long as it takes.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{},
		headers:    make(map[string]string),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithBaseURL sets the base URL every endpoint is joined onto
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout bounds every call. A timeout cuts off slow calls, so it
// changes what the reported latency means; zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a default header to every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		if userAgent != "" {
			c.headers["User-Agent"] = userAgent
		}
	}
}

// URL returns the full URL an endpoint resolves to.
func (c *Client) URL(endpoint string) (string, error) {
	u, err := joinURL(c.baseURL, endpoint)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Send issues a single request and measures it. GET and DELETE never carry a
// body; POST and PUT send payload as JSON when it is non-nil.
func (c *Client) Send(ctx context.Context, method, endpoint string, payload interface{}) (*Response, error) {
	if !SupportedMethod(method) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	req := NewRequest(method, endpoint)
	if (method == http.MethodPost || method == http.MethodPut) && payload != nil {
		req.WithBody(payload)
	}

	return c.Do(ctx, req)
}

// Do executes a request and returns the response with detailed timing
// information. Elapsed covers the whole call, from issuing the request until
// the body has been read; the trace phases break it down.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	// Request headers win over client defaults
	for key, value := range c.headers {
		if _, ok := req.Headers[key]; !ok {
			req.WithHeader(key, value)
		}
	}

	httpReq, err := req.Build(c.baseURL)
	if err != nil {
		return nil, err
	}

	var timing TimingInfo
	var dnsStart, connectStart, tlsHandshakeStart time.Time
	var connectDone bool
	var lastPhaseEnd time.Time

	trace := &httptrace.ClientTrace{
		DNSStart: func(info httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(info httptrace.DNSDoneInfo) {
			dnsEnd := time.Now()
			timing.DNSLookupTime = dnsEnd.Sub(dnsStart)
			lastPhaseEnd = dnsEnd
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				connectEnd := time.Now()
				timing.TCPConnectTime = connectEnd.Sub(connectStart)
				connectDone = true
				lastPhaseEnd = connectEnd
			}
		},
		TLSHandshakeStart: func() {
			if connectDone {
				tlsHandshakeStart = time.Now()
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				tlsHandshakeEnd := time.Now()
				timing.TLSHandshakeTime = tlsHandshakeEnd.Sub(tlsHandshakeStart)
				lastPhaseEnd = tlsHandshakeEnd
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(ctx, trace))

	timing.StartTime = time.Now()
	lastPhaseEnd = timing.StartTime
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{
			Method:  req.Method,
			URL:     httpReq.URL.String(),
			Elapsed: time.Since(timing.StartTime),
			Err:     err,
		}
	}

	contentTransferStart := time.Now()
	bodyBytes, err := io.ReadAll(httpResp.Body)
	httpResp.Body.Close()
	timing.ContentTransferTime = time.Since(contentTransferStart)
	timing.TotalTime = time.Since(timing.StartTime)
	if err != nil {
		return nil, &TransportError{
			Method:  req.Method,
			URL:     httpReq.URL.String(),
			Elapsed: timing.TotalTime,
			Err:     fmt.Errorf("reading response body: %w", err),
		}
	}

	resp := &Response{
		Method:     req.Method,
		URL:        httpReq.URL.String(),
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Elapsed:    timing.TotalTime,
		Timing:     timing,
		Body:       io.NopCloser(bytes.NewReader(bodyBytes)),
		rawBody:    bodyBytes,
		parsed:     true,
	}

	return resp, nil
}
