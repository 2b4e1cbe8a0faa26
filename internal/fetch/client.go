// Package fetch retrieves screen content over HTTP(S) or from file:// locators.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tabnav/internal/logging/events"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultUserAgent    = "tabnav/1"
	defaultMaxBodyBytes = 8 << 20
)

// Response is a successful fetch or submission result.
type Response struct {
	Locator     string
	Method      string
	Status      int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

func (r *Response) clone() *Response {
	if r == nil {
		return nil
	}
	dup := *r
	dup.Body = append([]byte(nil), r.Body...)
	return &dup
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	Insecure     bool
	MinInterval  time.Duration
	MaxBodyBytes int64
	Transport    http.RoundTripper
}

// Client performs content requests. Identical concurrent GETs share one
// round trip.
type Client struct {
	http     *http.Client
	base     *url.URL
	opts     Options
	group    singleflight.Group
	throttle *throttle
}

// New builds a client from opts, applying defaults for zero values.
func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	var base *url.URL
	if strings.TrimSpace(opts.BaseURL) != "" {
		parsed, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse base url: %w", err)
		}
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
		}
		base = parsed
	}
	transport := opts.Transport
	if transport == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if opts.Insecure {
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		transport = t
	}
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout, Transport: transport},
		base:     base,
		opts:     opts,
		throttle: newThrottle(opts.MinInterval),
	}, nil
}

// Resolve turns locator into an absolute URL, using the base URL for
// relative references.
func (c *Client) Resolve(locator string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(locator))
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		if c.base == nil {
			return nil, fmt.Errorf("relative locator %q without a base url", locator)
		}
		u = c.base.ResolveReference(u)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return u, nil
	}
	return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
}

// Fetch retrieves locator with GET.
func (c *Client) Fetch(ctx context.Context, locator string) (*Response, error) {
	u, err := c.Resolve(locator)
	if err != nil {
		return nil, &TransportError{Method: http.MethodGet, Locator: locator, Reason: err.Error(), Err: err}
	}
	key := u.String()
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.do(ctx, http.MethodGet, u, nil, "")
	})
	if shared {
		events.Fetch.Shared(key)
	}
	if err != nil {
		return nil, err
	}
	resp := v.(*Response)
	if shared {
		resp = resp.clone()
	}
	return resp, nil
}

// Submit sends form values to action. Methods without a request body carry
// the values in the query string.
func (c *Client) Submit(ctx context.Context, action, method string, values url.Values) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodPost
	}
	u, err := c.Resolve(action)
	if err != nil {
		return nil, &TransportError{Method: method, Locator: action, Reason: err.Error(), Err: err}
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		q := u.Query()
		for key, vals := range values {
			for _, v := range vals {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		return c.do(ctx, method, u, nil, "")
	}
	return c.do(ctx, method, u, []byte(values.Encode()), "application/x-www-form-urlencoded")
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, body []byte, contentType string) (*Response, error) {
	locator := u.String()
	if u.Scheme == "file" {
		return c.readFile(method, u)
	}
	if err := c.throttle.wait(ctx); err != nil {
		return nil, &TransportError{Method: method, Locator: locator, Reason: err.Error(), Err: err}
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, locator, reader)
	if err != nil {
		return nil, &TransportError{Method: method, Locator: locator, Reason: "failed to create request", Err: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html, application/json;q=0.9, text/plain;q=0.8")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	events.Fetch.Request(method, locator)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		te := &TransportError{Method: method, Locator: locator, Reason: err.Error(), Err: err}
		events.Fetch.Error(method, locator, te)
		return nil, te
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes+1))
	duration := time.Since(start)
	if err != nil {
		te := &TransportError{Method: method, Locator: locator, Status: resp.StatusCode, Reason: "failed to read response body", Err: err}
		events.Fetch.Error(method, locator, te)
		return nil, te
	}
	if int64(len(data)) > c.opts.MaxBodyBytes {
		te := &TransportError{
			Method:  method,
			Locator: locator,
			Status:  resp.StatusCode,
			Reason:  fmt.Sprintf("response exceeds %s", humanize.IBytes(uint64(c.opts.MaxBodyBytes))),
		}
		events.Fetch.Error(method, locator, te)
		return nil, te
	}
	events.Fetch.Response(method, locator, resp.StatusCode, len(data), duration.Milliseconds())
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		te := &TransportError{Method: method, Locator: locator, Status: resp.StatusCode, Reason: statusReason(resp)}
		events.Fetch.Error(method, locator, te)
		return nil, te
	}
	return &Response{
		Locator:     locator,
		Method:      method,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		Duration:    duration,
	}, nil
}

func (c *Client) readFile(method string, u *url.URL) (*Response, error) {
	locator := u.String()
	if method != http.MethodGet && method != http.MethodHead {
		return nil, &TransportError{Method: method, Locator: locator, Status: http.StatusMethodNotAllowed, Reason: http.StatusText(http.StatusMethodNotAllowed)}
	}
	start := time.Now()
	data, err := os.ReadFile(u.Path)
	if err != nil {
		te := &TransportError{Method: method, Locator: locator, Reason: err.Error(), Err: err}
		if errors.Is(err, fs.ErrNotExist) {
			te.Status = http.StatusNotFound
			te.Reason = http.StatusText(http.StatusNotFound)
		}
		events.Fetch.Error(method, locator, te)
		return nil, te
	}
	if int64(len(data)) > c.opts.MaxBodyBytes {
		return nil, &TransportError{
			Method:  method,
			Locator: locator,
			Reason:  fmt.Sprintf("file exceeds %s", humanize.IBytes(uint64(c.opts.MaxBodyBytes))),
		}
	}
	events.Fetch.Response(method, locator, http.StatusOK, len(data), time.Since(start).Milliseconds())
	return &Response{
		Locator:     locator,
		Method:      method,
		Status:      http.StatusOK,
		ContentType: mime.TypeByExtension(filepath.Ext(u.Path)),
		Body:        data,
		Duration:    time.Since(start),
	}, nil
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
