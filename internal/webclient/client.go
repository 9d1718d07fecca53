// Package webclient is the outbound HTTP client source plugins fetch through.
// Each plugin gets its own Client so its default headers and interceptor
// apply to its traffic only.
package webclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"mangaparsers/internal/parser"
	"mangaparsers/pkg/utils"
)

// ErrStatus is matched by every *StatusError.
var ErrStatus = errors.New("unexpected http status")

// StatusError reports a non-2xx response that survived all retries.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// StatusCode returns the upstream status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

type Options struct {
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
	RetryMaxWait  time.Duration
	UserAgent     string
	// Transport is the base round tripper; nil means a clone of http.DefaultTransport.
	Transport http.RoundTripper
}

func OptionsFromConfig(cfg utils.HTTPConfig) Options {
	return Options{
		Timeout:       cfg.Timeout,
		RetryCount:    cfg.RetryCount,
		RetryWaitTime: cfg.RetryWaitTime,
		UserAgent:     cfg.UserAgent,
	}
}

type Client struct {
	rc   *resty.Client
	base http.RoundTripper
}

var _ parser.WebClient = (*Client)(nil)

func New(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	if opts.RetryMaxWait <= 0 {
		opts.RetryMaxWait = 30 * time.Second
	}

	rc := resty.New()
	rc.SetTransport(base)
	rc.SetLogger(logger{})
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	rc.SetHeader("Accept-Charset", "utf-8")
	rc.SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWaitTime).
		SetRetryMaxWaitTime(opts.RetryMaxWait).
		SetRetryAfter(retryAfter).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests
		})

	return &Client{rc: rc, base: base}
}

// Use binds the client to a plugin: its default headers go on every request
// and its interceptor sees every request before it leaves.
func (c *Client) Use(p parser.Parser) {
	for k, vs := range p.RequestHeaders() {
		for _, v := range vs {
			c.rc.SetHeader(k, v)
		}
	}
	c.rc.SetTransport(&interceptTransport{next: c.base, interceptor: p})
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.rc.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}

func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// retryAfter honours a Retry-After header on 429 responses, in seconds or as
// an HTTP date. Zero lets resty fall back to its backoff.
func retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp == nil || resp.StatusCode() != http.StatusTooManyRequests {
		return 0, nil
	}
	v := resp.Header().Get("Retry-After")
	if v == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		return time.Until(t), nil
	}
	return 0, nil
}

type logger struct{}

func (logger) Errorf(format string, v ...any) { log.Printf("[webclient] ERROR "+format, v...) }
func (logger) Warnf(format string, v ...any)  { log.Printf("[webclient] WARN "+format, v...) }
func (logger) Debugf(format string, v ...any) { log.Printf("[webclient] DEBUG "+format, v...) }
