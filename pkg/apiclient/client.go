// Package apiclient talks to the club backend's REST API. Every call carries
// the admin's credentials and passes failures through the global Interceptor
// before they reach the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/robocore-nitk/club-admin/pkg/logging"
)

const defaultTimeout = 30 * time.Second

type Options struct {
	BaseURL       string
	Authorization string
	// SessionCookie is preloaded into the cookie jar for the base URL.
	SessionCookie   *http.Cookie
	Timeout         time.Duration
	HTTPClient      *http.Client
	Interceptor     *Interceptor
	Logger          *logrus.Logger
	RequestIDHeader string
	Metrics         *Metrics
	// TracerProvider defaults to the global provider, a no-op unless one is
	// installed.
	TracerProvider trace.TracerProvider
}

type Client struct {
	baseURL         *url.URL
	authorization   string
	httpClient      *http.Client
	interceptor     *Interceptor
	log             *logrus.Entry
	requestIDHeader string
	metrics         *Metrics
	tracer          trace.Tracer
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base url %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, errors.Wrap(err, "cookie jar")
		}
		httpClient.Jar = jar
	}
	if opts.SessionCookie != nil {
		httpClient.Jar.SetCookies(u, []*http.Cookie{opts.SessionCookie})
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Client{
		baseURL:         u,
		authorization:   strings.TrimSpace(opts.Authorization),
		httpClient:      httpClient,
		interceptor:     opts.Interceptor,
		log:             logger.WithField("component", "apiclient"),
		requestIDHeader: opts.RequestIDHeader,
		metrics:         opts.Metrics,
		tracer:          tp.Tracer("club-admin/apiclient"),
	}, nil
}

type Request struct {
	Method    string
	Path      string
	Query     url.Values
	Body      any
	Multipart *Multipart
}

// Do performs req and decodes a 2xx body into out. Context cancellation is
// returned as the context error; every other failure is an *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", req.Path),
		),
	)
	defer span.End()

	err := c.do(ctx, req, out)
	if err == nil || IsCanceled(err) {
		return err
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return c.interceptor.Handle(err)
}

func (c *Client) do(ctx context.Context, r Request, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + r.Path
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.Multipart != nil:
		ct, b, err := r.Multipart.encode()
		if err != nil {
			return &Error{Kind: KindClient, Method: r.Method, Path: r.Path, Err: err}
		}
		body, contentType = bytes.NewReader(b), ct
	case r.Body != nil:
		b, err := json.Marshal(r.Body)
		if err != nil {
			return &Error{Kind: KindClient, Method: r.Method, Path: r.Path, Err: errors.Wrap(err, "json marshal request")}
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), body)
	if err != nil {
		return &Error{Kind: KindClient, Method: r.Method, Path: r.Path, Err: errors.Wrap(err, "http request")}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))

	log := c.log.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.Path,
		"request_id": requestID,
	})

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		canceled := errors.Is(ctx.Err(), context.Canceled)
		c.metrics.observe(r.Method, 0, canceled, time.Since(started))
		if canceled {
			log.Debug("request canceled")
			return ctx.Err()
		}
		log.WithError(err).Warn("request failed without response")
		return &Error{Kind: KindNetwork, Method: r.Method, Path: r.Path, Message: "backend unreachable", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	c.metrics.observe(r.Method, resp.StatusCode, false, time.Since(started))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration": time.Since(started)})
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		log.WithError(err).Warn("reading response failed")
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Method: r.Method, Path: r.Path, Err: errors.Wrap(err, "http read")}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Kind:   kindForStatus(resp.StatusCode),
			Status: resp.StatusCode,
			Method: r.Method,
			Path:   r.Path,
		}
		parseErrorBody(apiErr, respBody)
		if apiErr.Message == "" && len(apiErr.Fields) == 0 {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		log.WithField("code", apiErr.Code).Warn(apiErr.Error())
		return apiErr
	}
	log.Debug("request completed")

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindClient, Status: resp.StatusCode, Method: r.Method, Path: r.Path, Err: errors.Wrap(err, "json unmarshal response")}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func (c *Client) PostMultipart(ctx context.Context, path string, body *Multipart, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Multipart: body}, out)
}

func (c *Client) PatchMultipart(ctx context.Context, path string, body *Multipart, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Multipart: body}, out)
}
