/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package restpool holds one warm REST client per configured endpoint
// and exposes the two call shapes the protocol handlers need: a GET
// with query parameters (tcp-lookup, socketmap) and a POST with an
// urlencoded form body (policy). Status-code and transport-failure
// classification is left entirely to the verdict package; restpool
// only fetches bytes.
package restpool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	libtls "github.com/sabouaram/postfix-rest-gateway/certificates"
	"github.com/sabouaram/postfix-rest-gateway/config"
	"github.com/sabouaram/postfix-rest-gateway/httpcli"
	"github.com/sabouaram/postfix-rest-gateway/verdict"
)

// Result is the raw outcome of one REST call, before any protocol- or
// status-specific classification.
type Result struct {
	Status int
	Body   []byte
}

// Client is the REST-facing side of a single configured endpoint.
type Client interface {
	// Get issues a GET request with params appended to the query string.
	Get(ctx context.Context, params url.Values) (Result, error)
	// Post issues a POST request with form urlencoded as the body.
	Post(ctx context.Context, form url.Values) (Result, error)
}

// Pool is a registry of Clients keyed by endpoint name.
type Pool interface {
	Get(name string) (Client, bool)
}

type pool struct {
	clients map[string]Client
}

// New builds a Pool with one Client per endpoint in cfg.
func New(cfg *config.Config) Pool {
	m := make(map[string]Client, len(cfg.Endpoints))
	for _, e := range cfg.Endpoints {
		m[e.Name] = newClient(e, cfg.UserAgent)
	}
	return &pool{clients: m}
}

func (p *pool) Get(name string) (Client, bool) {
	c, ok := p.clients[name]
	return c, ok
}

type client struct {
	cfg       config.Endpoint
	userAgent string
	base      httpcli.Request
}

func newClient(cfg config.Endpoint, userAgent string) *client {
	base := httpcli.New(nil)
	base.UseClientPackage("", libtls.Default, false, cfg.RequestTimeout)
	_ = base.Endpoint(cfg.Target.String())

	return &client{
		cfg:       cfg,
		userAgent: userAgent,
		base:      base,
	}
}

func (c *client) newRequest() httpcli.Request {
	r := c.base.Clone()
	r.Header("User-Agent", c.userAgent)
	if c.cfg.AuthToken != "" {
		r.Header("X-Auth-Token", c.cfg.AuthToken)
	}
	return r
}

func (c *client) Get(ctx context.Context, params url.Values) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	r := c.newRequest()
	r.Method(http.MethodGet)
	for k := range params {
		r.AddParams(k, params.Get(k))
	}

	return do(ctx, r)
}

func (c *client) Post(ctx context.Context, form url.Values) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	r := c.newRequest()
	r.Method(http.MethodPost)
	r.ContentType("application/x-www-form-urlencoded")
	r.RequestReader(strings.NewReader(form.Encode()))

	return do(ctx, r)
}

func do(ctx context.Context, r httpcli.Request) (Result, error) {
	rsp, err := r.Do(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, verdict.ErrDeadlineExceeded
		}
		return Result{}, err
	}

	defer func() {
		if rsp.Body != nil {
			_ = rsp.Body.Close()
		}
	}()

	var buf bytes.Buffer
	if rsp.Body != nil {
		if _, e := io.Copy(&buf, rsp.Body); e != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return Result{}, verdict.ErrDeadlineExceeded
			}
			return Result{}, fmt.Errorf("restpool: reading response body: %w", e)
		}
	}

	return Result{Status: rsp.StatusCode, Body: buf.Bytes()}, nil
}
