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

// Package gateway binds one net.Listener per configured endpoint and
// dispatches each accepted connection to the protocol handler matching
// the endpoint's mode. It supervises the whole listener set as one
// unit: any fatal bind/accept error tears the rest down, and shutdown
// drains in-flight connections before returning.
package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sabouaram/postfix-rest-gateway/config"
	errpool "github.com/sabouaram/postfix-rest-gateway/errors/pool"
	"github.com/sabouaram/postfix-rest-gateway/logger"
	loglvl "github.com/sabouaram/postfix-rest-gateway/logger/level"
	"github.com/sabouaram/postfix-rest-gateway/restpool"
	"github.com/sabouaram/postfix-rest-gateway/runner"
)

// DefaultDrainTimeout bounds how long Run waits for in-flight
// connections to finish after ctx is cancelled before forcing them closed.
const DefaultDrainTimeout = 10 * time.Second

// Gateway supervises one net.Listener per endpoint.
type Gateway struct {
	endpoints    []config.Endpoint
	pool         restpool.Pool
	drainTimeout time.Duration
	log          logger.Logger

	mu        sync.Mutex
	listeners []net.Listener
	wg        sync.WaitGroup
	conns     sync.Map // net.Conn -> struct{}, tracks in-flight connections for drain
}

// New builds a Gateway for every endpoint in cfg, with a REST client
// pool already wired for each one.
func New(cfg *config.Config, pool restpool.Pool) *Gateway {
	return &Gateway{
		endpoints:    cfg.Endpoints,
		pool:         pool,
		drainTimeout: DefaultDrainTimeout,
		log:          logger.GetDefault(),
	}
}

// Run binds every endpoint's listener and serves connections until ctx
// is cancelled or a listener fails fatally. It returns once every
// accept loop has stopped and in-flight connections have drained (or
// the drain timeout elapsed). If an endpoint fails to bind, Run closes
// the listeners already bound and returns the bind error at once.
func (g *Gateway) Run(ctx context.Context) error {
	grp, gctx := errgroup.WithContext(ctx)

	for _, ep := range g.endpoints {
		ep := ep

		client, ok := g.pool.Get(ep.Name)
		if !ok {
			return fmt.Errorf("gateway: no rest client registered for endpoint %q", ep.Name)
		}

		ln, err := net.Listen("tcp", ep.Bindable())
		if err != nil {
			g.closeListeners()
			return fmt.Errorf("gateway: bind %s (%s): %w", ep.Bindable(), ep.Name, err)
		}

		g.mu.Lock()
		g.listeners = append(g.listeners, ln)
		g.mu.Unlock()

		grp.Go(func() error {
			return g.acceptLoop(gctx, ep, ln, client)
		})
	}

	grp.Go(func() error {
		<-gctx.Done()
		g.closeListeners()
		return nil
	})

	err := grp.Wait()
	g.drain()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (g *Gateway) closeListeners() {
	g.mu.Lock()
	defer g.mu.Unlock()

	errs := errpool.New()
	for _, ln := range g.listeners {
		errs.Add(ln.Close())
	}

	if err := errs.Error(); err != nil {
		g.log.Entry(loglvl.WarnLevel, "gateway: error closing listeners").ErrorAdd(true, err).Log()
	}
}

func (g *Gateway) drain() {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(g.drainTimeout):
		n := g.closeTrackedConns()
		g.log.Entry(loglvl.WarnLevel, "gateway: drain timeout exceeded, forcing remaining connections closed").
			FieldAdd("conns_closed", n).Log()
		<-done
	}
}

// closeTrackedConns force-closes every connection still registered in
// g.conns and returns how many it closed.
func (g *Gateway) closeTrackedConns() int {
	n := 0
	g.conns.Range(func(key, _ interface{}) bool {
		if conn, ok := key.(net.Conn); ok {
			_ = conn.Close()
			n++
		}
		return true
	})
	return n
}

func (g *Gateway) acceptLoop(ctx context.Context, ep config.Endpoint, ln net.Listener, client restpool.Client) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("gateway: accept on %s (%s): %w", ep.Bindable(), ep.Name, err)
		}

		g.wg.Add(1)
		go g.serveConn(ctx, ep, conn, client)
	}
}

func (g *Gateway) serveConn(ctx context.Context, ep config.Endpoint, conn net.Conn, client restpool.Client) {
	g.conns.Store(conn, struct{}{})
	defer g.conns.Delete(conn)
	defer g.wg.Done()
	defer func() {
		runner.RecoveryCaller("gateway.serveConn", recover(), ep.Name)
	}()
	defer func() {
		_ = conn.Close()
	}()

	r := bufio.NewReader(conn)

	// Writes go straight to conn, unbuffered: every protocol here is a
	// strict request/response alternation, so a response must reach the
	// wire before the next request can arrive.
	var err error
	switch ep.Mode {
	case config.ModeTCPLookup:
		err = serveTCPLookup(ctx, r, conn, client)
	case config.ModeSocketmap:
		err = serveSocketmap(ctx, r, conn, client)
	case config.ModePolicy:
		err = servePolicy(ctx, r, conn, client)
	default:
		err = fmt.Errorf("gateway: endpoint %q has unknown mode %q", ep.Name, ep.Mode)
	}

	if err != nil {
		g.log.Entry(loglvl.WarnLevel, "connection closed with error").
			ErrorAdd(true, err).
			FieldAdd("endpoint", ep.Name).
			FieldAdd("mode", string(ep.Mode)).
			Log()
	}
}
