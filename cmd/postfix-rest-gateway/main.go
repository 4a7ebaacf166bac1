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

// Command postfix-rest-gateway loads a JSON endpoint configuration,
// binds a listener per endpoint, and bridges Postfix's tcp-lookup,
// socketmap and policy-delegation protocols to HTTP/REST backends
// until SIGINT/SIGTERM requests a drain-and-exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/sabouaram/postfix-rest-gateway/config"
	"github.com/sabouaram/postfix-rest-gateway/gateway"
	"github.com/sabouaram/postfix-rest-gateway/logger"
	loglvl "github.com/sabouaram/postfix-rest-gateway/logger/level"
	"github.com/sabouaram/postfix-rest-gateway/restpool"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <config.json>\n", os.Args[0])
		return 1
	}

	applyEnvironment()

	log := logger.GetDefault()

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Entry(loglvl.ErrorLevel, "loading configuration").ErrorAdd(true, err).Log()
		return 1
	}

	pool := restpool.New(cfg)
	gw := gateway.New(cfg, pool)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Entry(loglvl.InfoLevel, "starting gateway").FieldAdd("endpoints", len(cfg.Endpoints)).Log()

	if err = gw.Run(ctx); err != nil {
		log.Entry(loglvl.ErrorLevel, "gateway stopped").ErrorAdd(true, err).Log()
		if ctx.Err() != nil {
			return 0
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "listen" {
			return 1
		}
		return 2
	}

	log.Entry(loglvl.InfoLevel, "gateway stopped cleanly").Log()
	return 0
}

// applyEnvironment maps RUST_LOG and TOKIO_WORKER_THREADS onto this
// runtime's logging level and GOMAXPROCS, preserving the names existing
// deployment tooling already sets.
func applyEnvironment() {
	if v := os.Getenv("RUST_LOG"); v != "" {
		logger.GetDefault().SetLevel(loglvl.Parse(v))
	}

	if v := os.Getenv("TOKIO_WORKER_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			runtime.GOMAXPROCS(n)
		}
	}
}
