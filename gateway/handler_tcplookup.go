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

package gateway

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/sabouaram/postfix-rest-gateway/codec/tcplookup"
	"github.com/sabouaram/postfix-rest-gateway/restpool"
	"github.com/sabouaram/postfix-rest-gateway/verdict"
)

// serveTCPLookup runs the request/response loop for one tcp_table(5)
// connection: read one "get <key>" line, call the endpoint's REST
// client, write exactly one response line, repeat until EOF.
func serveTCPLookup(ctx context.Context, r *bufio.Reader, w io.Writer, client restpool.Client) error {
	for {
		req, err := tcplookup.ReadRequest(r)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, tcplookup.ErrNotImplemented):
			if werr := tcplookup.WriteNotImplemented(w); werr != nil {
				return werr
			}
			continue
		case err != nil:
			return err
		}

		v := lookupTCP(ctx, client, req.Key)

		switch v.Kind {
		case verdict.Hit:
			err = tcplookup.WriteHit(w, v.Values)
		case verdict.Miss:
			err = tcplookup.WriteMiss(w)
		case verdict.Permanent:
			err = tcplookup.WritePermanent(w, v.Message)
		default:
			err = tcplookup.WriteTransient(w, v.Message)
		}

		if err != nil {
			return err
		}
	}
}

func lookupTCP(ctx context.Context, client restpool.Client, key string) verdict.Verdict {
	res, err := client.Get(ctx, url.Values{"key": {key}})
	if err != nil {
		return verdict.ClassifyTransport(err)
	}
	return verdict.ClassifyStatus(res.Status, res.Body, false)
}
