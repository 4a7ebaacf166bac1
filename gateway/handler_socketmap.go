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

	"github.com/sabouaram/postfix-rest-gateway/codec/socketmap"
	"github.com/sabouaram/postfix-rest-gateway/restpool"
	"github.com/sabouaram/postfix-rest-gateway/verdict"
)

// serveSocketmap runs the request/response loop for one socketmap_table(5)
// connection. A malformed netstring is a protocol error: the connection
// is closed rather than answered.
func serveSocketmap(ctx context.Context, r *bufio.Reader, w io.Writer, client restpool.Client) error {
	for {
		req, err := socketmap.ReadRequest(r)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, socketmap.ErrOversizedPayload), errors.Is(err, socketmap.ErrProtocol):
			return err
		case err != nil:
			return err
		}

		v := lookupSocketmap(ctx, client, req.MapName, req.Key)

		switch {
		case v.Kind == verdict.Hit:
			err = socketmap.WriteHit(w, v.Values)
		case v.Kind == verdict.Miss:
			err = socketmap.WriteMiss(w)
		case v.Kind == verdict.Permanent:
			err = socketmap.WritePermanent(w, v.Message)
		case v.Message == "timeout":
			err = socketmap.WriteTimeout(w, v.Message)
		default:
			err = socketmap.WriteTransient(w, v.Message)
		}

		if err != nil {
			return err
		}
	}
}

func lookupSocketmap(ctx context.Context, client restpool.Client, name, key string) verdict.Verdict {
	res, err := client.Get(ctx, url.Values{"name": {name}, "key": {key}})
	if err != nil {
		return verdict.ClassifyTransport(err)
	}
	return verdict.ClassifyStatus(res.Status, res.Body, true)
}
