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

	"github.com/sabouaram/postfix-rest-gateway/codec/policy"
	"github.com/sabouaram/postfix-rest-gateway/restpool"
	"github.com/sabouaram/postfix-rest-gateway/verdict"
)

// servePolicy runs the request/response loop for one smtpd_access_policy
// connection: read one attribute block, forward it as a urlencoded POST,
// translate the result into exactly one "action=..." response.
func servePolicy(ctx context.Context, r *bufio.Reader, w io.Writer, client restpool.Client) error {
	for {
		req, err := policy.ReadRequest(r)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, policy.ErrRecordTooLarge), errors.Is(err, policy.ErrValueTooLarge):
			return err
		case err != nil:
			return err
		}

		action := evaluatePolicy(ctx, client, req)
		if werr := policy.WriteAction(w, action); werr != nil {
			return werr
		}
	}
}

// evaluatePolicy maps a REST outcome to the plain-text action Postfix
// expects; a REST-supplied body is forwarded verbatim, a miss becomes
// DUNNO, a permanent failure becomes REJECT, and a transient or
// transport failure (timeout included) becomes DEFER_IF_PERMIT.
func evaluatePolicy(ctx context.Context, client restpool.Client, req policy.Request) string {
	form := url.Values{}
	for _, k := range req.Order {
		form.Set(k, req.Attributes[k])
	}

	res, err := client.Post(ctx, form)
	if err != nil {
		v := verdict.ClassifyTransport(err)
		if v.Message == "timeout" {
			return "DEFER_IF_PERMIT timeout"
		}
		return "DEFER_IF_PERMIT " + v.Message
	}

	v := verdict.ClassifyStatus(res.Status, res.Body, false)
	switch v.Kind {
	case verdict.Hit:
		if len(v.Values) > 0 {
			return v.Values[0]
		}
		return "DUNNO"
	case verdict.Miss:
		return "DUNNO"
	case verdict.Permanent:
		return "REJECT " + v.Message
	default:
		return "DEFER_IF_PERMIT " + v.Message
	}
}
