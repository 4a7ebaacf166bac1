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

// Package policy implements Postfix's SMTPD_POLICY_README delegation
// protocol: a block of "attribute=value" lines terminated by a blank
// line, answered with a single "action=<VALUE>" line plus a terminating
// blank line.
package policy

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"strings"
)

// MaxRecordBytes and MaxValueBytes bound one policy record and one
// attribute value respectively; exceeding either closes the connection.
const (
	MaxRecordBytes = 100 * 1024
	MaxValueBytes  = 100 * 1024
)

// ErrRecordTooLarge is returned when the accumulated record exceeds MaxRecordBytes.
var ErrRecordTooLarge = errors.New("policy: record exceeds maximum size")

// ErrValueTooLarge is returned when a single attribute value exceeds MaxValueBytes.
var ErrValueTooLarge = errors.New("policy: attribute value exceeds maximum size")

// Request is the accumulated set of attribute=value pairs for one record.
type Request struct {
	Attributes map[string]string
	Order      []string // preserves attribute order for deterministic encoding
}

// Encode renders the request as application/x-www-form-urlencoded body
// bytes, the shape the policy handler forwards to the REST target.
func (r Request) Encode() string {
	v := url.Values{}
	for _, k := range r.Order {
		v.Add(k, r.Attributes[k])
	}
	return v.Encode()
}

// ReadRequest reads attribute=value lines until a blank line.
func ReadRequest(r *bufio.Reader) (Request, error) {
	req := Request{Attributes: make(map[string]string)}
	total := 0

	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return Request{}, err
		}

		total += len(line)
		if total > MaxRecordBytes {
			return Request{}, ErrRecordTooLarge
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		if line == "" {
			break
		}

		kv := strings.SplitN(line, "=", 2)
		key := kv[0]
		var val string
		if len(kv) == 2 {
			val = kv[1]
		}

		if len(val) > MaxValueBytes {
			return Request{}, ErrValueTooLarge
		}

		if _, seen := req.Attributes[key]; !seen {
			req.Order = append(req.Order, key)
		}
		req.Attributes[key] = val

		if err != nil {
			// EOF right after the last attribute line with no blank terminator:
			// the attributes read so far are returned as a complete record, and
			// the next call reports io.EOF.
			return req, nil
		}
	}

	return req, nil
}

// WriteAction writes the "action=<VALUE>\n\n" response. If body already
// begins with "action=" it is forwarded verbatim (still blank-line
// terminated); otherwise it is wrapped with the "action=" prefix.
func WriteAction(w io.Writer, body string) error {
	body = strings.TrimRight(body, "\r\n")
	if !strings.HasPrefix(body, "action=") {
		body = "action=" + body
	}
	_, err := io.WriteString(w, body+"\n\n")
	return err
}
