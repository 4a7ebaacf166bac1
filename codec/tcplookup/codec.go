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

// Package tcplookup implements Postfix's line-based tcp_table(5) lookup
// protocol: one "get <key>\n" per request, one "<code> <text>\n" per
// response, pipelined over the same connection.
package tcplookup

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// ErrNotImplemented is returned by ReadRequest for any command other
// than "get" (such as "put"); the caller must reply with the NotImplemented response
// and keep the connection open (put is rejected, not silently ignored).
var ErrNotImplemented = errors.New("tcplookup: put not implemented")

// Request is one parsed "get <key>" line.
type Request struct {
	Key string // percent-decoded
}

// ReadRequest reads and parses a single request line from r. io.EOF is
// returned unwrapped when the connection has nothing left to read.
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return Request{}, err
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	parts := strings.SplitN(line, " ", 2)
	cmd := parts[0]
	var key string
	if len(parts) == 2 {
		key = parts[1]
	}

	if !strings.EqualFold(cmd, "get") {
		return Request{}, ErrNotImplemented
	}

	return Request{Key: PercentDecode(key)}, nil
}

// WriteHit writes a "200 <value>\n" hit response; values is joined with
// ',' and each value re-encoded with the same Postfix percent-codec used
// to decode inbound keys.
func WriteHit(w io.Writer, values []string) error {
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = PercentEncode(v)
	}
	_, err := io.WriteString(w, "200 "+strings.Join(encoded, ",")+"\n")
	return err
}

// WriteMiss writes the "500 " (trailing space, no text) not-found line.
func WriteMiss(w io.Writer) error {
	_, err := io.WriteString(w, "500 \n")
	return err
}

// WritePermanent writes a "500 <message>\n" permanent-error response.
func WritePermanent(w io.Writer, message string) error {
	_, err := io.WriteString(w, "500 "+message+"\n")
	return err
}

// WriteTransient writes a "400 <message>\n" transient-error response.
func WriteTransient(w io.Writer, message string) error {
	_, err := io.WriteString(w, "400 "+message+"\n")
	return err
}

// WriteNotImplemented writes the "500 not implemented\n" response for
// any command other than "get" (Open Question #1, resolved as rejection).
func WriteNotImplemented(w io.Writer) error {
	return WritePermanent(w, "not implemented")
}
