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

// Package socketmap implements Postfix's Netstring-framed socketmap_table(5)
// protocol: requests and responses are both netstrings of the form
// "<decimal-length>:<payload>,".
package socketmap

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// MaxPayload is the enforced upper bound on a netstring payload, checked
// before any buffer for it is allocated (§9 design note).
const MaxPayload = 100000

// ErrOversizedPayload is returned when the declared netstring length
// exceeds MaxPayload; the caller must close the connection.
var ErrOversizedPayload = errors.New("socketmap: netstring length exceeds maximum")

// ErrProtocol is returned for any other malformed netstring framing
// (non-numeric length, missing ':' or trailing ',', truncated payload).
var ErrProtocol = errors.New("socketmap: malformed netstring")

// Request is one parsed "<mapname> <key>" payload.
type Request struct {
	MapName string
	Key     string
}

// ReadRequest reads one netstring-framed request from r.
func ReadRequest(r *bufio.Reader) (Request, error) {
	lenStr, err := r.ReadString(':')
	if err != nil {
		if lenStr == "" {
			return Request{}, err
		}
		return Request{}, ErrProtocol
	}
	lenStr = strings.TrimSuffix(lenStr, ":")

	n, err := strconv.Atoi(lenStr)
	if err != nil || n < 0 {
		return Request{}, ErrProtocol
	}
	if n > MaxPayload {
		return Request{}, ErrOversizedPayload
	}

	payload := make([]byte, n)
	if _, err = io.ReadFull(r, payload); err != nil {
		return Request{}, ErrProtocol
	}

	term, err := r.ReadByte()
	if err != nil || term != ',' {
		return Request{}, ErrProtocol
	}

	parts := strings.SplitN(string(payload), " ", 2)
	req := Request{MapName: parts[0]}
	if len(parts) == 2 {
		req.Key = parts[1]
	}

	return req, nil
}

// writeNetstring frames payload as "<len>:<payload>,".
func writeNetstring(w io.Writer, payload string) error {
	_, err := io.WriteString(w, strconv.Itoa(len(payload))+":"+payload+",")
	return err
}

// WriteHit writes an "OK <value>" netstring; values is joined by ','
// and emitted raw (socketmap values are never percent-encoded).
func WriteHit(w io.Writer, values []string) error {
	return writeNetstring(w, "OK "+strings.Join(values, ","))
}

// WriteMiss writes the "NOTFOUND " netstring.
func WriteMiss(w io.Writer) error {
	return writeNetstring(w, "NOTFOUND ")
}

// WritePermanent writes a "PERM <message>" netstring.
func WritePermanent(w io.Writer, message string) error {
	return writeNetstring(w, "PERM "+message)
}

// WriteTransient writes a "TEMP <message>" netstring.
func WriteTransient(w io.Writer, message string) error {
	return writeNetstring(w, "TEMP "+message)
}

// WriteTimeout writes a "TIMEOUT <message>" netstring.
func WriteTimeout(w io.Writer, message string) error {
	return writeNetstring(w, "TIMEOUT "+message)
}
