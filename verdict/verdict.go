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

// Package verdict implements the single status-code-to-outcome mapping
// shared by every protocol handler, so tcp-lookup, socketmap and policy
// never each reimplement their own reading of a REST response.
package verdict

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies a completed REST call for translation back into the
// wire format of whichever Postfix protocol is in use.
type Kind uint8

const (
	// Hit is a successful lookup with a non-empty result.
	Hit Kind = iota
	// Miss is a successful lookup with no result (404, or 200 with an
	// empty body / empty JSON array).
	Miss
	// Permanent is an error Postfix must not retry.
	Permanent
	// Transient is an error Postfix should retry later.
	Transient
)

// Verdict is the outcome of one REST call, already classified and with
// any hit values decoded.
type Verdict struct {
	Kind    Kind
	Values  []string // populated only for Hit
	Message string   // populated for Permanent/Transient
}

// ErrDeadlineExceeded is returned by callers of Classify in place of a
// REST error when the per-call deadline elapsed.
var ErrDeadlineExceeded = errors.New("verdict: rest call deadline exceeded")

// ClassifyTransport turns a transport-level failure (DNS, connect, TLS,
// read, or deadline) into a Transient verdict; deadline exceeded gets a
// distinguishable message so socketmap/policy can emit TIMEOUT/TEMP.
func ClassifyTransport(err error) Verdict {
	if errors.Is(err, ErrDeadlineExceeded) {
		return Verdict{Kind: Transient, Message: "timeout"}
	}
	return Verdict{Kind: Transient, Message: err.Error()}
}

// ClassifyStatus maps an HTTP status code and body to a Verdict per the
// uniform status-mapping table (§4.D): 200 with a body is a hit, 200
// empty or 404 is a miss, other 4xx is permanent, 5xx is transient.
//
// requireJSONArray controls Open Question #2's resolution: tcp-lookup
// passes false (a non-JSON 200 body is a single-value hit), socketmap
// passes true (a non-JSON 200 body is a permanent error, since a JSON
// array is mandatory there).
func ClassifyStatus(status int, body []byte, requireJSONArray bool) Verdict {
	switch {
	case status == 404:
		return Verdict{Kind: Miss}
	case status >= 200 && status < 300:
		return classifyHit(body, requireJSONArray)
	case status >= 400 && status < 500:
		return Verdict{Kind: Permanent, Message: fmt.Sprintf("rest backend returned status %d", status)}
	default:
		return Verdict{Kind: Transient, Message: fmt.Sprintf("rest backend returned status %d", status)}
	}
}

func classifyHit(body []byte, requireJSONArray bool) Verdict {
	trimmed := trimSpace(body)
	if len(trimmed) == 0 {
		return Verdict{Kind: Miss}
	}

	var values []string
	if err := json.Unmarshal(trimmed, &values); err == nil {
		if len(values) == 0 {
			return Verdict{Kind: Miss}
		}
		return Verdict{Kind: Hit, Values: values}
	}

	if requireJSONArray {
		return Verdict{Kind: Permanent, Message: "rest backend returned a non-JSON-array body"}
	}

	var single string
	if err := json.Unmarshal(trimmed, &single); err == nil {
		if single == "" {
			return Verdict{Kind: Miss}
		}
		return Verdict{Kind: Hit, Values: []string{single}}
	}

	return Verdict{Kind: Hit, Values: []string{string(trimmed)}}
}

func trimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
