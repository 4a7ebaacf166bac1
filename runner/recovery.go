/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package runner holds small goroutine-lifecycle helpers shared by the
// gateway's long-running workers (listeners, hook writers, dialer pools).
package runner

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
)

// RecoveryCaller logs a panic recovered via recover(), tagging it with the
// caller's package/function path so it can be traced back through a defer
// chain. It is a no-op when recovered is nil. context, when given, is
// appended as additional free-form detail (e.g. the resource being handled
// when the panic occurred).
//
// recover() only stops a panic when called directly by a deferred
// function, so call it from inside a deferred closure:
//
//	defer func() { runner.RecoveryCaller("pkg/Type.Method", recover()) }()
func RecoveryCaller(caller string, recovered interface{}, context ...string) {
	if recovered == nil {
		return
	}

	msg := fmt.Sprintf("panic recovered in %s: %v", caller, recovered)
	if len(context) > 0 {
		msg += " (" + strings.Join(context, ", ") + ")"
	}

	fmt.Fprintln(os.Stderr, msg)
	fmt.Fprintln(os.Stderr, string(debug.Stack()))
}
