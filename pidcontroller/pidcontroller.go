/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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
 */

// Package pidcontroller provides a small discrete PID (proportional-
// integral-derivative) step generator, used by the duration package to
// space out a range of retry/backoff durations between a start and end
// value instead of a plain linear or exponential progression.
package pidcontroller

import "context"

// Controller holds the proportional, integral and derivative rates applied
// at each step.
type Controller struct {
	kp, ki, kd float64
}

// New returns a Controller with the given rates.
func New(rateProportional, rateIntegral, rateDerivative float64) *Controller {
	return &Controller{kp: rateProportional, ki: rateIntegral, kd: rateDerivative}
}

// maxSteps bounds the walk so a pathological (near-zero) rate set can never
// spin forever.
const maxSteps = 64

// RangeCtx walks from start toward end, using the PID loop's error term to
// size each step, and returns the visited values (start included, end
// never included once start != end; the walk stops as soon as a step
// reaches or passes end). It returns early, with whatever was
// accumulated so far, if ctx is canceled.
func (c *Controller) RangeCtx(ctx context.Context, start, end float64) []float64 {
	if start == end {
		return []float64{start}
	}

	direction := 1.0
	if end < start {
		direction = -1.0
	}

	out := make([]float64, 0, maxSteps)
	current := start

	var integral, prevErr float64

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		out = append(out, current)

		err := (end - current) * direction
		if err <= 0 {
			break
		}

		integral += err
		derivative := err - prevErr
		prevErr = err

		step := c.kp*err + c.ki*integral + c.kd*derivative
		if step <= 0 {
			// degenerate rates: fall back to halving the remaining distance
			// so the walk still converges.
			step = err / 2
		}

		current += direction * step

		if (direction > 0 && current >= end) || (direction < 0 && current <= end) {
			break
		}
	}

	return out
}
