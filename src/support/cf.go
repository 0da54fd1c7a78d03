/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package support

/*
NearestFraction finds the best approximation c/d ≈ a/b such that
d <= maxDenominator.

Returns c, d and the error a/b - c/d as floating point.

The ADF4351 expresses the fractional part of its feedback divider as FRAC/MOD
with MOD limited to 12 bits. Fixing MOD from a channel spacing gives a grid of
frequencies that may not include the one you want at all. Asking instead for
the closest fraction with MOD <= 4095 gets within PFD/4095 of any VCO
frequency and usually much closer.

The same routine picks the Si5351 feedback and output fractions when that chip
generates the reference, where the denominator limit is 2^20 - 1.
*/
func NearestFraction(a, b, maxDenominator uint64) (c, d uint64, eps float64) {
	c, d = continuedFraction(a, b, 0, 1, maxDenominator)
	eps = float64(a)/float64(b) - float64(c)/float64(d)
	return c, d, eps
}

/*
continuedFraction finds a continued fraction approximation for a/b and
returns its rational value as two integers.

Any rational a/b can be written as

	cf(a, b) = floor(a/b) + rem(a/b) / b = floor(a/b) + 1 / cf(b, rem(a/b))

The convergents of this expansion are the best rational approximations for
their denominator. The denominators follow q[k] = q[k-2] + term*q[k-1], which
is carried down the recursion in e (q[k-1]) and f (q[k-2]) starting from 0
and 1. Recursion stops as soon as the next denominator would pass the limit.
*/
func continuedFraction(a, b, e, f, maxDenominator uint64) (c, d uint64) {
	term := a / b
	denom := f + term*e
	if denom > maxDenominator {
		return 1, 0
	}
	ax := a - term*b
	if ax == 0 {
		return term, 1
	}
	// a / b = term + ax/b = term + 1 / cf(b, ax)
	cx, dx := continuedFraction(b, ax, denom, e, maxDenominator)
	return term*cx + dx, cx
}
