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

import (
	"errors"
	"fmt"
	"math"
)

const si5351MaxDenominator = 1<<20 - 1

// RefClock holds Si5351 settings that produce the ADF4351 reference.
type RefClock struct {
	Xtal float64 // Si5351 crystal (Hz)
	PLL  float64 // PLL frequency (Hz)
	Freq float64 // frequency actually produced (Hz)
	Eps  float64 // requested minus produced (Hz)

	Mult, Num, Denom uint32 // PLL feedback Mult + Num/Denom
	Div              uint32 // integer multisynth divider
}

/*
NewRefClock computes Si5351 settings that drive the ADF4351 REFin pin with f
Hz from a crystal of xtal Hz (typically 25 or 27MHz).

A reference feeds straight into the phase detector so any jitter on it is
multiplied up to the output. The output multisynth is therefore kept an even
integer, which the Si5351 runs in its lowest jitter mode, and the fraction is
pushed into the PLL feedback divider where it is chosen with NearestFraction.

f must lie in 10..200MHz, the range the ADF4351 accepts and the Si5351 can
make from an integer multisynth.
*/
func NewRefClock(xtal, f float64) (RefClock, error) {
	if xtal < 10e6 || xtal > 27e6 {
		return RefClock{}, errors.New("RefClock: invalid crystal frequency")
	}
	if f < 10e6 {
		return RefClock{}, errors.New("RefClock: reference below 10MHz")
	}
	if f > 200e6 {
		return RefClock{}, errors.New("RefClock: reference above 200MHz")
	}

	var div uint32
	if f > 150e6 {
		div = 4
	} else {
		// smallest even divider that puts the PLL in 600..900MHz
		div = uint32(math.Ceil(600e6 / f))
		if div%2 != 0 {
			div++
		}
		if div < 6 {
			div = 6
		}
	}
	pll := f * float64(div)
	if pll < 600e6 || pll > 900e6 {
		return RefClock{}, fmt.Errorf("RefClock: PLL %.0fHz out of range for divider %d", pll, div)
	}

	z := pll / xtal
	if z < 15 || z > 90 {
		return RefClock{}, fmt.Errorf("RefClock: feedback ratio %.3f out of range", z)
	}
	b, c, _ := NearestFraction(uint64(math.Round(z*1e12)), 1_000_000_000_000, si5351MaxDenominator)
	r := RefClock{
		Xtal:  xtal,
		Mult:  uint32(b / c),
		Num:   uint32(b % c),
		Denom: uint32(c),
		Div:   div,
	}
	r.PLL = xtal * (float64(r.Mult) + float64(r.Num)/float64(r.Denom))
	r.Freq = r.PLL / float64(r.Div)
	r.Eps = f - r.Freq
	if math.Abs(r.Eps)/f > 1e-9 {
		return RefClock{}, fmt.Errorf("RefClock: frequency error %.3gHz too large", r.Eps)
	}
	return r, nil
}
