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

package adf4351

import (
	"math"

	"adf4351/src/support"
)

// Device limits from the data sheet. They are only applied when
// Request.CheckLimits is set.
const (
	MaxPFD       = 32e6
	MaxRFout     = 4400e6
	MinRFout     = 35e6
	MaxREFin     = 250e6
	MinInt89     = 75
	MaxBandSel   = 125e3
	MaxBandSelHi = 500e3
	MaxMod       = 4095
	MaxInt       = 65535
)

// Request describes one frequency computation.
type Request struct {
	Target    float64 // desired output frequency (Hz)
	Reference float64 // REFin (Hz)
	Spacing   float64 // channel spacing (Hz), 0 picks the closest FRAC/MOD with MOD <= 4095
	ReduceGCD bool    // divide FRAC and MOD by their gcd

	CheckLimits    bool // enforce the data sheet limits on REFin, PFD, RFout, INT and band select clock
	AutoBandSelect bool // recompute BandClkDiv from the PFD
}

// Plan holds the values derived for one Request.
type Plan struct {
	PFD      float64 // phase detector frequency (Hz)
	Divider  uint32  // output divider, 1..64
	DivSel   uint32  // log2(Divider) as written to RfDivSel
	N        float64 // exact feedback ratio wanted
	Int      uint32
	Frac     uint32
	Mod      uint32
	BandDiv  uint32  // BandClkDiv in effect
	Achieved float64 // output frequency actually produced (Hz)
}

// PhaseDetectorFrequency computes the PFD from the reference path settings
// already held in the bank. It is zero if the R counter is zero.
func PhaseDetectorFrequency(b *Bank, ref float64) float64 {
	r := b.Get(RCountVal)
	if r == 0 {
		return 0
	}
	pfd := ref
	if b.Flag(RMul2) {
		pfd *= 2
	}
	if b.Flag(RDiv2) {
		pfd /= 2
	}
	return pfd / float64(r)
}

var dividerBands = []float64{2200e6, 1100e6, 550e6, 275e6, 137.5e6, 68.75e6}

// SelectDivider returns the RfDivSel code for an output frequency. Band
// edges belong to the band above them.
func SelectDivider(f float64) uint32 {
	for i, edge := range dividerBands {
		if f >= edge {
			return uint32(i)
		}
	}
	return uint32(len(dividerBands))
}

/*
ComputeRegisters works out INT, FRAC, MOD and the output divider for
req.Target and stores them in the bank. The reference path (R counter,
doubler, ÷2) is read from the bank, not changed.

The feedback ratio is N = Target * divider / PFD with INT = floor(N),
MOD = round(PFD / Spacing) and FRAC = round((N - INT) * MOD). With ReduceGCD
the fraction is reduced. MOD of 1 is not allowed by the chip so it is raised
to 2.

On success the fixed bits are forced (8/9 prescaler, phase word 1,
fundamental feedback) and FracVal, IntVal, ModVal and RfDivSel are written.
On any error the bank is left exactly as it was.
*/
func ComputeRegisters(b *Bank, req Request) (Plan, error) {
	var p Plan
	if req.CheckLimits && req.Reference > MaxREFin {
		return p, ErrREFinTooHigh
	}
	p.PFD = PhaseDetectorFrequency(b, req.Reference)
	if !(p.PFD > 0) || math.IsInf(p.PFD, 0) {
		return p, ErrPFD
	}
	if req.CheckLimits && p.PFD > MaxPFD {
		return p, ErrPFD
	}
	if !(req.Target > 0) || math.IsInf(req.Target, 0) {
		return p, ErrRFoutTooLow
	}
	if req.CheckLimits {
		if req.Target > MaxRFout {
			return p, ErrRFoutTooHigh
		}
		if req.Target < MinRFout {
			return p, ErrRFoutTooLow
		}
	}
	if req.Spacing < 0 || math.IsNaN(req.Spacing) {
		return p, ErrInvalidMOD
	}

	p.DivSel = SelectDivider(req.Target)
	p.Divider = 1 << p.DivSel
	p.N = req.Target * float64(p.Divider) / p.PFD
	if p.N >= MaxInt+1 {
		return p, ErrInvalidN
	}
	in := uint64(p.N)
	var frac, mod uint64
	if req.Spacing == 0 {
		frac, mod = nearestFraction(p.N - float64(in))
	} else {
		m := math.Round(p.PFD / req.Spacing)
		if m > math.MaxUint32 {
			return p, ErrInvalidMOD
		}
		mod = uint64(m)
		frac = uint64(math.Round((p.N - float64(in)) * float64(mod)))
	}
	if mod != 0 && frac >= mod {
		in++
		frac -= mod
	}
	if req.ReduceGCD && mod != 0 {
		d := gcd(mod, frac)
		mod /= d
		frac /= d
	}
	if mod < 2 {
		mod = 2
	}
	if mod > MaxMod {
		return p, ErrInvalidMOD
	}
	if in > MaxInt || (req.CheckLimits && in < MinInt89) {
		return p, ErrInvalidN
	}
	p.Int, p.Frac, p.Mod = uint32(in), uint32(frac), uint32(mod)

	p.BandDiv = b.Get(BandClkDiv)
	if req.AutoBandSelect {
		p.BandDiv = bandSelectDivider(p.PFD)
	}
	if req.CheckLimits {
		limit := MaxBandSel
		if b.Flag(BandSelMode) {
			limit = MaxBandSelHi
		}
		if p.BandDiv == 0 || p.PFD/float64(p.BandDiv) > limit {
			return p, ErrBandSelFreqTooHigh
		}
	}

	b.Set(Prescaler, 1)
	b.Set(PhaseVal, 1)
	b.Set(Feedback, 1)
	b.Set(FracVal, p.Frac)
	b.Set(IntVal, p.Int)
	b.Set(ModVal, p.Mod)
	b.Set(RfDivSel, p.DivSel)
	if req.AutoBandSelect {
		b.Set(BandClkDiv, p.BandDiv)
	}

	p.Achieved = (float64(p.Int) + float64(p.Frac)/float64(p.Mod)) * p.PFD / float64(p.Divider)
	return p, nil
}

// Resolution is the output frequency step of a plan.
func (p Plan) Resolution() float64 {
	return p.PFD / float64(p.Mod) / float64(p.Divider)
}

// nearestFraction approximates x in [0,1) by FRAC/MOD with MOD <= MaxMod.
func nearestFraction(x float64) (frac, mod uint64) {
	const scale = 1_000_000_000_000
	c, d, _ := support.NearestFraction(uint64(math.Round(x*scale)), scale, MaxMod)
	return c, d
}

// bandSelectDivider keeps the band select clock at or below 125kHz.
func bandSelectDivider(pfd float64) uint32 {
	d := math.Ceil(pfd / MaxBandSel)
	if d < 1 {
		return 1
	}
	if d > 255 {
		return 255
	}
	return uint32(d)
}

func gcd(u, v uint64) uint64 {
	for v != 0 {
		u, v = v, u%v
	}
	return u
}
