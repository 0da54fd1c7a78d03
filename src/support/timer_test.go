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

import "testing"

func Test_timing(t *testing.T) {
	scale := uint64(0x10000)
	type testCase struct {
		args []uint32
		r    uint64
	}
	var tests = []testCase{
		{
			[]uint32{100, 40, 100, 45}, 100*scale + 40,
		},
		{
			[]uint32{100, 0xfff5, 101, 45}, 100*scale + 0xfff5,
		},
		{
			[]uint32{100, 40, 101, 45}, 101*scale + 40,
		},
	}

	for _, test := range tests {
		v := ReduceObservation(scale, test.args[0], test.args[1], test.args[2], test.args[3])
		if v != test.r {
			t.Errorf("timing(%d, %d, %d, %d, %d) = %d, want %d",
				scale, test.args[0], test.args[1], test.args[2], test.args[3], v, test.r)
		}
	}
}

// fakeTimer advances one tick per register read
type fakeTimer struct {
	t uint64
}

func (f *fakeTimer) high() uint32 {
	f.t++
	return uint32(f.t >> 32)
}

func (f *fakeTimer) low() uint32 {
	f.t++
	return uint32(f.t)
}

func Test_readTimerAcrossWrap(t *testing.T) {
	for start := uint64(1<<32 - 6); start < 1<<32+2; start++ {
		f := &fakeTimer{t: start}
		got := ReadTimer(f.high, f.low)
		// the value must be the low read (start+2) or close to it, never 2^32 off
		if got < start || got > start+4 {
			t.Errorf("start %x: read %x", start, got)
		}
	}
}

func Test_spinFor(t *testing.T) {
	f := &fakeTimer{t: 1000}
	now := func() uint64 {
		f.t++
		return f.t
	}
	SpinFor(now, 10)
	if f.t < 1010 || f.t > 1012 {
		t.Errorf("spun until %d", f.t)
	}
}
