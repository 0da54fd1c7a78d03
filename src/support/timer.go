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
ReduceObservation turns two back-to-back reads of a counter split into high
and low 32-bit words (th1, tl1, th2, tl2, read in that order) into one
consistent 64-bit value even if the low word wrapped between the reads.

The counter is assumed to advance by much less than scale/2 during the four
reads, which for the rp2040 microsecond timer is always true.
*/
func ReduceObservation(scale uint64, th1 uint32, tl1 uint32, th2 uint32, tl2 uint32) uint64 {
	if th1 == th2 {
		// no carry seen, tl1 belongs to th1
		return uint64(th1)*scale + uint64(tl1)
	}
	if tl1 < tl2 {
		// the carry happened before tl1 was read
		return uint64(th2)*scale + uint64(tl1)
	}
	// tl1 was read just before the low word wrapped
	return uint64(th1)*scale + uint64(tl1)
}

// ReadTimer samples a 64-bit timer exposed as two 32-bit registers.
func ReadTimer(high, low func() uint32) uint64 {
	th1 := high()
	tl1 := low()
	th2 := high()
	tl2 := low()
	return ReduceObservation(1<<32, th1, tl1, th2, tl2)
}

// SpinFor busy-waits until now() has advanced by ticks. Nothing else runs
// while it spins, which is the point when clocking a bus by hand.
func SpinFor(now func() uint64, ticks uint64) {
	start := now()
	for now()-start < ticks {
	}
}
