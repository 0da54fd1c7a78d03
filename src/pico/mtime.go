//go:build rp2040

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

package pico

import (
	"device/rp"
	"time"

	"adf4351/src/support"
)

func timerHigh() uint32 { return rp.TIMER.TIMERAWH.Get() }
func timerLow() uint32  { return rp.TIMER.TIMERAWL.Get() }

// MicroTime is the number of microseconds since power up.
func MicroTime() uint64 {
	return support.ReadTimer(timerHigh, timerLow)
}

// BusyWait spins on the hardware timer. Unlike time.Sleep it never lets the
// scheduler run another goroutine, so bus timing is not stretched.
func BusyWait(d time.Duration) {
	us := uint64((d + time.Microsecond - 1) / time.Microsecond)
	// a read can land just before the timer ticks, so wait one more
	support.SpinFor(MicroTime, us+1)
}
