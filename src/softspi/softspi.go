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

/*
Package softspi clocks bytes out on three GPIO lines: data, clock and a
latch/enable line. It is transmit only, mode 0 (clock idles low, data is
sampled on the rising edge) and most significant bit first. This is the
interface of the ADF4351 and of many other PLL and DAC chips that latch a
shift register on the rising edge of LE.
*/
package softspi

import (
	"time"

	"tinygo.org/x/drivers"
)

// Pin is an output line. machine.Pin satisfies it.
type Pin interface {
	Set(high bool)
}

// Config sets the bit timing. Zero values pick the defaults.
type Config struct {
	Setup time.Duration // data valid before the clock rises, default 2µs
	Hold  time.Duration // clock high time, default 2µs

	// Delay waits for the given time without yielding. Defaults to Spin.
	Delay func(time.Duration)
}

const (
	DefaultSetup = 2 * time.Microsecond
	DefaultHold  = 2 * time.Microsecond
)

// Bus is a bit-banged 3-wire transmitter. It is not safe for concurrent use
// and must not be called from an interrupt handler.
type Bus struct {
	data, clock, latch Pin
	setup, hold        time.Duration
	delay              func(time.Duration)
}

var _ drivers.SPI = (*Bus)(nil)

func New(data, clock, latch Pin, cfg Config) *Bus {
	b := &Bus{
		data:  data,
		clock: clock,
		latch: latch,
		setup: cfg.Setup,
		hold:  cfg.Hold,
		delay: cfg.Delay,
	}
	if b.setup <= 0 {
		b.setup = DefaultSetup
	}
	if b.hold <= 0 {
		b.hold = DefaultHold
	}
	if b.delay == nil {
		b.delay = Spin
	}
	return b
}

// Configure puts the lines in their idle state: latch high, clock low.
func (b *Bus) Configure() {
	b.latch.Set(true)
	b.clock.Set(false)
}

// Select pulls the latch line low to start a frame.
func (b *Bus) Select() {
	b.latch.Set(false)
}

// Deselect releases the latch line. The rising edge loads the frame.
func (b *Bus) Deselect() {
	b.latch.Set(true)
}

// Transfer clocks out one byte. There is no receive line so it returns 0.
func (b *Bus) Transfer(w byte) (byte, error) {
	for i := 0; i < 8; i++ {
		b.data.Set(w&0x80 != 0)
		b.delay(b.setup)
		b.clock.Set(true)
		b.delay(b.hold)
		b.clock.Set(false)
		w <<= 1
	}
	return 0, nil
}

// Tx clocks out every byte of w. If r is given it is zeroed.
func (b *Bus) Tx(w, r []byte) error {
	for _, v := range w {
		b.Transfer(v)
	}
	for i := range r {
		r[i] = 0
	}
	return nil
}

// Spin busy-waits using the monotonic clock.
func Spin(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
