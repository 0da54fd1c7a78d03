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

package softspi

import (
	"testing"
	"time"

	"adf4351/src/adf4351"
)

// wire records every line change and delay in order
type wire struct {
	data, clock, latch bool
	waited             time.Duration // time since the last clock edge
	frames             []uint32
	bits               int
	word               uint32
	errors             []string
}

type line struct {
	w    *wire
	name byte
}

func (l line) Set(high bool) {
	w := l.w
	switch l.name {
	case 'd':
		if w.clock {
			w.errors = append(w.errors, "data changed while clock high")
		}
		w.data = high
	case 'c':
		if high == w.clock {
			return
		}
		if w.waited < 2*time.Microsecond {
			w.errors = append(w.errors, "clock edge too soon")
		}
		w.waited = 0
		if high {
			if w.latch {
				w.errors = append(w.errors, "clock while deselected")
			}
			w.word = w.word<<1 | uint32(boolBit(w.data))
			w.bits++
		}
		w.clock = high
	case 'l':
		if high && !w.latch {
			if w.clock {
				w.errors = append(w.errors, "latch rose with clock high")
			}
			if w.bits != 32 {
				w.errors = append(w.errors, "frame was not 32 bits")
			}
			w.frames = append(w.frames, w.word)
		}
		if !high {
			w.bits = 0
			w.word = 0
		}
		w.latch = high
	}
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func newWire() (*wire, *Bus) {
	w := &wire{latch: true}
	b := New(line{w, 'd'}, line{w, 'c'}, line{w, 'l'}, Config{
		Delay: func(d time.Duration) { w.waited += d },
	})
	b.Configure()
	return w, b
}

func Test_writeAllOnTheWire(t *testing.T) {
	w, bus := newWire()
	bank := adf4351.NewBank()
	if err := adf4351.WriteAll(bank, bus); err != nil {
		t.Fatalf("WriteAll: %s", err)
	}
	for _, e := range w.errors {
		t.Error(e)
	}
	if len(w.frames) != 6 {
		t.Fatalf("saw %d frames, want 6", len(w.frames))
	}
	for i, f := range w.frames {
		if f != bank.Word(5-i) {
			t.Errorf("frame %d = %08x, want R%d = %08x", i, f, 5-i, bank.Word(5-i))
		}
	}
	if !w.latch || w.clock {
		t.Errorf("bus not idle after write: latch=%v clock=%v", w.latch, w.clock)
	}
}

func Test_transferMSBFirst(t *testing.T) {
	w, bus := newWire()
	bus.Select()
	bus.Tx([]byte{0x80, 0x01, 0xa5, 0x3c}, nil)
	bus.Deselect()
	if len(w.frames) != 1 || w.frames[0] != 0x8001a53c {
		t.Errorf("frames = %08x", w.frames)
	}
}

func Test_rxZeroed(t *testing.T) {
	_, bus := newWire()
	r := []byte{1, 2, 3}
	bus.Select()
	if err := bus.Tx([]byte{0xff, 0xff, 0xff}, r); err != nil {
		t.Fatalf("Tx: %s", err)
	}
	bus.Deselect()
	for i, v := range r {
		if v != 0 {
			t.Errorf("r[%d] = %d", i, v)
		}
	}
	if v, _ := bus.Transfer(0x55); v != 0 {
		t.Errorf("Transfer returned %d", v)
	}
}

func Test_defaults(t *testing.T) {
	b := New(line{}, line{}, line{}, Config{})
	if b.setup != DefaultSetup || b.hold != DefaultHold || b.delay == nil {
		t.Errorf("defaults not applied")
	}
	start := time.Now()
	Spin(50 * time.Microsecond)
	if time.Since(start) < 50*time.Microsecond {
		t.Errorf("Spin returned early")
	}
}
