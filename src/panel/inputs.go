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

package panel

import "sync/atomic"

// Key is a front panel key. Digits are their ASCII value.
type Key byte

const (
	KeyNone  Key = 0xff
	KeyDown  Key = 'd'
	KeyUp    Key = 'u'
	KeyOK    Key = 'k'
	KeyClear Key = 'c'
	KeyStep  Key = 's'
)

func (k Key) IsDigit() bool {
	return k >= '0' && k <= '9'
}

// ladder maps 10-bit ADC readings of the resistor keypad to keys. A reading
// belongs to the first entry it is below.
var ladder = []struct {
	below uint16
	key   Key
}{
	{130, '9'},
	{200, '8'},
	{265, '7'},
	{315, '6'},
	{360, '5'},
	{400, '4'},
	{450, '3'},
	{510, '2'},
	{555, '1'},
	{595, '0'},
	{628, KeyDown},
	{656, KeyUp},
	{687, KeyOK},
	{720, KeyClear},
	{850, KeyStep},
}

// DecodeKey converts a 10-bit ADC reading into a key.
func DecodeKey(adc uint16) Key {
	if adc > 1000 {
		return KeyNone
	}
	for _, step := range ladder {
		if adc < step.below {
			return step.key
		}
	}
	return KeyNone
}

const (
	PressSamples = 300  // identical samples before a key counts
	ScanSamples  = 3000 // samples of up/down held before scanning starts
)

// KeyScanner debounces keypad samples. Feed it every ADC reading.
type KeyScanner struct {
	last Key
	hold int
}

func NewKeyScanner() *KeyScanner {
	return &KeyScanner{last: KeyNone}
}

// Feed takes one ADC reading and reports a press or the start of a scan.
func (s *KeyScanner) Feed(adc uint16) (Event, bool) {
	key := DecodeKey(adc)
	if key == KeyNone || key != s.last {
		s.hold = 0
		s.last = key
		return Event{}, false
	}
	s.hold++
	switch {
	case s.hold == PressSamples:
		return Event{Kind: EventKey, Key: key}, true
	case s.hold == ScanSamples+1 && key == KeyUp:
		return Event{Kind: EventScan, Delta: 1}, true
	case s.hold == ScanSamples+1 && key == KeyDown:
		return Event{Kind: EventScan, Delta: -1}, true
	}
	return Event{}, false
}

// Quadrature decodes the two phase outputs of a rotary encoder. An encoder
// detent is four steps.
type Quadrature struct {
	prev uint8
}

// Feed takes the current A (bit 0) and B (bit 1) levels and returns the
// step seen since the last call: -1, 0 or 1.
func (q *Quadrature) Feed(state uint8) int8 {
	state &= 3
	if state == q.prev {
		return 0
	}
	var d int8
	switch q.prev<<2 | state {
	case 0<<2 | 1, 1<<2 | 3, 3<<2 | 2, 2<<2 | 0:
		d = -1
	case 0<<2 | 2, 2<<2 | 3, 3<<2 | 1, 1<<2 | 0:
		d = 1
	}
	q.prev = state
	return d
}

type EventKind uint8

const (
	EventKey EventKind = iota
	EventRotate
	EventScan
)

// Event is something the input producers hand to the main loop. Delta is the
// rotary step for EventRotate and the direction for EventScan.
type Event struct {
	Kind  EventKind
	Key   Key
	Delta int8
}

// Queue carries events from interrupt handlers and polling goroutines to the
// main loop. Post never blocks.
type Queue struct {
	C       chan Event
	dropped atomic.Uint32
}

func NewQueue(size int) *Queue {
	return &Queue{C: make(chan Event, size)}
}

// Post offers an event without blocking. A full queue drops it.
func (q *Queue) Post(e Event) bool {
	select {
	case q.C <- e:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Dropped counts events lost to a full queue.
func (q *Queue) Dropped() uint32 {
	return q.dropped.Load()
}
