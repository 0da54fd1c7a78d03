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
	"machine"
	"strings"
	"time"

	"adf4351/src/panel"
)

const keypadPoll = 100 * time.Microsecond

var quadrature panel.Quadrature

func rotaryState() uint8 {
	var s uint8
	if PinRotaryA.Get() {
		s |= 1
	}
	if PinRotaryB.Get() {
		s |= 2
	}
	return s
}

// StartInputs hooks the rotary encoder to pin interrupts and starts polling
// the keypad. Both only post events; nothing else is touched from here.
func StartInputs(q *panel.Queue) error {
	for _, p := range []machine.Pin{PinRotaryA, PinRotaryB} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	quadrature.Feed(rotaryState())
	handler := func(machine.Pin) {
		if d := quadrature.Feed(rotaryState()); d != 0 {
			q.Post(panel.Event{Kind: panel.EventRotate, Delta: d})
		}
	}
	for _, p := range []machine.Pin{PinRotaryA, PinRotaryB} {
		if err := p.SetInterrupt(machine.PinToggle, handler); err != nil {
			return err
		}
	}

	machine.InitADC()
	adc := machine.ADC{Pin: PinKeypad}
	adc.Configure(machine.ADCConfig{})
	go func() {
		scanner := panel.NewKeyScanner()
		for {
			// the ladder thresholds are for a 10-bit converter
			if e, ok := scanner.Feed(adc.Get() >> 6); ok {
				q.Post(e)
			}
			time.Sleep(keypadPoll)
		}
	}()
	return nil
}

// StartConsole collects lines typed on the USB serial port.
func StartConsole() <-chan string {
	lines := make(chan string, 4)
	go func() {
		var buf strings.Builder
		for {
			if machine.Serial.Buffered() == 0 {
				time.Sleep(10 * time.Millisecond)
				continue
			}
			b, err := machine.Serial.ReadByte()
			if err != nil {
				continue
			}
			switch b {
			case '\r', '\n':
				if buf.Len() > 0 {
					lines <- buf.String()
					buf.Reset()
				}
			default:
				if buf.Len() < 80 {
					buf.WriteByte(b)
				}
			}
		}
	}()
	return lines
}
