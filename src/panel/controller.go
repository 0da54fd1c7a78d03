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
Package panel is the front panel of the signal generator: a resistor ladder
keypad read by the ADC, a rotary encoder, and a 16x2 character LCD. Input
producers turn raw samples into Events; the Controller turns Events into
frequency and output changes and hands them to a Tuner.
*/
package panel

import (
	"fmt"
	"strings"
)

const (
	MinKHz     = 35_000
	MaxKHz     = 4_400_000
	StartKHz   = 410_000
	maxDigits  = 10
	detentStep = 4
)

// Steps are the tuning increments in kHz.
var Steps = [4]uint32{100, 1000, 10000, 100000}

var stepLabels = [4]string{"0.1M", " 1M ", " 10M", "100M"}

// Tuner programs the synthesizer. adf4351.Synthesizer satisfies it.
type Tuner interface {
	Tune(hz float64, enable bool) error
}

// Controller holds the front panel state. It is driven from the main loop
// only.
type Controller struct {
	tuner Tuner

	KHz       uint32
	On        bool
	StepIndex int
	Scanning  bool
	ScanDir   int8
	Err       error // result of the last Tune

	editing bool
	input   []byte
	rotary  int
}

func NewController(t Tuner) *Controller {
	return &Controller{
		tuner:     t,
		KHz:       StartKHz,
		On:        true,
		StepIndex: 1,
	}
}

// Step is the current tuning increment in kHz.
func (c *Controller) Step() uint32 {
	return Steps[c.StepIndex]
}

// Editing reports whether a frequency is being typed in.
func (c *Controller) Editing() bool {
	return c.editing
}

func clamp(khz int64) uint32 {
	if khz < MinKHz {
		return MinKHz
	}
	if khz > MaxKHz {
		return MaxKHz
	}
	return uint32(khz)
}

func (c *Controller) move(steps int64) {
	c.KHz = clamp(int64(c.KHz) + steps*int64(c.Step()))
}

// Apply sends the current frequency and output state to the tuner.
func (c *Controller) Apply() error {
	c.Err = c.tuner.Tune(float64(c.KHz)*1e3, c.On)
	return c.Err
}

// SetFrequency sets the frequency in kHz, clamped to the supported range,
// and retunes if the output is on.
func (c *Controller) SetFrequency(khz uint32) error {
	c.KHz = clamp(int64(khz))
	if c.On {
		return c.Apply()
	}
	return nil
}

// SetOutput switches the output and retunes.
func (c *Controller) SetOutput(on bool) error {
	c.On = on
	return c.Apply()
}

// CycleStep moves to the next tuning increment.
func (c *Controller) CycleStep() {
	c.StepIndex = (c.StepIndex + 1) % len(Steps)
}

// Handle acts on one input event.
func (c *Controller) Handle(e Event) error {
	switch e.Kind {
	case EventRotate:
		return c.rotate(int(e.Delta))
	case EventScan:
		c.Scanning = true
		c.ScanDir = e.Delta
		return nil
	case EventKey:
		return c.key(e.Key)
	}
	return nil
}

// rotate accumulates encoder steps and moves one increment per detent.
func (c *Controller) rotate(delta int) error {
	c.rotary += delta
	clicks := c.rotary / detentStep
	c.rotary %= detentStep
	if clicks == 0 {
		return nil
	}
	c.move(int64(clicks))
	if c.On {
		return c.Apply()
	}
	return nil
}

func (c *Controller) key(k Key) error {
	if c.Scanning {
		c.Scanning = false
		if k == KeyClear {
			return c.SetOutput(false)
		}
		return nil
	}
	switch {
	case k.IsDigit():
		if !c.editing {
			c.editing = true
			c.input = c.input[:0]
		}
		if len(c.input) < maxDigits {
			c.input = append(c.input, byte(k))
		}
	case k == KeyOK:
		if c.editing {
			c.KHz = clamp(int64(parseDigits(c.input)) * 1000)
			c.editing = false
		} else {
			c.On = !c.On
		}
		return c.Apply()
	case k == KeyStep:
		c.CycleStep()
	case k == KeyClear:
		c.On = false
		c.editing = false
		return c.Apply()
	case k == KeyUp, k == KeyDown:
		if k == KeyUp {
			c.move(1)
		} else {
			c.move(-1)
		}
		if c.On {
			return c.Apply()
		}
	}
	return nil
}

func parseDigits(b []byte) uint64 {
	v := uint64(0)
	for _, d := range b {
		if d >= '0' && d <= '9' {
			v = v*10 + uint64(d-'0')
		}
	}
	return v
}

// ScanTick advances a running scan by one increment. Scanning turns the
// output on.
func (c *Controller) ScanTick() error {
	if !c.Scanning {
		return nil
	}
	c.move(int64(c.ScanDir))
	c.On = true
	return c.Apply()
}

// Lines renders the two 16 character display lines.
func (c *Controller) Lines() [2]string {
	var top string
	if c.editing {
		top = "Set:" + string(c.input) + " MHz  "
	} else {
		top = fmt.Sprintf("%d.%03d MHz ", c.KHz/1000, c.KHz%1000)
	}
	bottom := stepLabels[c.StepIndex]
	switch {
	case c.Err != nil:
		bottom += "   ERROR"
	case c.On:
		bottom += "  >> ON "
	default:
		bottom += "     OFF"
	}
	return [2]string{pad(top), pad(bottom)}
}

func pad(s string) string {
	if len(s) >= 16 {
		return s
	}
	return s + strings.Repeat(" ", 16-len(s))
}

// Display is a character LCD. The hd44780 driver satisfies it.
type Display interface {
	SetCursor(x, y uint8)
	Write(data []byte) (int, error)
	Display() error
}

// Render draws the controller state.
func (c *Controller) Render(d Display) error {
	for y, s := range c.Lines() {
		d.SetCursor(0, uint8(y))
		if _, err := d.Write([]byte(s)); err != nil {
			return err
		}
	}
	return d.Display()
}
