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

// Package console implements the line commands accepted on the USB serial
// port.
package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"adf4351/src/adf4351"
	"adf4351/src/panel"
)

const help = `commands:
  freq <f>            tune, f in Hz or with a k, M or G suffix
  on | off            switch the RF output
  step                cycle the panel tuning step
  spacing <f>         channel spacing, 0 for the closest fraction
  gcd on|off          reduce FRAC/MOD
  limits on|off       enforce data sheet limits
  plan                show INT, FRAC, MOD of the last tune
  regs                show the six register words
  get <field>         show one register field
  set <field> <v>     change one register field and send the registers
  fields              list field names
`

// Shell runs console commands against the synthesizer. Frequency and output
// changes go through the panel when there is one so the display agrees.
type Shell struct {
	Synth *adf4351.Synthesizer
	Panel *panel.Controller
	Out   io.Writer
}

var errUsage = errors.New("console: bad arguments, try help")

// Execute runs one command line.
func (s *Shell) Execute(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "help", "?":
		fmt.Fprint(s.Out, help)
	case "freq", "f":
		if len(args) != 1 {
			return errUsage
		}
		hz, err := ParseFrequency(args[0])
		if err != nil {
			return err
		}
		return s.tune(hz)
	case "on", "off":
		return s.output(cmd == "on")
	case "step":
		if s.Panel == nil {
			return errors.New("console: no front panel")
		}
		s.Panel.CycleStep()
		fmt.Fprintf(s.Out, "step %d kHz\n", s.Panel.Step())
	case "spacing":
		if len(args) != 1 {
			return errUsage
		}
		hz, err := ParseFrequency(args[0])
		if err != nil {
			return err
		}
		s.Synth.Spacing = hz
	case "gcd":
		v, err := onOff(args)
		if err != nil {
			return err
		}
		s.Synth.ReduceGCD = v
	case "limits":
		v, err := onOff(args)
		if err != nil {
			return err
		}
		s.Synth.CheckLimits = v
	case "plan":
		p, err := s.Synth.Plan()
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "PFD %.0f Hz, ÷%d, INT %d, FRAC %d, MOD %d, %.3f Hz (step %.3f Hz)\n",
			p.PFD, p.Divider, p.Int, p.Frac, p.Mod, p.Achieved, p.Resolution())
	case "regs":
		b := s.Synth.Bank()
		for k := 0; k < adf4351.NumRegisters; k++ {
			fmt.Fprintf(s.Out, "R%d = 0x%08X\n", k, b.Word(k))
		}
	case "fields":
		for _, f := range adf4351.Fields() {
			fmt.Fprintln(s.Out, f)
		}
	case "get":
		if len(args) != 1 {
			return errUsage
		}
		f, ok := adf4351.FieldByName(args[0])
		if !ok {
			return fmt.Errorf("console: no field %q", args[0])
		}
		fmt.Fprintf(s.Out, "%s = %d\n", f.Name, s.Synth.Bank().Get(f))
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		f, ok := adf4351.FieldByName(args[0])
		if !ok {
			return fmt.Errorf("console: no field %q", args[0])
		}
		v, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil {
			return fmt.Errorf("console: %w", err)
		}
		if v > uint64(f.Max()) {
			return fmt.Errorf("console: %s holds at most %d", f.Name, f.Max())
		}
		s.Synth.Bank().Set(f, uint32(v))
		return s.Synth.Sync()
	default:
		return fmt.Errorf("console: unknown command %q", cmd)
	}
	return nil
}

func (s *Shell) tune(hz float64) error {
	if s.Panel != nil {
		return s.Panel.SetFrequency(uint32(hz/1e3 + 0.5))
	}
	return s.Synth.Tune(hz, s.Synth.Output())
}

func (s *Shell) output(on bool) error {
	if s.Panel != nil {
		return s.Panel.SetOutput(on)
	}
	return s.Synth.SetOutput(on)
}

func onOff(args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	switch strings.ToLower(args[0]) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, errUsage
}

// ParseFrequency reads a frequency in Hz. A k, M or G suffix scales it and a
// trailing Hz is ignored, so "410M", "410MHz" and "410e6" are the same.
func ParseFrequency(s string) (float64, error) {
	t := strings.TrimSuffix(strings.TrimSuffix(s, "Hz"), "hz")
	scale := 1.0
	if n := len(t); n > 0 {
		switch t[n-1] {
		case 'k', 'K':
			scale = 1e3
		case 'm', 'M':
			scale = 1e6
		case 'g', 'G':
			scale = 1e9
		}
		if scale != 1 {
			t = t[:n-1]
		}
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil || !(v >= 0 && v < 1e12) {
		return 0, fmt.Errorf("console: bad frequency %q", s)
	}
	return v * scale, nil
}
