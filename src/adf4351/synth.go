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

// Config holds the settings a Synthesizer applies to every Tune.
type Config struct {
	Reference      float64 // REFin (Hz)
	Spacing        float64 // channel spacing (Hz), 0 for the closest fraction
	ReduceGCD      bool
	CheckLimits    bool
	AutoBandSelect bool

	// WriteOnError sends the registers even when the computation fails,
	// which leaves the chip on its previous frequency.
	WriteOnError bool
}

// DefaultConfig is a 25MHz reference with 100kHz channels.
func DefaultConfig() Config {
	return Config{
		Reference: 25e6,
		Spacing:   100e3,
	}
}

// Synthesizer owns a register bank and the link to the chip it mirrors.
// It must only be used from one goroutine.
type Synthesizer struct {
	Config
	bank  *Bank
	link  Link
	plan  Plan
	tuned bool
}

func NewSynthesizer(link Link, cfg Config) *Synthesizer {
	return &Synthesizer{
		Config: cfg,
		bank:   NewBank(),
		link:   link,
	}
}

// Init loads the golden configuration and sends it to the chip.
func (s *Synthesizer) Init() error {
	s.bank.Reset()
	s.tuned = false
	return s.Sync()
}

// Bank gives direct access to the shadow registers. Changes reach the chip
// on the next Sync or Tune.
func (s *Synthesizer) Bank() *Bank {
	return s.bank
}

// Sync sends the bank as it stands.
func (s *Synthesizer) Sync() error {
	return WriteAll(s.bank, s.link)
}

func (s *Synthesizer) request(hz float64) Request {
	return Request{
		Target:         hz,
		Reference:      s.Reference,
		Spacing:        s.Spacing,
		ReduceGCD:      s.ReduceGCD,
		CheckLimits:    s.CheckLimits,
		AutoBandSelect: s.AutoBandSelect,
	}
}

// Tune retunes the chip to hz with the RF output switched on or off. If the
// frequency cannot be programmed nothing is sent unless WriteOnError is set.
func (s *Synthesizer) Tune(hz float64, enable bool) error {
	if s.WriteOnError {
		s.bank.SetBool(OutEnable, enable)
	}
	p, err := ComputeRegisters(s.bank, s.request(hz))
	if err != nil {
		if s.WriteOnError {
			if werr := s.Sync(); werr != nil {
				return werr
			}
		}
		return err
	}
	s.bank.SetBool(OutEnable, enable)
	s.plan = p
	s.tuned = true
	return s.Sync()
}

// SetOutput switches the RF output without retuning.
func (s *Synthesizer) SetOutput(enable bool) error {
	s.bank.SetBool(OutEnable, enable)
	return s.Sync()
}

// Output reports whether the RF output is enabled in the bank.
func (s *Synthesizer) Output() bool {
	return s.bank.Flag(OutEnable)
}

// Plan returns the result of the last successful Tune.
func (s *Synthesizer) Plan() (Plan, error) {
	if !s.tuned {
		return Plan{}, ErrNotTuned
	}
	return s.plan, nil
}
