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

import (
	"errors"
	"testing"
)

func Test_writeAllOrder(t *testing.T) {
	b := NewBank()
	var c Capture
	if err := WriteAll(b, &c); err != nil {
		t.Fatalf("WriteAll: %s", err)
	}
	if len(c.Frames) != 6 {
		t.Fatalf("got %d frames, want 6", len(c.Frames))
	}
	total := 0
	for i, f := range c.Frames {
		if len(f) != 4 {
			t.Errorf("frame %d has %d bytes", i, len(f))
		}
		total += len(f)
	}
	if total != 24 {
		t.Errorf("sent %d bytes, want 24", total)
	}
	words := c.Words()
	for i, w := range words {
		if w&7 != uint32(5-i) {
			t.Errorf("frame %d is R%d, want R%d", i, w&7, 5-i)
		}
		if w != golden[5-i] {
			t.Errorf("frame %d = %08x, want %08x", i, w, golden[5-i])
		}
	}
	if c.Frames[0][0] != 0x00 || c.Frames[0][1] != 0x58 || c.Frames[0][3] != 0x05 {
		t.Errorf("R5 not sent most significant byte first: % x", c.Frames[0])
	}
}

type failingLink struct {
	Capture
}

func (f *failingLink) Tx(w, r []byte) error {
	return errors.New("broken")
}

func Test_writeAllStopsOnError(t *testing.T) {
	var l failingLink
	err := WriteAll(NewBank(), &l)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if len(l.Frames) != 1 || l.selected {
		t.Errorf("frames = %d, selected = %v", len(l.Frames), l.selected)
	}
}

func Test_synthesizerTune(t *testing.T) {
	var c Capture
	cfg := DefaultConfig()
	cfg.ReduceGCD = true
	s := NewSynthesizer(&c, cfg)
	if _, err := s.Plan(); !errors.Is(err, ErrNotTuned) {
		t.Errorf("Plan before Tune: %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %s", err)
	}
	if len(c.Frames) != 6 {
		t.Errorf("Init sent %d frames", len(c.Frames))
	}
	c.Reset()

	if err := s.Tune(2.5e9, false); err != nil {
		t.Fatalf("Tune: %s", err)
	}
	words := c.Words()
	if len(words) != 6 {
		t.Fatalf("Tune sent %d words", len(words))
	}
	if words[1]&(1<<5) != 0 {
		t.Errorf("R4 still has the output enabled: %08x", words[1])
	}
	if words[5] != s.Bank().Word(0) {
		t.Errorf("last frame is not R0")
	}
	p, err := s.Plan()
	if err != nil || p.Int != 100 || p.Mod != 2 {
		t.Errorf("Plan = %+v, %v", p, err)
	}

	c.Reset()
	if err := s.SetOutput(true); err != nil {
		t.Fatalf("SetOutput: %s", err)
	}
	if !s.Output() || c.Words()[1]&(1<<5) == 0 {
		t.Errorf("output not enabled")
	}
}

func Test_synthesizerFailClosed(t *testing.T) {
	var c Capture
	cfg := DefaultConfig()
	cfg.Spacing = 5e3
	s := NewSynthesizer(&c, cfg)
	before := s.Bank().Words()

	err := s.Tune(410e6, false)
	if !errors.Is(err, ErrInvalidMOD) {
		t.Errorf("Tune: %v", err)
	}
	if len(c.Frames) != 0 {
		t.Errorf("registers were sent after a failed computation")
	}
	if s.Bank().Words() != before {
		t.Errorf("bank changed")
	}
	if _, err := s.Plan(); !errors.Is(err, ErrNotTuned) {
		t.Errorf("Plan after failure: %v", err)
	}
}

func Test_synthesizerWriteOnError(t *testing.T) {
	var c Capture
	cfg := DefaultConfig()
	cfg.Spacing = 5e3
	cfg.WriteOnError = true
	s := NewSynthesizer(&c, cfg)

	err := s.Tune(410e6, false)
	if !errors.Is(err, ErrInvalidMOD) {
		t.Errorf("Tune: %v", err)
	}
	words := c.Words()
	if len(words) != 6 {
		t.Fatalf("sent %d words, want 6", len(words))
	}
	if words[5] != golden[0] {
		t.Errorf("R0 = %08x, want the previous %08x", words[5], golden[0])
	}
	if words[1]&(1<<5) != 0 {
		t.Errorf("output enable not applied")
	}
}
