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

package main

import (
	"fmt"
	"machine"
	"time"

	"adf4351/src/adf4351"
	"adf4351/src/console"
	"adf4351/src/panel"
	"adf4351/src/pico"
)

const scanInterval = 80 * time.Millisecond

func main() {
	// give the USB serial port a chance to come up
	time.Sleep(time.Second)

	if pico.UseSi5351Reference {
		if err := pico.SetupReference(pico.Reference); err != nil {
			panic("failed reference setup: " + err.Error())
		}
	}

	cfg := adf4351.DefaultConfig()
	cfg.Reference = pico.Reference
	synth := adf4351.NewSynthesizer(pico.NewLink(), cfg)
	if err := synth.Init(); err != nil {
		panic("failed synthesizer setup: " + err.Error())
	}

	lcd := pico.NewDisplay()
	ctl := panel.NewController(synth)
	if err := ctl.Apply(); err != nil {
		fmt.Printf("initial tune failed: %s\n", err)
	}
	if err := ctl.Render(lcd); err != nil {
		fmt.Printf("display: %s\n", err)
	}

	events := panel.NewQueue(32)
	if err := pico.StartInputs(events); err != nil {
		panic("failed input setup: " + err.Error())
	}
	lines := pico.StartConsole()
	shell := &console.Shell{Synth: synth, Panel: ctl, Out: machine.Serial}

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	heartbeat := time.NewTicker(500 * time.Millisecond)
	scan := time.NewTicker(scanInterval)
	dropped := uint32(0)

	fmt.Printf("setup complete at %d us\n", pico.MicroTime())
	for {
		var err error
		select {
		case e := <-events.C:
			err = ctl.Handle(e)
		case <-scan.C:
			if !ctl.Scanning {
				continue
			}
			err = ctl.ScanTick()
		case line := <-lines:
			err = shell.Execute(line)
		case <-heartbeat.C:
			led.Set(!led.Get())
			if n := events.Dropped(); n != dropped {
				fmt.Printf("dropped %d input events\n", n-dropped)
				dropped = n
			}
			continue
		}
		if err != nil {
			fmt.Printf("ERROR = %s\n", err)
		}
		if err := ctl.Render(lcd); err != nil {
			fmt.Printf("display: %s\n", err)
		}
	}
}
