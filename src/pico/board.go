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

// Package pico wires the signal generator to a Raspberry Pi Pico.
package pico

import (
	"fmt"
	"machine"

	"github.com/chiefMarlin/tinygo-drivers/si5351"
	"tinygo.org/x/drivers/hd44780"

	"adf4351/src/softspi"
	"adf4351/src/support"
)

// ADF4351 3-wire bus
const (
	PinData  = machine.GPIO3
	PinClock = machine.GPIO2
	PinLatch = machine.GPIO5
)

// front panel
const (
	PinRotaryA = machine.GPIO6
	PinRotaryB = machine.GPIO7
	PinKeypad  = machine.ADC0
	PinLCDE    = machine.GPIO14
	PinLCDRS   = machine.GPIO15
	PinLCDRW   = machine.GPIO16
)

var lcdData = []machine.Pin{machine.GPIO10, machine.GPIO11, machine.GPIO12, machine.GPIO13}

// Reference clock. With UseSi5351Reference the ADF4351 REFin is fed from
// Si5351 CLK0 instead of a crystal oscillator.
const (
	Reference          = 25e6
	UseSi5351Reference = false
	si5351Xtal         = 25e6
)

// NewLink sets up the ADF4351 bus pins and returns the bus idle.
func NewLink() *softspi.Bus {
	for _, p := range []machine.Pin{PinData, PinClock, PinLatch} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}
	bus := softspi.New(PinData, PinClock, PinLatch, softspi.Config{Delay: BusyWait})
	bus.Configure()
	return bus
}

// NewDisplay starts the 16x2 LCD.
func NewDisplay() *hd44780.Device {
	lcd, err := hd44780.NewGPIO4Bit(lcdData, PinLCDE, PinLCDRS, PinLCDRW)
	if err != nil {
		panic("failed to create LCD: " + err.Error())
	}
	err = lcd.Configure(hd44780.Config{Width: 16, Height: 2})
	if err != nil {
		panic("failed to configure LCD: " + err.Error())
	}
	return &lcd
}

// SetupReference programs the Si5351 to produce f Hz on CLK0.
func SetupReference(f float64) error {
	cfg, err := support.NewRefClock(si5351Xtal, f)
	if err != nil {
		return err
	}

	err = machine.I2C0.Configure(machine.I2CConfig{})
	if err != nil {
		return fmt.Errorf("Si5351: failed to configure I2C0: %w", err)
	}
	clockgen := si5351.New(machine.I2C0)

	connected, err := clockgen.Connected()
	if err != nil {
		return fmt.Errorf("Si5351: unable to read device status: %w", err)
	}
	if !connected {
		return fmt.Errorf("Si5351: not connected")
	}
	if err = clockgen.Configure(); err != nil {
		return fmt.Errorf("Si5351: unable to configure device: %w", err)
	}
	err = clockgen.ConfigurePLL(si5351.PLL_A, uint8(cfg.Mult), cfg.Num, cfg.Denom)
	if err != nil {
		return fmt.Errorf("Si5351: unable to configure PLL: %w", err)
	}
	err = clockgen.ConfigureMultisynth(0, si5351.PLL_A, cfg.Div, 0, 1)
	if err != nil {
		return fmt.Errorf("Si5351: unable to configure output: %w", err)
	}
	if err = clockgen.EnableOutputs(); err != nil {
		return fmt.Errorf("Si5351: unable to enable outputs: %w", err)
	}
	fmt.Printf("reference: PLL %.3f MHz / %d = %.6f MHz\n", cfg.PLL/1e6, cfg.Div, cfg.Freq/1e6)
	return nil
}
