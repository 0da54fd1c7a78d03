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

// adfplan prints the ADF4351 register words for a list of frequencies
// without any hardware attached.
//
//	adfplan -gcd 410M 2.5G 137.5M
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"adf4351/src/adf4351"
	"adf4351/src/console"
)

type settings struct {
	Reference string
	Spacing   string
	RCounter  uint
	Doubler   bool
	Div2      bool
	ReduceGCD bool
	Strict    bool
	AutoBand  bool
	Wire      bool
}

type styles struct {
	head  lipgloss.Style
	freq  lipgloss.Style
	plan  lipgloss.Style
	words lipgloss.Style
	err   lipgloss.Style
}

func newStyles() styles {
	return styles{
		head:  lipgloss.NewStyle().Bold(true).Underline(true),
		freq:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)).Width(14),
		plan:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		words: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)).PaddingLeft(2),
		err:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

func main() {
	s := settings{Reference: "25M", Spacing: "100k", RCounter: 1}
	flag.StringVar(&s.Reference, "ref", s.Reference, "Reference frequency on REFin")
	flag.StringVar(&s.Spacing, "spacing", s.Spacing, "Channel spacing, 0 for the closest fraction")
	flag.UintVar(&s.RCounter, "r", s.RCounter, "Reference divider R (1..1023)")
	flag.BoolVar(&s.Doubler, "doubler", s.Doubler, "Enable the reference doubler")
	flag.BoolVar(&s.Div2, "div2", s.Div2, "Enable the reference divide by 2")
	flag.BoolVar(&s.ReduceGCD, "gcd", s.ReduceGCD, "Reduce FRAC/MOD by their common divisor")
	flag.BoolVar(&s.Strict, "strict", s.Strict, "Enforce data sheet limits")
	flag.BoolVar(&s.AutoBand, "autoband", s.AutoBand, "Choose the band select clock divider")
	flag.BoolVar(&s.Wire, "wire", s.Wire, "Show the bytes sent on the bus")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: adfplan [flags] frequency...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	ref, err := console.ParseFrequency(s.Reference)
	if err != nil {
		fatal(err)
	}
	spacing, err := console.ParseFrequency(s.Spacing)
	if err != nil {
		fatal(err)
	}
	if s.RCounter < 1 || s.RCounter > uint(adf4351.RCountVal.Max()) {
		fatal(fmt.Errorf("adfplan: R must be between 1 and %d", adf4351.RCountVal.Max()))
	}

	st := newStyles()
	fmt.Println(st.head.Render(fmt.Sprintf("REFin %.6f MHz, R %d, doubler %t, div2 %t", ref/1e6, s.RCounter, s.Doubler, s.Div2)))

	failed := false
	for _, arg := range flag.Args() {
		f, err := console.ParseFrequency(arg)
		if err != nil {
			fmt.Println(st.err.Render(err.Error()))
			failed = true
			continue
		}

		b := adf4351.NewBank()
		b.Set(adf4351.RCountVal, uint32(s.RCounter))
		b.SetBool(adf4351.RMul2, s.Doubler)
		b.SetBool(adf4351.RDiv2, s.Div2)
		p, err := adf4351.ComputeRegisters(b, adf4351.Request{
			Target:         f,
			Reference:      ref,
			Spacing:        spacing,
			ReduceGCD:      s.ReduceGCD,
			CheckLimits:    s.Strict,
			AutoBandSelect: s.AutoBand,
		})
		if err != nil {
			fmt.Println(st.freq.Render(arg) + st.err.Render(err.Error()))
			failed = true
			continue
		}

		fmt.Println(st.freq.Render(fmt.Sprintf("%.6f MHz", f/1e6)) + st.plan.Render(fmt.Sprintf(
			"PFD %.3f MHz ÷%d INT %d FRAC %d MOD %d -> %.3f Hz (error %+.3f Hz, step %.3f Hz)",
			p.PFD/1e6, p.Divider, p.Int, p.Frac, p.Mod, p.Achieved, p.Achieved-f, p.Resolution())))

		words := b.Words()
		var line strings.Builder
		for k, w := range words {
			fmt.Fprintf(&line, "R%d=%08X ", k, w)
		}
		fmt.Println(st.words.Render(line.String()))

		if s.Wire {
			var c adf4351.Capture
			if err := adf4351.WriteAll(b, &c); err != nil {
				fatal(err)
			}
			line.Reset()
			for _, fr := range c.Frames {
				fmt.Fprintf(&line, "% X | ", fr)
			}
			fmt.Println(st.words.Render(strings.TrimSuffix(line.String(), " | ")))
		}
	}
	if failed {
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
