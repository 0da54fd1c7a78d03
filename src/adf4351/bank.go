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
	"fmt"
	"strings"
)

// NumRegisters is the number of 32-bit control words in the ADF4351.
const NumRegisters = 6

const tagMask = uint32(0x7)

// golden is a known-good configuration: 410MHz from a 25MHz reference with
// R=1, no doubler, ÷8 output, INT=131, FRAC=1, MOD=5 and the output enabled.
var golden = [NumRegisters]uint32{
	0x00418008,
	0x08008029,
	0x00004E42,
	0x000004B3,
	0x00BC803C,
	0x00580005,
}

/*
Bank is the shadow copy of the six ADF4351 registers. The chip has no read
path, so the bank is the only record of what the device holds and it is sent
in full on every update.

Bit 0..2 of word k always hold k. The named fields are packed above that with
explicit shifts and masks, so the layout on the wire never depends on how the
compiler might lay out a struct.

A Bank is not safe for concurrent use.
*/
type Bank struct {
	r [NumRegisters]uint32
}

// NewBank returns a bank loaded with the golden configuration.
func NewBank() *Bank {
	b := &Bank{}
	b.Reset()
	return b
}

// Reset reloads the golden configuration.
func (b *Bank) Reset() {
	b.r = golden
}

// Word returns register k as it would be sent to the device.
func (b *Bank) Word(k int) uint32 {
	return b.r[k]
}

// SetWord replaces register k. The address tag is forced to k whatever w holds.
func (b *Bank) SetWord(k int, w uint32) {
	b.r[k] = (w &^ tagMask) | uint32(k)
}

// Words returns a copy of all six registers, register 0 first.
func (b *Bank) Words() [NumRegisters]uint32 {
	return b.r
}

// Field locates a bit-field within one register.
type Field struct {
	Name  string
	Reg   uint8
	Shift uint8
	Width uint8
}

func (f Field) mask() uint32 {
	return (uint32(1)<<f.Width - 1) << f.Shift
}

// Max is the largest value the field can hold.
func (f Field) Max() uint32 {
	return uint32(1)<<f.Width - 1
}

func (f Field) String() string {
	return fmt.Sprintf("R%d.%s[%d:%d]", f.Reg, f.Name, f.Shift+f.Width-1, f.Shift)
}

// Get extracts a field.
func (b *Bank) Get(f Field) uint32 {
	return (b.r[f.Reg] & f.mask()) >> f.Shift
}

// Set stores v into a field. Bits of v beyond the field width are dropped.
func (b *Bank) Set(f Field, v uint32) {
	m := f.mask() &^ tagMask
	b.r[f.Reg] = (b.r[f.Reg] &^ m) | ((v << f.Shift) & m)
}

// Flag reports whether a one bit field is set.
func (b *Bank) Flag(f Field) bool {
	return b.Get(f) != 0
}

// SetBool stores 1 or 0.
func (b *Bank) SetBool(f Field, v bool) {
	b.Set(f, boolToBit(v))
}

func boolToBit(a bool) uint32 {
	if a {
		return 1
	}
	return 0
}

// Register 0
var (
	FracVal = Field{"FracVal", 0, 3, 12}
	IntVal  = Field{"IntVal", 0, 15, 16}
)

// Register 1
var (
	ModVal      = Field{"ModVal", 1, 3, 12}
	PhaseVal    = Field{"PhaseVal", 1, 15, 12}
	Prescaler   = Field{"Prescaler", 1, 27, 1}
	PhaseAdjust = Field{"PhaseAdjust", 1, 28, 1}
)

// Register 2
var (
	CounterReset  = Field{"CounterReset", 2, 3, 1}
	CPTristate    = Field{"CPTristate", 2, 4, 1}
	PowerDown     = Field{"PowerDown", 2, 5, 1}
	PhasePolarity = Field{"PhasePolarity", 2, 6, 1}
	LDP           = Field{"LDP", 2, 7, 1}
	LDF           = Field{"LDF", 2, 8, 1}
	CPCurrent     = Field{"CPCurrent", 2, 9, 4}
	DoubleBuffer  = Field{"DoubleBuffer", 2, 13, 1}
	RCountVal     = Field{"RCountVal", 2, 14, 10}
	RDiv2         = Field{"RDiv2", 2, 24, 1}
	RMul2         = Field{"RMul2", 2, 25, 1}
	MuxOut        = Field{"MuxOut", 2, 26, 3}
	LowNoiseSpur  = Field{"LowNoiseSpur", 2, 29, 2}
)

// Register 3
var (
	ClkDivVal     = Field{"ClkDivVal", 3, 3, 12}
	ClkDivMod     = Field{"ClkDivMod", 3, 15, 2}
	CsrEn         = Field{"CsrEn", 3, 18, 1}
	ChargeCh      = Field{"ChargeCh", 3, 21, 1}
	AntibacklashW = Field{"AntibacklashW", 3, 22, 1}
	BandSelMode   = Field{"BandSelMode", 3, 23, 1}
)

// Register 4
var (
	OutPower     = Field{"OutPower", 4, 3, 2}
	OutEnable    = Field{"OutEnable", 4, 5, 1}
	AuxPower     = Field{"AuxPower", 4, 6, 2}
	AuxEnable    = Field{"AuxEnable", 4, 8, 1}
	AuxSel       = Field{"AuxSel", 4, 9, 1}
	Mtld         = Field{"Mtld", 4, 10, 1}
	VcoPowerDown = Field{"VcoPowerDown", 4, 11, 1}
	BandClkDiv   = Field{"BandClkDiv", 4, 12, 8}
	RfDivSel     = Field{"RfDivSel", 4, 20, 3}
	Feedback     = Field{"Feedback", 4, 23, 1}
)

// Register 5
var (
	LdPinMode = Field{"LdPinMode", 5, 22, 2}
)

var fields = []Field{
	FracVal, IntVal,
	ModVal, PhaseVal, Prescaler, PhaseAdjust,
	CounterReset, CPTristate, PowerDown, PhasePolarity, LDP, LDF, CPCurrent,
	DoubleBuffer, RCountVal, RDiv2, RMul2, MuxOut, LowNoiseSpur,
	ClkDivVal, ClkDivMod, CsrEn, ChargeCh, AntibacklashW, BandSelMode,
	OutPower, OutEnable, AuxPower, AuxEnable, AuxSel, Mtld, VcoPowerDown,
	BandClkDiv, RfDivSel, Feedback,
	LdPinMode,
}

// Fields lists every named field in register order.
func Fields() []Field {
	r := make([]Field, len(fields))
	copy(r, fields)
	return r
}

// FieldByName looks up a field ignoring case.
func FieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Field{}, false
}
