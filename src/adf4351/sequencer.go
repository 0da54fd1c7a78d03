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
	"encoding/binary"
	"fmt"

	"tinygo.org/x/drivers"
)

// Link is the 3-wire serial connection to the chip. Bytes sent with Tx are
// framed by Select (LE low) and Deselect (LE high). The rising edge of LE
// latches the word into the register named by its low three bits.
type Link interface {
	drivers.SPI
	Select()
	Deselect()
}

// WriteRegister sends one 32-bit word as a single frame, most significant
// byte first.
func WriteRegister(link Link, w uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], w)
	link.Select()
	err := link.Tx(buf[:], nil)
	link.Deselect()
	if err != nil {
		return fmt.Errorf("adf4351: write of R%d failed: %w", w&tagMask, err)
	}
	return nil
}

// WriteAll programs the whole bank. Registers go out in the order 5, 4, 3,
// 2, 1, 0 because only a write to R0 retunes the chip and by then every other
// register must hold its final value.
func WriteAll(b *Bank, link Link) error {
	for k := NumRegisters - 1; k >= 0; k-- {
		if err := WriteRegister(link, b.r[k]); err != nil {
			return err
		}
	}
	return nil
}

// Capture is a Link that keeps the bytes of every frame it is sent. It never
// fails. The zero value is ready to use.
type Capture struct {
	Frames   [][]byte
	selected bool
}

func (c *Capture) Select() {
	c.selected = true
	c.Frames = append(c.Frames, nil)
}

func (c *Capture) Deselect() {
	c.selected = false
}

func (c *Capture) Tx(w, r []byte) error {
	if !c.selected {
		return fmt.Errorf("adf4351: capture written while deselected")
	}
	last := len(c.Frames) - 1
	c.Frames[last] = append(c.Frames[last], w...)
	for i := range r {
		r[i] = 0
	}
	return nil
}

func (c *Capture) Transfer(b byte) (byte, error) {
	return 0, c.Tx([]byte{b}, nil)
}

// Words decodes each captured frame as a big-endian 32-bit register word.
// Frames that are not exactly four bytes are skipped.
func (c *Capture) Words() []uint32 {
	var r []uint32
	for _, f := range c.Frames {
		if len(f) == 4 {
			r = append(r, binary.BigEndian.Uint32(f))
		}
	}
	return r
}

// Reset forgets all frames.
func (c *Capture) Reset() {
	c.Frames = nil
	c.selected = false
}
