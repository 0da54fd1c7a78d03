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

import "fmt"

// ErrorKind classifies why a frequency could not be programmed. The non-zero
// kinds satisfy error and compare with errors.Is.
type ErrorKind uint8

const (
	ErrNone ErrorKind = iota
	ErrPFD
	ErrBandSelFreqTooHigh
	ErrRFoutTooHigh
	ErrRFoutTooLow
	ErrREFinTooHigh
	ErrInvalidN
	ErrInvalidMOD
	ErrNotTuned
)

func (e ErrorKind) Error() string {
	switch e {
	case ErrNone:
		return "adf4351: no error"
	case ErrPFD:
		return "adf4351: phase detector frequency out of range"
	case ErrBandSelFreqTooHigh:
		return "adf4351: band select clock too high"
	case ErrRFoutTooHigh:
		return "adf4351: output frequency too high"
	case ErrRFoutTooLow:
		return "adf4351: output frequency too low"
	case ErrREFinTooHigh:
		return "adf4351: reference frequency too high"
	case ErrInvalidN:
		return "adf4351: INT out of range"
	case ErrInvalidMOD:
		return "adf4351: MOD exceeds 12 bits"
	case ErrNotTuned:
		return "adf4351: not tuned"
	default:
		return fmt.Sprintf("adf4351: unknown error %d", uint8(e))
	}
}
