// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 umas2022

package motorbus

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// ExchangeRecord is one logged transaction: the raw command frame, the raw
// response frame (empty for broadcasts and timeouts) and whether the
// response passed validation. Records are CBOR-encoded with integer keys to
// keep high-rate traces compact.
type ExchangeRecord struct {
	Time     time.Time `cbor:"1,keyasint"`
	Command  []byte    `cbor:"2,keyasint"`
	Response []byte    `cbor:"3,keyasint,omitempty"`
	Valid    bool      `cbor:"4,keyasint"`
}

// Recorder appends ExchangeRecords to a writer as a CBOR sequence.
type Recorder struct {
	enc *cbor.Encoder
}

// NewRecorder wraps w. The caller owns w and closes it after the last
// Record call.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cbor.NewEncoder(w)}
}

// Record appends one transaction to the trace.
func (r *Recorder) Record(rec ExchangeRecord) error {
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("motorbus: write trace record: %w", err)
	}
	return nil
}

// ReadTrace decodes a full CBOR trace stream, for offline analysis and
// replay tooling.
func ReadTrace(r io.Reader) ([]ExchangeRecord, error) {
	dec := cbor.NewDecoder(r)
	var records []ExchangeRecord
	for {
		var rec ExchangeRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("motorbus: read trace record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}
