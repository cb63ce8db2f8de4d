// SPDX-License-Identifier: GPL-2.0-or-later

package cmdbuf

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

var ErrRecordTooLarge = errors.New("record larger than the command buffer")

// endMarkerSize is the encoded size of the EndOfList record.
var endMarkerSize = protowire.SizeTag(protowire.Number(EndOfList)) + protowire.SizeVarint(0)

// List is a bounded list of render command records. Each record is a
// protobuf wire format field: the ID as field number and the payload as
// length delimited bytes. Room for the end marker is always kept free.
type List struct {
	buf      []byte
	capacity int
	finished bool
}

func New(capacity int) *List {
	return &List{
		buf:      make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// RecordSize returns the encoded size of a record with a payload of n bytes.
func RecordSize(id ID, n int) int {
	return protowire.SizeTag(protowire.Number(id)) + protowire.SizeBytes(n)
}

// Append adds a record if it fits together with reserved more bytes and
// the end marker. A record that does not fit is dropped and Append returns
// false. ErrRecordTooLarge is returned if the record could never fit.
func (l *List) Append(id ID, payload []byte, reserved int) (bool, error) {
	if l.finished {
		return false, errors.Errorf("Append %v: list already finished", id)
	}
	size := RecordSize(id, len(payload))
	if len(l.buf)+size+endMarkerSize+reserved > l.capacity {
		if size > l.capacity-endMarkerSize {
			return false, errors.Wrapf(ErrRecordTooLarge, "%v needs %d bytes", id, size)
		}
		return false, nil
	}
	l.buf = protowire.AppendTag(l.buf, protowire.Number(id), protowire.BytesType)
	l.buf = protowire.AppendBytes(l.buf, payload)
	return true, nil
}

// Finish terminates the list and returns its bytes.
func (l *List) Finish() []byte {
	if !l.finished {
		l.buf = protowire.AppendTag(l.buf, protowire.Number(EndOfList), protowire.VarintType)
		l.buf = protowire.AppendVarint(l.buf, 0)
		l.finished = true
	}
	return l.buf
}

// Reset empties the list for the next frame.
func (l *List) Reset() {
	l.buf = l.buf[:0]
	l.finished = false
}

// Len returns the number of used bytes.
func (l *List) Len() int {
	return len(l.buf)
}

func (l *List) Cap() int {
	return l.capacity
}

func (l *List) Bytes() []byte {
	return l.buf
}
