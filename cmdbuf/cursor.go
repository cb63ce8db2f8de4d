// SPDX-License-Identifier: GPL-2.0-or-later

package cmdbuf

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

var ErrNoEndMarker = errors.New("command list without end marker")

// Cursor walks the records of a finished list.
type Cursor struct {
	b    []byte
	done bool
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Next returns the next record. After the last record it returns EndOfList.
// Records that are not length delimited carry no payload and are skipped.
func (c *Cursor) Next() (ID, []byte, error) {
	for {
		if c.done {
			return EndOfList, nil, nil
		}
		if len(c.b) == 0 {
			c.done = true
			return EndOfList, nil, ErrNoEndMarker
		}
		num, typ, n := protowire.ConsumeTag(c.b)
		if n < 0 {
			return 0, nil, errors.Wrap(protowire.ParseError(n), "record tag")
		}
		c.b = c.b[n:]
		if ID(num) == EndOfList {
			c.done = true
			c.b = nil
			return EndOfList, nil, nil
		}
		if typ != protowire.BytesType {
			m := protowire.ConsumeFieldValue(num, typ, c.b)
			if m < 0 {
				return 0, nil, errors.Wrapf(protowire.ParseError(m), "record %v", ID(num))
			}
			c.b = c.b[m:]
			continue
		}
		v, m := protowire.ConsumeBytes(c.b)
		if m < 0 {
			return 0, nil, errors.Wrapf(protowire.ParseError(m), "record %v", ID(num))
		}
		c.b = c.b[m:]
		return ID(num), v, nil
	}
}

// Marshal encodes a fixed size payload.
func Marshal(v interface{}) ([]byte, error) {
	var b bytes.Buffer
	if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
		return nil, errors.Wrap(err, "Marshal")
	}
	return b.Bytes(), nil
}

// Unmarshal decodes a payload into the fixed size value pointed to by v.
func Unmarshal(payload []byte, v interface{}) error {
	if err := binary.Read(bytes.NewReader(payload), binary.LittleEndian, v); err != nil {
		return errors.Wrap(err, "Unmarshal")
	}
	return nil
}

// Size returns the encoded size of a fixed size payload, -1 if v is not one.
func Size(v interface{}) int {
	return binary.Size(v)
}
