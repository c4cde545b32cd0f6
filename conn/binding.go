package conn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const bindingFormatVersionCurrent = 1

// Binding defines a public type used by goRelay APIs.
//
// Binding instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Binding struct {
	ConnectionID string
	UserID       string

	ConnectedAt int64
	ExpiresAt   int64
}

// Encode serializes a [Binding] value for storage. The connection ID is the
// storage key and is never part of the encoded value.
func Encode(b *Binding) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(bindingFormatVersionCurrent)

	if len(b.UserID) > 255 {
		return nil, errors.New("userID too long")
	}
	buf.WriteByte(byte(len(b.UserID)))
	buf.WriteString(b.UserID)

	if err := binary.Write(&buf, binary.BigEndian, b.ConnectedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, b.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses an encoded [Binding] value. The caller sets ConnectionID from
// the key the value was fetched under.
func Decode(data []byte) (*Binding, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != bindingFormatVersionCurrent {
		return nil, errors.New("invalid binding version")
	}

	b := &Binding{}

	userLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	userID := make([]byte, userLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return nil, err
	}
	b.UserID = string(userID)

	if err := binary.Read(reader, binary.BigEndian, &b.ConnectedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &b.ExpiresAt); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after binding")
	}

	return b, nil
}
