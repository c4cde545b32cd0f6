package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	recordFormatVersionCurrent = 1

	maxRoles = 32
)

func Encode(r *Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordFormatVersionCurrent)

	if len(r.UserID) > 255 {
		return nil, errors.New("userID too long")
	}
	buf.WriteByte(byte(len(r.UserID)))
	buf.WriteString(r.UserID)

	if len(r.DisplayName) > 255 {
		return nil, errors.New("displayName too long")
	}
	buf.WriteByte(byte(len(r.DisplayName)))
	buf.WriteString(r.DisplayName)

	if len(r.SourceIP) > 255 {
		return nil, errors.New("sourceIP too long")
	}
	buf.WriteByte(byte(len(r.SourceIP)))
	buf.WriteString(r.SourceIP)

	if len(r.Roles) > maxRoles {
		return nil, errors.New("too many roles")
	}
	buf.WriteByte(byte(len(r.Roles)))
	for _, role := range r.Roles {
		if len(role) > 255 {
			return nil, errors.New("role too long")
		}
		buf.WriteByte(byte(len(role)))
		buf.WriteString(role)
	}

	if err := binary.Write(&buf, binary.BigEndian, r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.LastSeenAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, r.ExpiresAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordFormatVersionCurrent {
		return nil, errors.New("invalid record version")
	}

	r := &Record{}

	userLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	userID := make([]byte, userLen)
	if _, err := io.ReadFull(reader, userID); err != nil {
		return nil, err
	}
	r.UserID = string(userID)

	nameLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(reader, name); err != nil {
		return nil, err
	}
	r.DisplayName = string(name)

	ipLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	ip := make([]byte, ipLen)
	if _, err := io.ReadFull(reader, ip); err != nil {
		return nil, err
	}
	r.SourceIP = string(ip)

	roleCount, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if int(roleCount) > maxRoles {
		return nil, errors.New("too many roles")
	}
	if roleCount > 0 {
		r.Roles = make([]string, 0, roleCount)
		for i := 0; i < int(roleCount); i++ {
			roleLen, err := reader.ReadByte()
			if err != nil {
				return nil, err
			}
			role := make([]byte, roleLen)
			if _, err := io.ReadFull(reader, role); err != nil {
				return nil, err
			}
			r.Roles = append(r.Roles, string(role))
		}
	}

	if err := binary.Read(reader, binary.BigEndian, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &r.LastSeenAt); err != nil {
		return nil, err
	}
	if err := binary.Read(reader, binary.BigEndian, &r.ExpiresAt); err != nil {
		return nil, err
	}

	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after record")
	}

	return r, nil
}
