package repositories

import (
	"chat-relay/domain"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the stored record, protobuf wire format.
const (
	fieldID          protowire.Number = 1
	fieldSequence    protowire.Number = 2
	fieldKind        protowire.Number = 3
	fieldContent     protowire.Number = 4
	fieldSender      protowire.Number = 5
	fieldFileContent protowire.Number = 6
	fieldFileType    protowire.Number = 7
	fieldTimestamp   protowire.Number = 8
)

func marshalRecord(r PersistedRecord) []byte {
	b := make([]byte, 0, 64+len(r.Content)+len(r.FileContent))
	b = appendString(b, fieldID, r.ID.String())
	b = appendVarint(b, fieldSequence, r.Sequence)
	b = appendString(b, fieldKind, string(r.Kind))
	b = appendString(b, fieldContent, r.Content)
	b = appendString(b, fieldSender, r.Sender)
	b = appendString(b, fieldFileContent, r.FileContent)
	b = appendString(b, fieldFileType, r.FileType)
	b = appendVarint(b, fieldTimestamp, uint64(r.Timestamp))
	return b
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// unmarshalRecord skips unknown fields so older binaries can read newer records.
func unmarshalRecord(b []byte) (PersistedRecord, error) {
	var r PersistedRecord
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return PersistedRecord{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return PersistedRecord{}, protowire.ParseError(n)
			}
			b = b[n:]
			if err := r.setString(num, v); err != nil {
				return PersistedRecord{}, err
			}
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return PersistedRecord{}, protowire.ParseError(n)
			}
			b = b[n:]
			switch num {
			case fieldSequence:
				r.Sequence = v
			case fieldTimestamp:
				r.Timestamp = int64(v)
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return PersistedRecord{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return r, nil
}

func (r *PersistedRecord) setString(num protowire.Number, v string) error {
	switch num {
	case fieldID:
		id, err := uuid.Parse(v)
		if err != nil {
			return fmt.Errorf("record id: %w", err)
		}
		r.ID = id
	case fieldKind:
		r.Kind = domain.Kind(v)
	case fieldContent:
		r.Content = v
	case fieldSender:
		r.Sender = v
	case fieldFileContent:
		r.FileContent = v
	case fieldFileType:
		r.FileType = v
	}
	return nil
}
