// Package domain contains core concepts of the chat relay.
// This file defines the Event exchanged between connections and the room.
// No runtime, network, or storage logic should be added here.
package domain

type Kind string

const (
	KindChat   Kind = "CHAT"
	KindJoin   Kind = "JOIN"
	KindLeave  Kind = "LEAVE"
	KindTyping Kind = "TYPING"
	KindFile   Kind = "FILE"
)

// IsDurable reports whether events of this kind are written to history.
// The kind is the only discriminator, whatever the other fields hold.
func (k Kind) IsDurable() bool {
	return k == KindChat || k == KindFile
}

const (
	MaxContentLength     = 2000
	MinSenderLength      = 2
	MaxSenderLength      = 50
	MaxFileContentLength = 10 * 1024 * 1024
	MaxFileTypeLength    = 100
)

// Event is one unit of chat activity.
// Timestamp is epoch milliseconds and always assigned by the relay.
type Event struct {
	Kind        Kind   `json:"type" validate:"required,oneof=CHAT JOIN LEAVE TYPING FILE"`
	Content     string `json:"content,omitempty" validate:"max=2000"`
	Sender      string `json:"sender" validate:"required,notblank,min=2,max=50"`
	FileContent string `json:"fileContent,omitempty" validate:"max=10485760"`
	FileType    string `json:"fileType,omitempty" validate:"max=100"`
	Timestamp   int64  `json:"timestamp"`
}
