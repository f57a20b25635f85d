package domain

import "strings"

// Outbound destinations.
const (
	PublicTopic     = "/topic/public"
	UserErrorsQueue = "/user/queue/errors"
)

// Destination is the route key a client addresses an inbound event to.
type Destination string

const (
	SendMessage Destination = "chat.sendMessage"
	AddUser     Destination = "chat.addUser"
	Typing      Destination = "chat.typing"
	SendFile    Destination = "chat.sendFile"
)

const applicationPrefix = "/app/"

// ParseDestination accepts both "chat.sendMessage" and "/app/chat.sendMessage".
func ParseDestination(raw string) Destination {
	return Destination(strings.TrimPrefix(strings.TrimSpace(raw), applicationPrefix))
}

// Frame is what a subscriber receives: a payload and the destination it was addressed to.
type Frame struct {
	Destination string `json:"destination"`
	Payload     any    `json:"payload"`
}
