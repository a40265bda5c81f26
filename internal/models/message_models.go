package models

import "time"

type MessageKind string

const (
	MessageKindReply MessageKind = "reply"
	MessageKindAlert MessageKind = "alert"
)

// InboundCommand is a chat message forwarded by the chat bridge.
type InboundCommand struct {
	SubscriberID string `json:"subscriber_id"`
	Text         string `json:"text"`
}

// OutboundMessage is published for the chat bridge to deliver.
type OutboundMessage struct {
	ID           string      `json:"id"`
	SubscriberID string      `json:"subscriber_id"`
	Kind         MessageKind `json:"kind"`
	Text         string      `json:"text"`
	CreatedAt    time.Time   `json:"created_at"`
}
