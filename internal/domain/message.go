package domain

type MessageType string

const (
	MessageTypeRegular MessageType = "regular"
	MessageTypeSystem  MessageType = "system"
)

type Message struct {
	Id      string      `json:"id"`
	Type    MessageType `json:"type"`
	Content string      `json:"content"`
	Sender  *UserRef    `json:"sender"`
	SentAt  int64       `json:"sent_at"`
}
