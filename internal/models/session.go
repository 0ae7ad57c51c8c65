package models

// ChatSession - the credential a chat logged in with.
type ChatSession struct {
	ChatID  int64
	Token   string
	OwnerID string
}
