package entity

import "time"

// DeletedMessageBody replaces the original text when a message is soft-deleted.
// The transition is one way; the original body is not recoverable.
const DeletedMessageBody = "This message has been deleted"

type Message struct {
	ID       string   `json:"id" firestore:"id"`
	ChatID   string   `json:"chat_id" firestore:"chatId"`
	SenderID string   `json:"sender_id" firestore:"senderId"`
	Body     string   `json:"message" firestore:"message"`
	ReadBy   []string `json:"read_by" firestore:"readBy"`
	Deleted  bool     `json:"deleted" firestore:"deleted"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (m *Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkDeleted applies the tombstone. Calling it on an already deleted
// message is a no-op.
func (m *Message) MarkDeleted() {
	if m.Deleted {
		return
	}
	m.Deleted = true
	m.Body = DeletedMessageBody
}
