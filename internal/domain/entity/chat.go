package entity

import (
	"sort"
	"strings"
	"time"
)

type Chat struct {
	ID           string   `json:"id" firestore:"id"`
	Users        []string `json:"users" firestore:"users"`
	IsGroupChat  bool     `json:"is_group_chat" firestore:"isGroupChat"`
	Admins       []string `json:"admins" firestore:"admins"`
	ChatName     string   `json:"chat_name,omitempty" firestore:"chatName,omitempty"`
	GroupImg     string   `json:"group_img,omitempty" firestore:"groupImg,omitempty"`
	GroupCreator string   `json:"group_creator,omitempty" firestore:"groupCreator,omitempty"`

	// Version guards read-modify-write cycles on the member sets; every
	// persisted update must carry the version it read.
	Version int64 `json:"-" firestore:"version"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasUser(userID string) bool {
	for _, id := range c.Users {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Chat) HasAdmin(userID string) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// DirectChatID derives the document ID for a direct chat from its member
// pair, order independent. Two racing creates for the same pair therefore
// target the same document and the second insert collides instead of
// persisting a duplicate.
func DirectChatID(users []string) string {
	sorted := append([]string(nil), users...)
	sort.Strings(sorted)
	return "direct_" + strings.Join(sorted, "_")
}

// OtherUser returns the counterpart member of a direct chat.
func (c *Chat) OtherUser(userID string) string {
	for _, id := range c.Users {
		if id != userID {
			return id
		}
	}
	return ""
}
