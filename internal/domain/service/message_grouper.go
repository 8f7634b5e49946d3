package service

import (
	"chatspace/internal/domain/entity"
)

// MessageGroup is a contiguous run of messages from one sender, ordered
// oldest first, rendered as a single visual block in the chat UI.
type MessageGroup struct {
	IsMe     bool              `json:"is_me"`
	Messages []*entity.Message `json:"messages"`
}

// GroupMessages clusters a newest-first message list into display groups.
// Groups come back oldest first across the conversation and oldest first
// within each group; IsMe is true when the group's first chronological
// message was authored by viewerID. An empty input yields no groups.
func GroupMessages(newestFirst []*entity.Message, viewerID string) []MessageGroup {
	var groups []MessageGroup
	current := MessageGroup{}

	for i, msg := range newestFirst {
		current.Messages = append(current.Messages, msg)

		// The walk is reverse-chronological, so the run ends when the next
		// walked message has a different sender. The last walked message
		// always closes whatever group is open.
		if i == len(newestFirst)-1 || newestFirst[i+1].SenderID != msg.SenderID {
			reverseMessages(current.Messages)
			current.IsMe = current.Messages[0].SenderID == viewerID
			// Prepend: closed groups arrive newest first, the caller wants
			// them oldest first.
			groups = append([]MessageGroup{current}, groups...)
			current = MessageGroup{}
		}
	}

	return groups
}

func reverseMessages(msgs []*entity.Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
