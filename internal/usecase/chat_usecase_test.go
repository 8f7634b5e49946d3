package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"chatspace/internal/domain/entity"
	"chatspace/internal/infrastructure/ratelimit"
	"chatspace/pkg/errors"
)

func seedUsers(t *testing.T, repo *memUserRepo, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		user := &entity.User{
			Name:   name,
			Email:  name + "@example.com",
			Role:   "user",
			Active: true,
		}
		assert.NoError(t, repo.Create(context.Background(), user))
		ids = append(ids, user.ID)
	}
	return ids
}

func newChatFixture(t *testing.T) (*ChatUseCase, *memUserRepo, *memChatRepo, *memMessageRepo) {
	t.Helper()
	userRepo := newMemUserRepo()
	chatRepo := newMemChatRepo()
	messageRepo := newMemMessageRepo()
	uc := NewChatUseCase(chatRepo, userRepo, messageRepo, ratelimit.NewRateLimiter())
	return uc, userRepo, chatRepo, messageRepo
}

func TestCreateDirectChat(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob")

	resp, err := uc.CreateDirectChat(context.Background(), ids[0], ids)
	assert.NoError(t, err)
	assert.False(t, resp.IsGroupChat)
	assert.ElementsMatch(t, ids, resp.Users)
	// Direct chats display the other member's name and photo.
	assert.Equal(t, "bob", resp.ChatName)
	assert.Len(t, resp.Members, 2)
}

func TestCreateDirectChatDuplicatePair(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob")

	_, err := uc.CreateDirectChat(context.Background(), ids[0], ids)
	assert.NoError(t, err)

	// Same pair in the opposite order is still the same chat.
	_, err = uc.CreateDirectChat(context.Background(), ids[1], []string{ids[1], ids[0]})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
}

func TestCreateDirectChatValidation(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := uc.CreateDirectChat(ctx, ids[0], []string{ids[0]})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateDirectChat(ctx, ids[0], []string{ids[0], ids[0]})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateDirectChat(ctx, ids[0], []string{ids[0], ids[1], ids[2]})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateDirectChat(ctx, ids[0], []string{ids[0], "ghost"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestCreateGroupChat(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")

	resp, err := uc.CreateGroupChat(context.Background(), ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)
	assert.True(t, resp.IsGroupChat)
	assert.Equal(t, "plans", resp.ChatName)
	assert.Equal(t, ids[0], resp.GroupCreator)
	assert.Len(t, resp.Members, 3)
}

func TestCreateGroupChatAdminMustBeMember(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")

	_, err := uc.CreateGroupChat(context.Background(), ids[0], CreateGroupChatInput{
		Users:    ids[:2],
		Admins:   []string{ids[2]},
		ChatName: "plans",
	})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestRemoveGroupUserPromotesLastMember(t *testing.T) {
	uc, userRepo, chatRepo, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	// Alice removes herself; Bob is promoted so the group keeps an admin.
	resp, err := uc.RemoveGroupUser(ctx, ids[0], created.ID, ids[0])
	assert.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, resp.Users)
	assert.Equal(t, []string{ids[1]}, resp.Admins)

	stored, err := chatRepo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{ids[1]}, stored.Admins)
}

func TestRemoveGroupUserRequiresAdmin(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	_, err = uc.RemoveGroupUser(ctx, ids[1], created.ID, ids[2])
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestRemoveLastUserDestroysChat(t *testing.T) {
	uc, userRepo, chatRepo, messageRepo := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)
	assert.NoError(t, messageRepo.Create(ctx, &entity.Message{ChatID: created.ID, SenderID: ids[0], Body: "hi"}))

	resp, err := uc.RemoveGroupUser(ctx, ids[0], created.ID, ids[0])
	assert.NoError(t, err)
	assert.Nil(t, resp)

	resp2, err := uc.RemoveGroupUser(ctx, ids[1], created.ID, ids[1])
	assert.NoError(t, err)
	assert.Nil(t, resp2)

	_, err = chatRepo.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, "NOT_FOUND"))
	remaining, _ := messageRepo.ListByChat(ctx, created.ID)
	assert.Empty(t, remaining)
}

func TestLeaveChatNeedsNoAdmin(t *testing.T) {
	uc, userRepo, chatRepo, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	assert.NoError(t, uc.LeaveChat(ctx, ids[2], created.ID))

	stored, err := chatRepo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, ids[:2], stored.Users)
}

func TestSetGroupAdminsSubsetRule(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	resp, err := uc.SetGroupAdmins(ctx, ids[0], created.ID, []string{ids[0], ids[1]})
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{ids[0], ids[1]}, resp.Admins)

	_, err = uc.SetGroupAdmins(ctx, ids[0], created.ID, []string{"ghost"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SetGroupAdmins(ctx, ids[2], created.ID, []string{ids[2]})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestListChatsSearchMatchesDirectChatPeer(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := uc.CreateDirectChat(ctx, ids[0], []string{ids[0], ids[1]})
	assert.NoError(t, err)
	_, err = uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "weekend plans",
	})
	assert.NoError(t, err)

	all, err := uc.ListChats(ctx, ids[0], "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	// The direct chat is found by the other member's name.
	byPeer, err := uc.ListChats(ctx, ids[0], "BOB")
	assert.NoError(t, err)
	assert.Len(t, byPeer, 1)
	assert.False(t, byPeer[0].IsGroupChat)

	byName, err := uc.ListChats(ctx, ids[0], "weekend")
	assert.NoError(t, err)
	assert.Len(t, byName, 1)
	assert.True(t, byName[0].IsGroupChat)
}

func TestDirectChatInsertCollision(t *testing.T) {
	_, _, chatRepo, _ := newChatFixture(t)
	ctx := context.Background()

	// Both writers passed the duplicate scan; the insert itself must still
	// reject the second chat because the pair maps to one document ID.
	first := &entity.Chat{Users: []string{"user-a", "user-b"}}
	assert.NoError(t, chatRepo.Create(ctx, first))

	second := &entity.Chat{Users: []string{"user-b", "user-a"}}
	err := chatRepo.Create(ctx, second)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, first.ID, entity.DirectChatID(second.Users))
}

func TestChatUpdateStaleVersionConflict(t *testing.T) {
	uc, userRepo, chatRepo, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob", "carol")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	// Two readers load the same version; only the first write may land.
	copyA, err := chatRepo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	copyB, err := chatRepo.GetByID(ctx, created.ID)
	assert.NoError(t, err)

	copyA.ChatName = "winner"
	assert.NoError(t, chatRepo.Update(ctx, copyA))

	copyB.ChatName = "loser"
	err = chatRepo.Update(ctx, copyB)
	assert.True(t, errors.Is(err, "CONFLICT"))

	stored, err := chatRepo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "winner", stored.ChatName)
}

func TestUpdateGroupChatAdminGate(t *testing.T) {
	uc, userRepo, _, _ := newChatFixture(t)
	ids := seedUsers(t, userRepo, "alice", "bob")
	ctx := context.Background()

	created, err := uc.CreateGroupChat(ctx, ids[0], CreateGroupChatInput{
		Users:    ids,
		Admins:   []string{ids[0]},
		ChatName: "plans",
	})
	assert.NoError(t, err)

	name := "new plans"
	resp, err := uc.UpdateGroupChat(ctx, ids[0], created.ID, UpdateGroupChatInput{ChatName: &name})
	assert.NoError(t, err)
	assert.Equal(t, "new plans", resp.ChatName)

	_, err = uc.UpdateGroupChat(ctx, ids[1], created.ID, UpdateGroupChatInput{ChatName: &name})
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}
