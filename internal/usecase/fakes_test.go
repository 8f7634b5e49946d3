package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"chatspace/internal/domain/entity"
	"chatspace/pkg/errors"
)

// In-memory repository fakes. They mirror the Firestore adapters' contracts,
// including the version guard on chat updates.

type memUserRepo struct {
	users map[string]*entity.User
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) GetByResetToken(ctx context.Context, hashedToken string) (*entity.User, error) {
	for _, user := range r.users {
		if user.PasswordResetToken != "" && user.PasswordResetToken == hashedToken {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type memChatRepo struct {
	chats map[string]*entity.Chat
	seq   int
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: make(map[string]*entity.Chat)}
}

func copyChat(chat *entity.Chat) *entity.Chat {
	copied := *chat
	copied.Users = append([]string(nil), chat.Users...)
	copied.Admins = append([]string(nil), chat.Admins...)
	return &copied
}

func (r *memChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if chat.ID == "" {
		if chat.IsGroupChat {
			r.seq++
			chat.ID = fmt.Sprintf("chat-%d", r.seq)
		} else {
			chat.ID = entity.DirectChatID(chat.Users)
		}
	}
	if _, ok := r.chats[chat.ID]; ok {
		return errors.Conflict("Chat already exists")
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	chat.Version = 1
	r.chats[chat.ID] = copyChat(chat)
	return nil
}

func (r *memChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return copyChat(chat), nil
}

func (r *memChatRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasUser(userID) {
			out = append(out, copyChat(chat))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	stored, ok := r.chats[chat.ID]
	if !ok {
		return errors.NotFound("Chat", nil)
	}
	expected := chat.Version
	if stored.Version != expected {
		return errors.Conflict("Chat was modified concurrently")
	}
	chat.Version = expected + 1
	chat.UpdatedAt = time.Now()
	r.chats[chat.ID] = copyChat(chat)
	return nil
}

func (r *memChatRepo) Delete(ctx context.Context, id string) error {
	delete(r.chats, id)
	return nil
}

type memMessageRepo struct {
	messages map[string]*entity.Message
	seq      int
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[string]*entity.Message)}
}

func copyMessage(m *entity.Message) *entity.Message {
	copied := *m
	copied.ReadBy = append([]string(nil), m.ReadBy...)
	return &copied
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	// Monotonic timestamps so newest-first ordering is deterministic.
	message.CreatedAt = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)
	message.UpdatedAt = message.CreatedAt
	r.messages[message.ID] = copyMessage(message)
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	message, ok := r.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	return copyMessage(message), nil
}

func (r *memMessageRepo) Update(ctx context.Context, message *entity.Message) error {
	if _, ok := r.messages[message.ID]; !ok {
		return errors.NotFound("Message", nil)
	}
	message.UpdatedAt = time.Now()
	r.messages[message.ID] = copyMessage(message)
	return nil
}

func (r *memMessageRepo) ListByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, copyMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) LatestByChat(ctx context.Context, chatID string) (*entity.Message, error) {
	all, _ := r.ListByChat(ctx, chatID)
	for _, m := range all {
		if !m.Deleted {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMessageRepo) Search(ctx context.Context, term string) ([]*entity.Message, error) {
	needle := strings.ToLower(term)
	var out []*entity.Message
	for _, m := range r.messages {
		if strings.Contains(strings.ToLower(m.Body), needle) {
			out = append(out, copyMessage(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) MarkChatRead(ctx context.Context, chatID, userID string) error {
	for _, m := range r.messages {
		if m.ChatID == chatID && !m.ReadByUser(userID) {
			m.ReadBy = append(m.ReadBy, userID)
		}
	}
	return nil
}

func (r *memMessageRepo) DeleteByChat(ctx context.Context, chatID string) error {
	for id, m := range r.messages {
		if m.ChatID == chatID {
			delete(r.messages, id)
		}
	}
	return nil
}

// Collaborator fakes for the auth usecase.

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hashedPassword, candidate string) bool {
	return hashedPassword == "hashed:"+candidate
}

type fakeTokenService struct{ issued int }

func (f *fakeTokenService) Generate(userID string) (string, error) {
	f.issued++
	return fmt.Sprintf("token-%s-%d", userID, f.issued), nil
}

type fakeNotifier struct {
	sent []string
	fail bool
}

func (f *fakeNotifier) SendPasswordReset(to, resetURL string) error {
	if f.fail {
		return errors.Unavailable("Failed to send email", nil)
	}
	f.sent = append(f.sent, to+" "+resetURL)
	return nil
}
