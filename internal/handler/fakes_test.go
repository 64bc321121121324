package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/greenspro/auth-backend/internal/model"
	"github.com/greenspro/auth-backend/internal/repository"
	"github.com/greenspro/auth-backend/internal/utils"
)

// fakeUserStore is an in-memory UserStore. The mutex mirrors the row-level
// serialization a real database provides, which matters for the concurrent
// reset-token test: the token match and the clear happen under one lock.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, email, username, password string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return 0, repository.ErrDuplicate
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	now := time.Now().UTC()
	f.users[f.nextID] = &model.User{
		ID: f.nextID, Email: email, Username: username,
		PasswordHash: hash, CreatedAt: now, UpdatedAt: now,
	}
	return f.nextID, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUserStore) SetResetToken(ctx context.Context, userID uint64, token string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken = &token
	e := expiry
	u.ResetTokenExpiry = &e
	return nil
}

func (f *fakeUserStore) ConsumeResetToken(ctx context.Context, token, newPassword string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetToken == nil || *u.ResetToken != token {
			continue
		}
		if u.ResetTokenExpiry == nil || !u.ResetTokenExpiry.After(time.Now().UTC()) {
			continue
		}
		hash, err := utils.HashPassword(newPassword, cost)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		u.ResetToken = nil
		u.ResetTokenExpiry = nil
		return nil
	}
	return repository.ErrTokenInvalid
}

func (f *fakeUserStore) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeUserStore) SetApproval(ctx context.Context, id uint64, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsApproved = approved
	}
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeAdminStore holds a single seeded admin.
type fakeAdminStore struct {
	admin model.Admin
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	if f.admin.Email == email {
		return f.admin, nil
	}
	return model.Admin{}, repository.ErrNotFound
}

// fakeNotifier records dispatched reset tokens instead of sending email.
type fakeNotifier struct {
	mu     sync.Mutex
	tokens []string
	emails []string
	err    error
}

func (f *fakeNotifier) NotifyPasswordReset(ctx context.Context, userID uint64, email, username, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tokens = append(f.tokens, token)
	f.emails = append(f.emails, email)
	return nil
}

func (f *fakeNotifier) lastToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		return ""
	}
	return f.tokens[len(f.tokens)-1]
}
