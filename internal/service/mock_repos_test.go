package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users   map[string]*model.User // key: username
	nextID  uint
	updates int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.updates++
	m.users[user.Username] = user
	return nil
}

// ── Mock TagRepository ──

type mockTagRepo struct {
	tags   []model.Tag
	lookup [][]string // ListByNames 每次收到的参数
}

func (m *mockTagRepo) ListByNames(_ context.Context, names []string) ([]model.Tag, error) {
	m.lookup = append(m.lookup, names)
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []model.Tag
	for _, t := range m.tags {
		if want[t.Name] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTagRepo) CreateMissing(_ context.Context, tags []model.Tag) ([]model.Tag, error) {
	out := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		if t.ID == 0 {
			t.ID = uint(len(m.tags) + 1)
			m.tags = append(m.tags, t)
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTagRepo) CountClubs(context.Context) ([]repository.TagCount, error) {
	return nil, nil
}

func (m *mockTagRepo) FindTagsForClub(context.Context, uint) ([]model.Tag, error) {
	return nil, nil
}

func (m *mockTagRepo) TagNamesByClubIDs(context.Context, []uint) (map[uint][]string, error) {
	return map[uint][]string{}, nil
}
