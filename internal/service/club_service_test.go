package service

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
	"github.com/kuomat/penn-labs/internal/testutil"
	"github.com/kuomat/penn-labs/pkg/storage"
)

// ── 测试辅助：基于内存 SQLite 的真实仓储 ──

type testServices struct {
	repo    *repository.Repository
	club    ClubService
	tag     TagService
	user    UserService
	file    FileService
	comment CommentService
	export  ExportService
	fs      afero.Fs
}

func setupDBServices(t *testing.T) *testServices {
	t.Helper()
	repo := repository.NewRepository(testutil.NewDB(t))
	logger := zap.NewNop()
	fs := afero.NewMemMapFs()
	return &testServices{
		repo:    repo,
		club:    NewClubService(repo, logger),
		tag:     NewTagService(repo, logger),
		user:    NewUserService(repo, logger),
		file:    NewFileService(repo, storage.NewWithFs(fs), logger),
		comment: NewCommentService(repo, logger),
		export:  NewExportService(repo, logger),
		fs:      fs,
	}
}

func strPtr(s string) *string { return &s }

func TestClubService_CreateAndDuplicate(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()

	club, err := s.club.Create(ctx, &dto.CreateClubRequest{
		Code: "chess", Name: "Chess Club", Description: "checkmate", Tags: []string{"Games", "Games", "Strategy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Chess Club", club.Name)
	assert.ElementsMatch(t, []string{"Games", "Strategy"}, club.Tags)
	assert.Equal(t, []string{}, club.Files)

	_, err = s.club.Create(ctx, &dto.CreateClubRequest{Name: "Chess Club", Code: "other"})
	assert.ErrorIs(t, err, ErrClubExists)

	// 不同大小写视为不同名称
	_, err = s.club.Create(ctx, &dto.CreateClubRequest{Name: "chess club"})
	assert.NoError(t, err)
}

func TestClubService_Search(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()
	_, err := s.club.Create(ctx, &dto.CreateClubRequest{Name: "Chess Club"})
	require.NoError(t, err)

	found, err := s.club.Search(ctx, "chess")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Chess Club", found[0].Name)

	_, err = s.club.Search(ctx, "xyz")
	assert.ErrorIs(t, err, ErrNoClubMatch)
}

func TestClubService_FavoriteN(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()
	_, err := s.club.Create(ctx, &dto.CreateClubRequest{Name: "Debate"})
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, s.club.Favorite(ctx, "Debate"))
	}
	list, err := s.club.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].Likes)

	assert.ErrorIs(t, s.club.Favorite(ctx, "Missing"), ErrClubNotFound)
}

func TestClubService_ModifyPartial(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()
	_, err := s.club.Create(ctx, &dto.CreateClubRequest{
		Code: "c1", Name: "Robotics", Description: "bots", Tags: []string{"Tech"},
	})
	require.NoError(t, err)

	// 仅修改 description，code 与 tags 不变
	got, err := s.club.Modify(ctx, "Robotics", &dto.ModifyClubRequest{Description: strPtr("robots")})
	require.NoError(t, err)
	assert.Equal(t, "c1", got.Code)
	assert.Equal(t, "robots", got.Description)
	assert.Equal(t, []string{"Tech"}, got.Tags)

	// tags 出现即替换
	tags := []string{"Engineering", "Tech"}
	got, err = s.club.Modify(ctx, "Robotics", &dto.ModifyClubRequest{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"Engineering", "Tech"}, got.Tags)

	// 空数组清空
	empty := []string{}
	got, err = s.club.Modify(ctx, "Robotics", &dto.ModifyClubRequest{Tags: &empty})
	require.NoError(t, err)
	assert.Empty(t, got.Tags)

	_, err = s.club.Modify(ctx, "Nope", &dto.ModifyClubRequest{Code: strPtr("x")})
	assert.ErrorIs(t, err, ErrClubNotFound)
}

func TestClubService_DeleteSharedTagCount(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()
	_, err := s.club.Create(ctx, &dto.CreateClubRequest{Name: "A", Tags: []string{"Shared"}})
	require.NoError(t, err)
	_, err = s.club.Create(ctx, &dto.CreateClubRequest{Name: "B", Tags: []string{"Shared"}})
	require.NoError(t, err)

	countOf := func() int64 {
		counts, err := s.tag.Counts(ctx)
		require.NoError(t, err)
		for _, c := range counts {
			if c.Tag == "Shared" {
				return c.ClubCount
			}
		}
		t.Fatal("标签 Shared 不存在")
		return -1
	}
	assert.Equal(t, int64(2), countOf())

	require.NoError(t, s.club.Delete(ctx, "A"))
	assert.Equal(t, int64(1), countOf())

	list, err := s.club.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Name)

	names, err := s.tag.ClubNames(ctx, "Shared")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names.Clubs)

	names, err = s.tag.ClubNames(ctx, "Unknown")
	require.NoError(t, err)
	assert.Empty(t, names.Clubs)

	assert.ErrorIs(t, s.club.Delete(ctx, "A"), ErrClubNotFound)
}

func TestClubService_JoinAndUserProfile(t *testing.T) {
	s := setupDBServices(t)
	ctx := context.Background()
	faker := testutil.NewFaker(42)

	username := faker.Username()
	user := &model.User{Username: username, PasswordHash: "h", FirstName: "F", GraduationYear: 2026}
	require.NoError(t, s.repo.User.Create(ctx, user))

	name := faker.ClubName()
	_, err := s.club.Create(ctx, &dto.CreateClubRequest{Name: name, Description: faker.Description()})
	require.NoError(t, err)

	require.NoError(t, s.club.Join(ctx, user.ID, name))
	require.NoError(t, s.club.Join(ctx, user.ID, name))
	assert.ErrorIs(t, s.club.Join(ctx, user.ID, "missing"), ErrClubNotFound)

	profile, err := s.user.GetByUsername(ctx, username)
	require.NoError(t, err)
	assert.Equal(t, []string{name}, profile.Clubs)
	assert.Equal(t, 2026, profile.GraduationYear)

	_, err = s.user.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
