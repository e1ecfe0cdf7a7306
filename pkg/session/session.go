// Package session 服务端会话：会话 ID 存于存储后端，客户端持有签名 Token
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kuomat/penn-labs/pkg/jwt"
)

// ErrNoSession Token 无效或会话已结束
var ErrNoSession = errors.New("会话不存在")

// Store 会话存储后端
type Store interface {
	SaveSession(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (uint, bool, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Identity 已认证请求的身份
type Identity struct {
	SessionID string
	UserID    uint
	Username  string
}

// Manager 会话管理器
type Manager struct {
	store  Store
	tokens *jwt.Manager
}

// NewManager 创建会话管理器
func NewManager(store Store, tokens *jwt.Manager) *Manager {
	return &Manager{store: store, tokens: tokens}
}

// TTL 会话有效期
func (m *Manager) TTL() time.Duration {
	return m.tokens.TTL()
}

// Start 创建会话并返回客户端 Token
func (m *Manager) Start(ctx context.Context, userID uint, username string) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.SaveSession(ctx, sessionID, userID, m.tokens.TTL()); err != nil {
		return "", fmt.Errorf("保存会话失败: %w", err)
	}
	token, err := m.tokens.GenerateSessionToken(sessionID, userID, username)
	if err != nil {
		_ = m.store.DeleteSession(ctx, sessionID)
		return "", fmt.Errorf("签发 Token 失败: %w", err)
	}
	return token, nil
}

// Resolve 校验 Token 并确认会话仍然存在
func (m *Manager) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrNoSession
	}

	userID, ok, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !ok || userID != claims.UserID {
		return nil, ErrNoSession
	}

	return &Identity{
		SessionID: claims.ID,
		UserID:    userID,
		Username:  claims.Username,
	}, nil
}

// End 结束会话
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.DeleteSession(ctx, sessionID)
}
