package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ohlcv_dashboard/internal/feature/auth/domain/entity"
)

const (
	// DefaultIdleTimeout はこの時間操作がないとセッションを強制ログアウトする既定値です。
	DefaultIdleTimeout = 600 * time.Second

	// DefaultSessionTTL はセッションCookieの既定の有効期間です（約5時間）。
	DefaultSessionTTL = 5 * time.Hour

	// sessionIDBytes はセッションIDのバイト数です（16進で64文字）。
	sessionIDBytes = 32
)

// dummyHash はユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Options はSessionGuardの動作を調整します。ゼロ値のフィールドには既定値が使われます。
type Options struct {
	IdleTimeout time.Duration
	SessionTTL  time.Duration
	Now         func() time.Time
}

// sessionGuard はログイン、アイドルタイムアウト、ログアウトを管理します。
type sessionGuard struct {
	credentials CredentialRepository
	sessions    SessionRepository
	idleTimeout time.Duration
	sessionTTL  time.Duration
	now         func() time.Time
}

// NewSessionGuard はsessionGuardの新しいインスタンスを生成します。
func NewSessionGuard(credentials CredentialRepository, sessions SessionRepository, opts Options) *sessionGuard {
	g := &sessionGuard{
		credentials: credentials,
		sessions:    sessions,
		idleTimeout: opts.IdleTimeout,
		sessionTTL:  opts.SessionTTL,
		now:         opts.Now,
	}
	if g.idleTimeout <= 0 {
		g.idleTimeout = DefaultIdleTimeout
	}
	if g.sessionTTL <= 0 {
		g.sessionTTL = DefaultSessionTTL
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// Login はユーザーを認証し、認証済みの新しいセッションを作成します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (g *sessionGuard) Login(ctx context.Context, username, password string) (*entity.Session, error) {
	cred, err := g.credentials.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = cred.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, ErrAuthenticationFailed
	}

	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	now := g.now()
	session := &entity.Session{
		ID:           id,
		Username:     cred.Username,
		DisplayName:  cred.DisplayName,
		Status:       entity.StatusAuthenticated,
		LastActivity: now,
		CreatedAt:    now,
		ExpiresAt:    now.Add(g.sessionTTL),
	}
	if err := g.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Resume はCookieのセッションIDからセッションを取得します。
// Cookieの期限が切れたセッションはErrSessionNotFoundとして扱います。
func (g *sessionGuard) Resume(ctx context.Context, id string) (*entity.Session, error) {
	session, err := g.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsExpiredAt(g.now()) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Touch は最終操作時刻を現在時刻に更新します。
func (g *sessionGuard) Touch(session *entity.Session) *entity.Session {
	session.LastActivity = g.now()
	return session
}

// CheckIdle は毎リクエストで呼ばれ、直前の最終操作時刻を退避してから更新し、
// 退避した時刻からの経過がアイドルタイムアウトを超えていれば強制ログアウトします。
// 強制ログアウトした場合はErrSessionExpiredを返します。
func (g *sessionGuard) CheckIdle(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	idle := session.IdleFor(g.now())
	g.Touch(session)

	expired := session.IsAuthenticated() && idle > g.idleTimeout
	if expired {
		session.Status = entity.StatusExpired
	}
	if err := g.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if expired {
		return session, ErrSessionExpired
	}
	return session, nil
}

// Logout はセッションを未認証状態に戻します。Cookieの削除は呼び出し側が行います。
func (g *sessionGuard) Logout(ctx context.Context, session *entity.Session) (*entity.Session, error) {
	session.Status = entity.StatusUnauthenticated
	if err := g.sessions.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// newSessionID は暗号学的に安全な64文字の16進文字列を生成します。
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
