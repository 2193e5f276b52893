package storefront

import (
	"context"
	"sync"

	"petstore/internal/storefront/api"
)

// AuthAPI はログイン/ログアウトの窓口。
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
	Logout(ctx context.Context) error
}

// Session はログイン中のユーザー・トークン・カート件数バッジを持つ。
// Login で作り、Logout（Close）で破棄する。
type Session struct {
	mu        sync.RWMutex
	user      *api.User
	token     string
	cartCount int
}

func NewSession(user api.User, token string) *Session {
	return &Session{user: &user, token: token}
}

// Login はサーバーで認証してセッションを作る。
func Login(ctx context.Context, auth AuthAPI, email, password string) (*Session, error) {
	res, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return NewSession(res.User, res.Token), nil
}

// Logout はサーバー側のトークンを失効させ、ローカル状態を必ず破棄する。
func (s *Session) Logout(ctx context.Context, auth AuthAPI) error {
	err := auth.Logout(ctx)
	s.Close()
	return err
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
	s.cartCount = 0
}

// Token は api.TokenSource を満たす。
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

func (s *Session) UserID() (int64, bool) {
	u, ok := s.User()
	if !ok || u.ID <= 0 {
		return 0, false
	}
	return u.ID, true
}

func (s *Session) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cartCount
}

func (s *Session) SetCartCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return
	}
	s.cartCount = n
}

func (s *Session) ClearCartCount() {
	s.SetCartCount(0)
}
