package service

import (
	"Bookmall/pkg/event"
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/log"
	"Bookmall/pkg/response"
	"Bookmall/pkg/storage"
	"Bookmall/platform"
	"Bookmall/types"
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var _ IIdentityService = (*IdentityService)(nil)

type IIdentityService interface {
	// Resolve 返回当前用户 openid。没有身份时不允许任何用户态操作，
	// 失败直接报错，绝不匿名放行。
	Resolve(ctx context.Context) (string, error)
	Register(ctx context.Context, userName, avatarUrl string) (int64, error)
	Clear(ctx context.Context) error
	// OnLogin 订阅登录完成事件，返回注销函数
	OnLogin(fn func(types.LoginEvent)) (dispose func())
}

// IdentityService 两级缓存的身份提供者：进程内 → 本地持久缓存 →
// 平台登录票据换 openid。换取成功后两级缓存同时更新并广播事件。
type IdentityService struct {
	Gateway *gateway.Gateway
	Store   storage.Store
	Login   platform.LoginProvider

	bus *event.Bus[types.LoginEvent]

	mu       sync.RWMutex
	identity *types.Identity
}

func NewIdentityService(gw *gateway.Gateway, store storage.Store, login platform.LoginProvider) *IdentityService {
	return &IdentityService{
		Gateway: gw,
		Store:   store,
		Login:   login,
		bus:     event.NewBus[types.LoginEvent](),
	}
}

func (s *IdentityService) Resolve(ctx context.Context) (string, error) {
	s.mu.RLock()
	cached := s.identity
	s.mu.RUnlock()
	if cached != nil {
		return cached.Openid, nil
	}

	if openid, err := s.Store.Get(ctx, storage.KeyOpenid); err == nil && openid != "" {
		s.remember(openid)
		return openid, nil
	}

	code, err := s.Login.GetLoginTicket(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: login ticket: %v", response.ErrIdentityUnavailable, err)
	}

	env, err := s.Gateway.Post(ctx, "admin/getOpenId", map[string]string{"code": code}, nil)
	if err != nil {
		return "", fmt.Errorf("%w: exchange: %v", response.ErrIdentityUnavailable, err)
	}
	var openid string
	if err := env.Bind(&openid); err != nil || openid == "" {
		return "", fmt.Errorf("%w: malformed exchange response", response.ErrIdentityUnavailable)
	}

	if err := s.Store.Set(ctx, storage.KeyOpenid, openid); err != nil {
		log.L.Warn("persist openid failed", zap.Error(err))
	}
	s.remember(openid)
	s.bus.Publish(types.LoginEvent{Openid: openid})
	log.L.Info("identity resolved", zap.String("openid", openid))
	return openid, nil
}

func (s *IdentityService) Register(ctx context.Context, userName, avatarUrl string) (int64, error) {
	openid, err := s.Resolve(ctx)
	if err != nil {
		return 0, err
	}

	req := types.RegisterRequest{UserName: userName, AvatarUrl: avatarUrl, Openid: openid}
	env, err := s.Gateway.Post(ctx, "admin/register", req, nil)
	if err != nil {
		return 0, err
	}
	var resp types.RegisterResponse
	if err := env.Bind(&resp); err != nil {
		return 0, err
	}
	return resp.UserId, nil
}

// Clear 登出：清掉两级缓存，之后的用户态调用都会重新走换取流程
func (s *IdentityService) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
	return s.Store.Del(ctx, storage.KeyOpenid)
}

func (s *IdentityService) OnLogin(fn func(types.LoginEvent)) func() {
	return s.bus.Subscribe(fn)
}

func (s *IdentityService) remember(openid string) {
	s.mu.Lock()
	s.identity = &types.Identity{Openid: openid, ObtainedAt: time.Now()}
	s.mu.Unlock()
}
