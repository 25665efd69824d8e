package service

import (
	"Bookmall/config"
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/storage"
	"Bookmall/types"
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// backend 测试用的假后端：gin 引擎 + 按 method+path 的调用计数
type backend struct {
	engine *gin.Engine
	srv    *httptest.Server

	mu    sync.Mutex
	calls map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := &backend{engine: gin.New(), calls: make(map[string]int)}
	b.engine.Use(func(c *gin.Context) {
		b.mu.Lock()
		b.calls[c.Request.Method+" "+c.FullPath()]++
		b.mu.Unlock()
	})
	b.srv = httptest.NewServer(b.engine)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *backend) totalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		n += c
	}
	return n
}

func (b *backend) gateway() *gateway.Gateway {
	return gateway.New(&config.Config{Api: &config.Api{BaseUrl: b.srv.URL, Timeout: 5}})
}

func ok(data any) gin.H {
	return gin.H{"code": 200, "msg": "success", "data": data}
}

func bizFail(code int, msg string) gin.H {
	return gin.H{"code": code, "msg": msg}
}

// seededIdentity 预置好 openid 的身份服务，测试里跳过换取流程
func seededIdentity(t *testing.T, gw *gateway.Gateway, openid string) (*IdentityService, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	if err := store.Set(context.Background(), storage.KeyOpenid, openid); err != nil {
		t.Fatal(err)
	}
	svc := NewIdentityService(gw, store, failingLogin{})
	return svc, store
}

// failingLogin 不应被触达的登录提供方
type failingLogin struct{}

func (failingLogin) GetLoginTicket(context.Context) (string, error) {
	panic("login provider should not be reached")
}

// stubLogin 固定票据
type stubLogin struct {
	ticket string
	err    error
	calls  int
}

func (s *stubLogin) GetLoginTicket(context.Context) (string, error) {
	s.calls++
	return s.ticket, s.err
}

// scriptedPayment 可编排结局的支付组件
type scriptedPayment struct {
	outcome types.PaymentOutcome
	err     error
	calls   int
	last    *types.PaymentParams
}

func (p *scriptedPayment) RequestPayment(_ context.Context, params *types.PaymentParams) (types.PaymentOutcome, error) {
	p.calls++
	p.last = params
	return p.outcome, p.err
}

// scriptedConfirmer 可编排结局的确认收货组件
type scriptedConfirmer struct {
	outcome types.PaymentOutcome
	err     error
	calls   int
	last    types.ConfirmRequest
}

func (c *scriptedConfirmer) Confirm(_ context.Context, req types.ConfirmRequest) (types.PaymentOutcome, error) {
	c.calls++
	c.last = req
	return c.outcome, c.err
}
