package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/log"
	"Bookmall/pkg/response"
	"Bookmall/pkg/snowflake"
	"Bookmall/types"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var _ ICartService = (*CartService)(nil)

type ICartService interface {
	Load(ctx context.Context) ([]types.CartLine, error)
	Lines() []types.CartLine
	Add(ctx context.Context, bookId int64, quantity int) error
	ToggleSelect(ctx context.Context, lineId int64) error
	SetAllSelected(ctx context.Context, selected bool) error
	SetQuantity(ctx context.Context, lineId int64, quantity int) error
	Remove(ctx context.Context, lineId int64) error
	// RemoveByIds 尽力而为地移除一批行，缺席的 id 直接跳过。
	// 支付成功后由订单协调器调用，不回滚。
	RemoveByIds(ctx context.Context, ids []int64)
	Clear(ctx context.Context) error
	Snapshot() (*types.CheckoutSet, error)
	Totals() types.Totals
}

// CartService 本地行列表 + 远端镜像。所有修改先改本地再同步后端，
// 同步失败回滚到原值并把错误抛给调用方，展示态和服务端不允许悄悄分叉。
type CartService struct {
	Gateway  *gateway.Gateway
	Identity IIdentityService

	mu    sync.RWMutex
	lines []types.CartLine

	// 同一行的乐观修改/回滚对不允许交错
	lineLocks cmap.ConcurrentMap[string, *sync.Mutex]
}

func NewCartService(gw *gateway.Gateway, identity IIdentityService) *CartService {
	return &CartService{
		Gateway:   gw,
		Identity:  identity,
		lineLocks: cmap.New[*sync.Mutex](),
	}
}

// ComputeTotals 选中行的确定性折叠，与行顺序无关。
// 金额取 (折扣价 ?? 原价) * 数量，未选中的行完全不参与。
func ComputeTotals(lines []types.CartLine) types.Totals {
	var t types.Totals
	selected := 0
	for i := range lines {
		l := &lines[i]
		if !l.Selected {
			continue
		}
		selected++
		t.TotalAmount += l.EffectivePrice() * int64(l.Quantity)
		t.TotalCount += l.Quantity
	}
	t.AllSelected = len(lines) > 0 && selected == len(lines)
	return t
}

func (s *CartService) Load(ctx context.Context) ([]types.CartLine, error) {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	env, err := s.Gateway.Get(ctx, "cart/list", url.Values{"openid": {openid}})
	if err != nil {
		return nil, err
	}

	lines := make([]types.CartLine, 0)
	for _, rec := range env.Records() {
		var line types.CartLine
		if err := json.Unmarshal([]byte(rec.Raw), &line); err != nil {
			log.L.Warn("skip malformed cart record", zap.Error(err))
			continue
		}
		lines = append(lines, line)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return s.Lines(), nil
}

func (s *CartService) Lines() []types.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *CartService) Totals() types.Totals {
	return ComputeTotals(s.Lines())
}

func (s *CartService) Add(ctx context.Context, bookId int64, quantity int) error {
	if quantity < 1 {
		return response.NewValidationError("quantity", "数量必须大于 0")
	}
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return err
	}
	req := types.AddCartRequest{Openid: openid, BookId: bookId, Quantity: quantity}
	if _, err := s.Gateway.Post(ctx, "cart/add", req, nil); err != nil {
		return err
	}
	// 条目 id 由后端分配，重新拉取镜像
	_, err = s.Load(ctx)
	return err
}

func (s *CartService) ToggleSelect(ctx context.Context, lineId int64) error {
	var selected bool
	return s.mutateLine(ctx, lineId,
		func(l *types.CartLine) {
			l.Selected = !l.Selected
			selected = l.Selected
		},
		func(l *types.CartLine) { l.Selected = !l.Selected },
		func(ctx context.Context) error {
			_, err := s.Gateway.Put(ctx, fmt.Sprintf("cart/select/%d", lineId),
				map[string]bool{"selected": selected})
			return err
		})
}

func (s *CartService) SetQuantity(ctx context.Context, lineId int64, quantity int) error {
	if quantity < 1 {
		return response.NewValidationError("quantity", "数量不能小于 1")
	}
	var prev int
	return s.mutateLine(ctx, lineId,
		func(l *types.CartLine) {
			prev = l.Quantity
			l.Quantity = quantity
		},
		func(l *types.CartLine) { l.Quantity = prev },
		func(ctx context.Context) error {
			_, err := s.Gateway.Put(ctx, fmt.Sprintf("cart/update/%d", lineId),
				map[string]int{"quantity": quantity})
			return err
		})
}

// SetAllSelected 全选/全不选，整体乐观更新，失败整体回滚
func (s *CartService) SetAllSelected(ctx context.Context, selected bool) error {
	s.mu.Lock()
	prev := make([]bool, len(s.lines))
	ids := make([]int64, len(s.lines))
	for i := range s.lines {
		prev[i] = s.lines[i].Selected
		ids[i] = s.lines[i].Id
		s.lines[i].Selected = selected
	}
	s.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	req := types.BatchSelectRequest{CartIds: ids, Selected: selected}
	if _, err := s.Gateway.Put(ctx, "cart/select", req); err != nil {
		s.mu.Lock()
		for i := range s.lines {
			if i < len(prev) {
				s.lines[i].Selected = prev[i]
			}
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, lineId int64) error {
	lock := s.lockFor(lineId)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	idx := s.indexOf(lineId)
	if idx < 0 {
		s.mu.Unlock()
		// 幂等：行已经不在了
		return nil
	}
	removed := s.lines[idx]
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	s.mu.Unlock()

	if _, err := s.Gateway.Delete(ctx, fmt.Sprintf("cart/remove/%d", lineId), nil); err != nil {
		s.mu.Lock()
		s.lines = append(s.lines, removed)
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *CartService) RemoveByIds(ctx context.Context, ids []int64) {
	p := pool.New().WithMaxGoroutines(4)
	for _, id := range ids {
		id := id
		p.Go(func() {
			s.mu.Lock()
			idx := s.indexOf(id)
			if idx < 0 {
				s.mu.Unlock()
				return
			}
			s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
			s.mu.Unlock()

			if _, err := s.Gateway.Delete(ctx, fmt.Sprintf("cart/remove/%d", id), nil); err != nil {
				// 购买已经发生，本地不回滚，留给下次 Load 对齐
				log.L.Warn("remove purchased cart line failed",
					zap.Int64("cart_id", id), zap.Error(err))
			}
		})
	}
	p.Wait()
}

func (s *CartService) Clear(ctx context.Context) error {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := s.Gateway.Delete(ctx, "cart/clear", map[string]string{"openid": openid}); err != nil {
		return err
	}
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
	return nil
}

// Snapshot 捕获当前选中行的不可变快照，作为一次下单尝试的输入
func (s *CartService) Snapshot() (*types.CheckoutSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var picked []types.CartLine
	for _, l := range s.lines {
		if l.Selected {
			picked = append(picked, l)
		}
	}
	if len(picked) == 0 {
		return nil, response.NewValidationError("items", "没有选中的商品")
	}
	return &types.CheckoutSet{Id: snowflake.GenCheckoutID(), Lines: picked}, nil
}

// mutateLine 两段式乐观修改：本地 apply → 远端同步 → 失败 revert。
// 同一行的修改对通过行锁串行化。
func (s *CartService) mutateLine(ctx context.Context, lineId int64,
	apply func(*types.CartLine), revert func(*types.CartLine),
	remote func(context.Context) error) error {

	lock := s.lockFor(lineId)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	idx := s.indexOf(lineId)
	if idx < 0 {
		s.mu.Unlock()
		return response.NewValidationError("cartId", "购物车条目不存在")
	}
	apply(&s.lines[idx])
	s.mu.Unlock()

	if err := remote(ctx); err != nil {
		s.mu.Lock()
		if idx := s.indexOf(lineId); idx >= 0 {
			revert(&s.lines[idx])
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *CartService) lockFor(lineId int64) *sync.Mutex {
	key := fmt.Sprintf("%d", lineId)
	if lock, ok := s.lineLocks.Get(key); ok {
		return lock
	}
	lock := &sync.Mutex{}
	if !s.lineLocks.SetIfAbsent(key, lock) {
		lock, _ = s.lineLocks.Get(key)
	}
	return lock
}

func (s *CartService) indexOf(lineId int64) int {
	for i := range s.lines {
		if s.lines[i].Id == lineId {
			return i
		}
	}
	return -1
}
