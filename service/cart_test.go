package service

import (
	"Bookmall/pkg/response"
	"Bookmall/types"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func price(v int64) *int64 { return &v }

func TestComputeTotals(t *testing.T) {
	lines := []types.CartLine{
		{Id: 1, UnitPrice: 100, Quantity: 2, Selected: true},
		{Id: 2, UnitPrice: 50, Quantity: 1, Selected: false},
	}
	got := ComputeTotals(lines)
	want := types.Totals{TotalAmount: 200, TotalCount: 2, AllSelected: false}
	if got != want {
		t.Fatalf("ComputeTotals = %+v, want %+v", got, want)
	}
}

func TestComputeTotals_PermutationInvariant(t *testing.T) {
	lines := []types.CartLine{
		{Id: 1, UnitPrice: 100, Quantity: 2, Selected: true},
		{Id: 2, UnitPrice: 50, Quantity: 1, Selected: false},
		{Id: 3, UnitPrice: 30, DiscountPrice: price(20), Quantity: 3, Selected: true},
		{Id: 4, UnitPrice: 999, Quantity: 1, Selected: true},
	}
	want := ComputeTotals(lines)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		r.Shuffle(len(lines), func(a, b int) { lines[a], lines[b] = lines[b], lines[a] })
		if got := ComputeTotals(lines); got != want {
			t.Fatalf("totals depend on order: %+v vs %+v", got, want)
		}
	}
}

func TestComputeTotals_DiscountPreferred(t *testing.T) {
	lines := []types.CartLine{
		{Id: 1, UnitPrice: 100, DiscountPrice: price(80), Quantity: 2, Selected: true},
	}
	if got := ComputeTotals(lines); got.TotalAmount != 160 {
		t.Fatalf("TotalAmount = %d, want 160", got.TotalAmount)
	}
}

func TestComputeTotals_AllSelected(t *testing.T) {
	if ComputeTotals(nil).AllSelected {
		t.Fatal("empty list must not count as all-selected")
	}
	lines := []types.CartLine{
		{Id: 1, UnitPrice: 1, Quantity: 1, Selected: true},
		{Id: 2, UnitPrice: 1, Quantity: 1, Selected: true},
	}
	if !ComputeTotals(lines).AllSelected {
		t.Fatal("every line selected should report AllSelected")
	}
}

func cartEnv(t *testing.T, b *backend) *CartService {
	t.Helper()
	gw := b.gateway()
	identity, _ := seededIdentity(t, gw, "openid-test")
	return NewCartService(gw, identity)
}

func TestSetQuantity_BelowOneRejected(t *testing.T) {
	b := newBackend(t)
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{{Id: 1, Quantity: 1, UnitPrice: 100, Selected: true}}

	err := cart.SetQuantity(context.Background(), 1, 0)
	var ve *response.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if b.totalCalls() != 0 {
		t.Fatal("rejected decrement must not reach the network")
	}
	if cart.Lines()[0].Quantity != 1 {
		t.Fatal("state must be unchanged")
	}
}

func TestSetQuantity_RollbackOnFailure(t *testing.T) {
	b := newBackend(t)
	b.engine.PUT("/cart/update/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, bizFail(500, "库存不足"))
	})
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{{Id: 1, Quantity: 2, UnitPrice: 100}}

	err := cart.SetQuantity(context.Background(), 1, 5)
	var biz *response.BusinessError
	if !errors.As(err, &biz) {
		t.Fatalf("expected BusinessError, got %v", err)
	}
	if got := cart.Lines()[0].Quantity; got != 2 {
		t.Fatalf("quantity not rolled back: %d", got)
	}
}

func TestToggleSelect_RollbackOnFailure(t *testing.T) {
	b := newBackend(t)
	b.engine.PUT("/cart/select/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, bizFail(500, "boom"))
	})
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{{Id: 1, Quantity: 1, Selected: false}}

	if err := cart.ToggleSelect(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if cart.Lines()[0].Selected {
		t.Fatal("selection must be rolled back")
	}
}

func TestToggleSelect_Persists(t *testing.T) {
	b := newBackend(t)
	var sent struct {
		Selected bool `json:"selected"`
	}
	b.engine.PUT("/cart/select/:id", func(c *gin.Context) {
		_ = c.ShouldBindJSON(&sent)
		c.JSON(http.StatusOK, ok(nil))
	})
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{{Id: 1, Quantity: 1, Selected: false}}

	if err := cart.ToggleSelect(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if !cart.Lines()[0].Selected || !sent.Selected {
		t.Fatal("new selection state must be applied locally and sent to the backend")
	}
}

func TestRemove_IdempotentAndRollback(t *testing.T) {
	b := newBackend(t)
	fail := true
	b.engine.DELETE("/cart/remove/:id", func(c *gin.Context) {
		if fail {
			c.JSON(http.StatusOK, bizFail(500, "boom"))
			return
		}
		c.JSON(http.StatusOK, ok(nil))
	})
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{{Id: 1, Quantity: 1}}

	if err := cart.Remove(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}
	if len(cart.Lines()) != 1 {
		t.Fatal("failed removal must be rolled back")
	}

	fail = false
	if err := cart.Remove(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if len(cart.Lines()) != 0 {
		t.Fatal("line should be gone")
	}

	// 再删一次：幂等空操作，不打后端
	before := b.count("DELETE /cart/remove/:id")
	if err := cart.Remove(context.Background(), 1); err != nil {
		t.Fatalf("removing an absent line must be a no-op, got %v", err)
	}
	if b.count("DELETE /cart/remove/:id") != before {
		t.Fatal("absent line removal must not reach the network")
	}
}

func TestSetAllSelected_RollbackOnFailure(t *testing.T) {
	b := newBackend(t)
	b.engine.PUT("/cart/select", func(c *gin.Context) {
		c.JSON(http.StatusOK, bizFail(500, "boom"))
	})
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{
		{Id: 1, Quantity: 1, Selected: true},
		{Id: 2, Quantity: 1, Selected: false},
	}

	if err := cart.SetAllSelected(context.Background(), true); err == nil {
		t.Fatal("expected error")
	}
	lines := cart.Lines()
	if !lines[0].Selected || lines[1].Selected {
		t.Fatalf("per-line selection must be restored: %+v", lines)
	}
}

func TestSnapshot(t *testing.T) {
	b := newBackend(t)
	cart := cartEnv(t, b)
	cart.lines = []types.CartLine{
		{Id: 1, Quantity: 1, Selected: true},
		{Id: 2, Quantity: 1, Selected: false},
	}

	set, err := cart.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Lines) != 1 || set.Lines[0].Id != 1 {
		t.Fatalf("snapshot = %+v", set.Lines)
	}
	if set.Id == 0 {
		t.Fatal("snapshot needs an identity for in-flight dedupe")
	}

	// 快照不跟踪购物车后续变化
	cart.lines[0].Quantity = 99
	if set.Lines[0].Quantity == 99 {
		t.Fatal("snapshot must be immutable")
	}

	cart.lines = nil
	if _, err := cart.Snapshot(); err == nil {
		t.Fatal("empty selection must be rejected")
	}
}

func TestLoad(t *testing.T) {
	b := newBackend(t)
	b.engine.GET("/cart/list", func(c *gin.Context) {
		if c.Query("openid") != "openid-test" {
			c.JSON(http.StatusOK, bizFail(401, "未登录"))
			return
		}
		c.JSON(http.StatusOK, ok([]gin.H{
			{"id": 1, "bookId": 101, "bookName": "Go 程序设计", "price": 5900, "quantity": 1, "selected": true},
			{"id": 2, "bookId": 102, "bookName": "深入理解计算机系统", "price": 13900, "quantity": 2, "selected": false},
		}))
	})
	cart := cartEnv(t, b)

	lines, err := cart.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0].BookName != "Go 程序设计" {
		t.Fatalf("lines = %+v", lines)
	}
	if got := cart.Totals(); got.TotalAmount != 5900 || got.TotalCount != 1 {
		t.Fatalf("totals = %+v", got)
	}
}
