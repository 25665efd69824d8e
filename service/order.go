package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/log"
	"Bookmall/pkg/response"
	"Bookmall/pkg/storage"
	"Bookmall/pkg/utils"
	"Bookmall/platform"
	"Bookmall/types"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"
)

var _ IOrderService = (*OrderService)(nil)

type IOrderService interface {
	// Checkout 跑完整个下单-支付-对账流程。支付中止返回 *response.PaymentAbortedError；
	// 支付成功但上报失败不算错误，结果里带 Reconciliation。
	Checkout(ctx context.Context, set *types.CheckoutSet, info types.CheckoutInfo) (*PurchaseResult, error)
	// ConfirmReceipt 配送单收货确认（PAID → COMPLETED），由确认组件的回调驱动
	ConfirmReceipt(ctx context.Context, order *types.Order) error
}

// PurchaseResult 一次支付尝试的终态
type PurchaseResult struct {
	OutTradeNo     string
	Outcome        types.PaymentOutcome
	Reconciliation error // 上报失败时为 *response.ReconciliationError
}

// lastOrderState 落到本地缓存的最近一次订单状态
type lastOrderState struct {
	OutTradeNo string    `json:"outTradeNo"`
	State      string    `json:"state"`
	At         time.Time `json:"at"`
}

// OrderService 订单生命周期协调器。客户端侧状态机：
// BUILDING → CREATED(outTradeNo) → PAYING → {PAID | FAILED}。
// 创建后的服务端状态由后端独立演进，这里只做终态上报。
type OrderService struct {
	Gateway   *gateway.Gateway
	Identity  IIdentityService
	Cart      ICartService
	Payment   platform.PaymentInvoker
	Confirmer platform.ReceiptConfirmer
	Store     storage.Store

	// 同一份结算快照的在途下单去重（双击保护）
	inflight cmap.ConcurrentMap[string, struct{}]
}

func NewOrderService(gw *gateway.Gateway, identity IIdentityService, cart ICartService,
	payment platform.PaymentInvoker, confirmer platform.ReceiptConfirmer, store storage.Store) *OrderService {
	return &OrderService{
		Gateway:   gw,
		Identity:  identity,
		Cart:      cart,
		Payment:   payment,
		Confirmer: confirmer,
		Store:     store,
		inflight:  cmap.New[struct{}](),
	}
}

func (s *OrderService) Checkout(ctx context.Context, set *types.CheckoutSet, info types.CheckoutInfo) (*PurchaseResult, error) {
	if err := validateCheckout(set, info); err != nil {
		return nil, err
	}

	key := strconv.FormatInt(set.Id, 10)
	if !s.inflight.SetIfAbsent(key, struct{}{}) {
		return nil, response.NewValidationError("checkout", "订单正在提交中")
	}
	defer s.inflight.Remove(key)

	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.create(ctx, openid, set, info)
	if err != nil {
		// 创建失败不会发起支付
		return nil, err
	}
	s.recordState(ctx, created.OutTradeNo, "CREATED")

	outcome, payErr := s.Payment.RequestPayment(ctx, &created.Params)
	if payErr != nil {
		outcome = types.PaymentFailed
	}

	if outcome == types.PaymentSuccess {
		recon := s.report(ctx, "appoint/client/pay/success", created.OutTradeNo)
		// 支付已经发生，购物车清理和上报结果无关
		s.Cart.RemoveByIds(ctx, set.LineIds())
		s.recordState(ctx, created.OutTradeNo, "PAID")
		return &PurchaseResult{
			OutTradeNo:     created.OutTradeNo,
			Outcome:        types.PaymentSuccess,
			Reconciliation: recon,
		}, nil
	}

	// 失败和取消走同一条失败路径，购物车原样保留
	if recon := s.report(ctx, "appoint/client/pay/fail", created.OutTradeNo); recon != nil {
		log.L.Warn("pay fail report not delivered", zap.Error(recon))
	}
	s.recordState(ctx, created.OutTradeNo, "FAILED")
	return nil, &response.PaymentAbortedError{
		OutTradeNo: created.OutTradeNo,
		Canceled:   outcome == types.PaymentCanceled,
		Err:        payErr,
	}
}

// create BUILDING → CREATED。后端漏发 outTradeNo 直接中止，
// 没有关联键的订单无法上报任何结果。
func (s *OrderService) create(ctx context.Context, openid string, set *types.CheckoutSet, info types.CheckoutInfo) (*types.CreateOrderResult, error) {
	req := types.CreateOrderRequest{
		Openid:       openid,
		DeliveryType: info.DeliveryType,
		Remark:       info.Remark,
		BookItems:    make([]types.BookItem, 0, len(set.Lines)),
	}
	for _, l := range set.Lines {
		req.BookItems = append(req.BookItems, types.BookItem{BookId: l.BookId, Quantity: l.Quantity})
	}
	switch info.DeliveryType {
	case types.DeliveryExpress:
		req.Name = info.Address.Name
		req.Phone = info.Address.Phone
		req.Address = info.Address.Address
	case types.DeliveryPickup:
		req.Name = info.Name
		req.Phone = info.Phone
	}

	env, err := s.Gateway.Post(ctx, "appoint/create", req, nil)
	if err != nil {
		return nil, err
	}
	var created types.CreateOrderResult
	if err := env.Bind(&created); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}
	if created.OutTradeNo == "" {
		log.L.Error("backend omitted outTradeNo in create response")
		return nil, response.ErrUntrackedOrder
	}
	return &created, nil
}

// report 终态上报，接口按 outTradeNo 幂等，这里不做本地去重。
// 失败只折叠成 ReconciliationError，绝不反转用户已经看到的支付结果。
func (s *OrderService) report(ctx context.Context, path, outTradeNo string) error {
	_, err := s.Gateway.Post(ctx, path, nil, url.Values{"outTradeNo": {outTradeNo}})
	if err == nil {
		return nil
	}
	recon := &response.ReconciliationError{OutTradeNo: outTradeNo, Err: err}
	log.L.Warn("pay outcome report failed, backend will reconcile via its own channel",
		zap.String("out_trade_no", outTradeNo),
		zap.String("path", path),
		zap.Error(err))
	return recon
}

func (s *OrderService) ConfirmReceipt(ctx context.Context, order *types.Order) error {
	if order == nil || order.OutTradeNo == "" {
		return response.NewValidationError("order", "当前订单状态不可确认")
	}

	outcome, err := s.Confirmer.Confirm(ctx, types.ConfirmRequest{
		MerchantTradeNo: order.OutTradeNo,
		TransactionId:   order.TransactionId,
	})
	if err != nil {
		return err
	}
	switch outcome {
	case types.PaymentSuccess:
		_, err := s.Gateway.Post(ctx, "appoint/user/confirm", nil,
			url.Values{"orderId": {strconv.FormatInt(order.Id, 10)}})
		return err
	case types.PaymentCanceled:
		return response.NewValidationError("confirm", "用户取消确认收货")
	default:
		return fmt.Errorf("confirm receipt failed: %s", order.OutTradeNo)
	}
}

func validateCheckout(set *types.CheckoutSet, info types.CheckoutInfo) error {
	if set == nil || len(set.Lines) == 0 {
		return response.NewValidationError("items", "没有选中的商品")
	}
	switch info.DeliveryType {
	case types.DeliveryExpress:
		if info.Address == nil {
			return response.NewValidationError("address", "请选择收货地址")
		}
	case types.DeliveryPickup:
		if !utils.ValidateName(info.Name) {
			return response.NewValidationError("name", "请填写取货人姓名")
		}
		if !utils.ValidatePhone(info.Phone) {
			return response.NewValidationError("phone", "手机号格式不正确")
		}
	default:
		return response.NewValidationError("deliveryType", "未知配送方式")
	}
	return nil
}

func (s *OrderService) recordState(ctx context.Context, outTradeNo, state string) {
	payload, err := json.Marshal(lastOrderState{OutTradeNo: outTradeNo, State: state, At: time.Now()})
	if err != nil {
		return
	}
	if err := s.Store.Set(ctx, storage.KeyLastOrder, string(payload)); err != nil {
		log.L.Warn("record last order state failed", zap.Error(err))
	}
}
