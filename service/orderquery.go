package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/log"
	"Bookmall/types"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

var _ IOrderQueryService = (*OrderQueryService)(nil)

// IOrderQueryService 订单读操作和状态流转请求，网关之上的薄封装。
// 可退款/可关闭之类的能力判断统一走 types.OrderStatus 的能力表。
type IOrderQueryService interface {
	List(ctx context.Context, status types.OrderStatus, page, size int) (*types.OrderPage, error)
	Detail(ctx context.Context, outTradeNo string) (*types.Order, error)
	ApplyRefund(ctx context.Context, orderId int64, reason string) error
	Close(ctx context.Context, outTradeNo string) error
}

type OrderQueryService struct {
	Gateway  *gateway.Gateway
	Identity IIdentityService
}

func NewOrderQueryService(gw *gateway.Gateway, identity IIdentityService) *OrderQueryService {
	return &OrderQueryService{Gateway: gw, Identity: identity}
}

// List 当前用户的订单分页，status 为 StatusUnknown 时查全部
func (s *OrderQueryService) List(ctx context.Context, status types.OrderStatus, page, size int) (*types.OrderPage, error) {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	query := url.Values{
		"openid": {openid},
		"page":   {strconv.Itoa(page)},
		"size":   {strconv.Itoa(size)},
	}
	if wire := status.WireValue(); wire != "" {
		query.Set("status", wire)
	}

	env, err := s.Gateway.Get(ctx, "appoint/list", query)
	if err != nil {
		return nil, err
	}

	pageResult := &types.OrderPage{Total: env.Total()}
	for _, rec := range env.Records() {
		order, err := decodeOrder([]byte(rec.Raw))
		if err != nil {
			log.L.Warn("skip malformed order record", zap.Error(err))
			continue
		}
		pageResult.Orders = append(pageResult.Orders, order)
	}
	return pageResult, nil
}

func (s *OrderQueryService) Detail(ctx context.Context, outTradeNo string) (*types.Order, error) {
	env, err := s.Gateway.Get(ctx, "appoint/queryOrder", url.Values{"outTradeNo": {outTradeNo}})
	if err != nil {
		return nil, err
	}
	return decodeOrder(env.Data)
}

func (s *OrderQueryService) ApplyRefund(ctx context.Context, orderId int64, reason string) error {
	query := url.Values{"orderId": {strconv.FormatInt(orderId, 10)}}
	if reason != "" {
		query.Set("reason", reason)
	}
	_, err := s.Gateway.Post(ctx, "appoint/refund/apply", nil, query)
	return err
}

func (s *OrderQueryService) Close(ctx context.Context, outTradeNo string) error {
	_, err := s.Gateway.Get(ctx, fmt.Sprintf("appoint/closeOrder/%s", outTradeNo), nil)
	return err
}

func decodeOrder(raw []byte) (*types.Order, error) {
	var order types.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, err
	}
	order.Status = types.ParseOrderStatus(order.RawStatus)
	return &order, nil
}
