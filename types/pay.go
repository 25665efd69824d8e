package types

import (
	"encoding/json"

	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
)

// PaymentParams 调起支付所需的全部参数，由后端预下单生成。
// 字段对客户端完全不透明：金额、随机串、签名原样透传给支付组件，
// 本地不重算也不校验。复用微信支付 SDK 的类型，字段名与下单响应一致。
type PaymentParams = jsapi.PrepayWithRequestPaymentResponse

// CreateOrderResult appoint/create 的 data 部分：支付参数 + 商户订单号。
// outTradeNo 是支付尝试与后端订单之间唯一可靠的关联键，
// 后端漏发时这笔订单无法上报结果，视为后端契约违约。
type CreateOrderResult struct {
	OutTradeNo string
	Params     PaymentParams
}

func (r *CreateOrderResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		OutTradeNo string `json:"outTradeNo"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.Params); err != nil {
		return err
	}
	r.OutTradeNo = raw.OutTradeNo
	return nil
}

// PaymentOutcome 支付组件的终态
type PaymentOutcome int

const (
	PaymentSuccess PaymentOutcome = iota
	PaymentFailed
	PaymentCanceled
)

// ConfirmRequest 确认收货组件入参
type ConfirmRequest struct {
	MerchantTradeNo string
	TransactionId   string
}
