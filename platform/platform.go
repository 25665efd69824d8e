// Package platform 定义宿主平台提供的原生能力边界：登录票据、
// 支付组件、确认收货组件。核心流程只依赖这里的接口，
// 回调语义（成功/失败/取消）收敛为 PaymentOutcome。
package platform

import (
	"Bookmall/types"
	"context"
)

// LoginProvider 平台原生登录，返回一次性票据，由后端换取 openid
type LoginProvider interface {
	GetLoginTicket(ctx context.Context) (string, error)
}

// PaymentInvoker 原生支付组件。参数原样透传，取消也走错误外的正常返回。
type PaymentInvoker interface {
	RequestPayment(ctx context.Context, params *types.PaymentParams) (types.PaymentOutcome, error)
}

// ReceiptConfirmer 原生确认收货组件（配送单 PAID → COMPLETED 的入口）
type ReceiptConfirmer interface {
	Confirm(ctx context.Context, req types.ConfirmRequest) (types.PaymentOutcome, error)
}
