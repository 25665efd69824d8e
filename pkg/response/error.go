package response

import (
	"errors"
	"fmt"
)

// ErrIdentityUnavailable 登录凭证换取 openid 失败，所有依赖身份的操作必须直接失败
var ErrIdentityUnavailable = errors.New("identity unavailable")

// ErrUntrackedOrder 下单响应缺少 outTradeNo。没有关联键就无法上报支付结果，
// 这是后端契约违约，宁可中止也不凭空造一个键。
var ErrUntrackedOrder = errors.New("create order response missing outTradeNo")

// BusinessError 后端返回了响应但业务码不是 200
type BusinessError struct {
	Code int
	Msg  string
}

func (e *BusinessError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("business error: code %d", e.Code)
	}
	return fmt.Sprintf("business error: code %d: %s", e.Code, e.Msg)
}

func NewBusinessError(code int, msg string) *BusinessError {
	return &BusinessError{Code: code, Msg: msg}
}

// TransportError 请求没有到达后端或没有收到响应
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError 客户端前置校验失败，不会产生任何网络请求
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// PaymentAbortedError 支付组件返回失败或用户取消
type PaymentAbortedError struct {
	OutTradeNo string
	Canceled   bool
	Err        error
}

func (e *PaymentAbortedError) Error() string {
	if e.Canceled {
		return fmt.Sprintf("payment canceled: %s", e.OutTradeNo)
	}
	return fmt.Sprintf("payment failed: %s: %v", e.OutTradeNo, e.Err)
}

func (e *PaymentAbortedError) Unwrap() error { return e.Err }

// ReconciliationError 支付结果已定，但向后端上报结果失败。
// 资金侧的事实不受影响，后端会通过支付回调自行对账，所以它只记录不回滚。
type ReconciliationError struct {
	OutTradeNo string
	Err        error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: %s: %v", e.OutTradeNo, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
