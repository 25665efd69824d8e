package platform

import (
	"Bookmall/pkg/log"
	"Bookmall/types"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Console 终端版的平台能力实现，命令行客户端用。
// 登录票据从环境变量取，支付和确认收货打印参数后读一行输入定结果。
type Console struct {
	In  io.Reader
	Out io.Writer
}

func NewConsole() *Console {
	return &Console{In: os.Stdin, Out: os.Stdout}
}

func (c *Console) GetLoginTicket(_ context.Context) (string, error) {
	ticket := os.Getenv("BOOKMALL_LOGIN_CODE")
	if ticket == "" {
		return "", fmt.Errorf("BOOKMALL_LOGIN_CODE not set")
	}
	return ticket, nil
}

func (c *Console) RequestPayment(_ context.Context, params *types.PaymentParams) (types.PaymentOutcome, error) {
	fmt.Fprintln(c.Out, "---- payment request ----")
	if params.Package != nil {
		fmt.Fprintf(c.Out, "package:   %s\n", *params.Package)
	}
	if params.TimeStamp != nil {
		fmt.Fprintf(c.Out, "timestamp: %s\n", *params.TimeStamp)
	}
	fmt.Fprint(c.Out, "confirm payment? [y/N/c]: ")
	return c.readOutcome()
}

func (c *Console) Confirm(_ context.Context, req types.ConfirmRequest) (types.PaymentOutcome, error) {
	fmt.Fprintf(c.Out, "confirm receipt for order %s (transaction %s)? [y/N/c]: ",
		req.MerchantTradeNo, req.TransactionId)
	return c.readOutcome()
}

func (c *Console) readOutcome() (types.PaymentOutcome, error) {
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && line == "" {
		log.L.Warn("read console outcome failed", zap.Error(err))
		return types.PaymentFailed, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return types.PaymentSuccess, nil
	case "c", "cancel":
		return types.PaymentCanceled, nil
	default:
		return types.PaymentFailed, nil
	}
}
