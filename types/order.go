package types

// OrderStatus 订单状态的规范内部表示。
// 后端的线上取值历史包袱很重：待支付是中文串，其余是 "0"~"3" 的数字串，
// 一律在 ParseOrderStatus 收敛，核心逻辑只认这里的枚举。
type OrderStatus int

const (
	StatusUnknown OrderStatus = iota
	StatusUnpaid
	StatusPaid
	StatusRefundApply
	StatusRefunded
	StatusCompleted
)

// ParseOrderStatus 归一化后端 status 字段
func ParseOrderStatus(raw string) OrderStatus {
	switch raw {
	case "待支付", "UNPAID":
		return StatusUnpaid
	case "0", "PAID":
		return StatusPaid
	case "1", "REFUND_APPLY":
		return StatusRefundApply
	case "2", "REFUNDED":
		return StatusRefunded
	case "3", "COMPLETED":
		return StatusCompleted
	default:
		return StatusUnknown
	}
}

// WireValue 规范状态转回后端线上取值，查询参数用
func (s OrderStatus) WireValue() string {
	switch s {
	case StatusUnpaid:
		return "待支付"
	case StatusPaid:
		return "0"
	case StatusRefundApply:
		return "1"
	case StatusRefunded:
		return "2"
	case StatusCompleted:
		return "3"
	default:
		return ""
	}
}

// capability 状态到展示文案/颜色/可用操作的唯一映射表，
// 所有调用方都查这张表，不允许散落的 switch。
type capability struct {
	label     string
	color     string
	canRefund bool
	canClose  bool
}

var statusTable = map[OrderStatus]capability{
	StatusUnpaid:      {label: "待支付", color: "#ff9500", canClose: true},
	StatusPaid:        {label: "已支付", color: "#07c160", canRefund: true},
	StatusRefundApply: {label: "申请退款", color: "#10aeff"},
	StatusRefunded:    {label: "已退款", color: "#999999"},
	StatusCompleted:   {label: "已完成", color: "#52c41a"},
}

func (s OrderStatus) Label() string {
	if c, ok := statusTable[s]; ok {
		return c.label
	}
	return "未知状态"
}

func (s OrderStatus) Color() string {
	if c, ok := statusTable[s]; ok {
		return c.color
	}
	return "#000000"
}

// CanRefund 只有已支付的订单可以申请退款
func (s OrderStatus) CanRefund() bool {
	return statusTable[s].canRefund
}

// CanClose 只有待支付的订单可以关闭
func (s OrderStatus) CanClose() bool {
	return statusTable[s].canClose
}

func (s OrderStatus) Refunding() bool { return s == StatusRefundApply }
func (s OrderStatus) Refunded() bool  { return s == StatusRefunded }
func (s OrderStatus) Completed() bool { return s == StatusCompleted }

// DeliveryType 配送方式
type DeliveryType string

const (
	DeliveryPickup  DeliveryType = "PICKUP"
	DeliveryExpress DeliveryType = "DELIVERY"
)

// BookItem 下单明细
type BookItem struct {
	BookId   int64 `json:"bookId"`
	Quantity int   `json:"quantity"`
}

// Order 后端订单视图，status 已归一化
type Order struct {
	Id            int64        `json:"id"`
	OutTradeNo    string       `json:"outTradeNo"`
	TransactionId string       `json:"transactionId"`
	Status        OrderStatus  `json:"-"`
	RawStatus     string       `json:"status"`
	DeliveryType  DeliveryType `json:"deliveryType"`
	Name          string       `json:"name"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	Items         []OrderItem  `json:"items"`
	TotalAmount   int64        `json:"totalAmount"`
	Remark        string       `json:"remark"`
	Confirmable   bool         `json:"confirm"`
}

type OrderItem struct {
	BookId    int64 `json:"bookId"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"price"`
}

// CreateOrderRequest appoint/create 请求体
type CreateOrderRequest struct {
	Openid       string       `json:"openid"`
	DeliveryType DeliveryType `json:"deliveryType"`
	Remark       string       `json:"remark"`
	BookItems    []BookItem   `json:"bookItems"`
	Name         string       `json:"name,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
}

// CheckoutInfo 一次下单尝试的收件信息。配送单必须带已解析的地址；
// 自提单必须带姓名和合法手机号，地址可空。
type CheckoutInfo struct {
	DeliveryType DeliveryType
	Address      *Address // DELIVERY 必填
	Name         string   // PICKUP 必填
	Phone        string   // PICKUP 必填
	Remark       string
}

// OrderPage 列表查询结果
type OrderPage struct {
	Orders []*Order
	Total  int64
}
