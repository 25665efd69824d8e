package types

// CartLine 购物车行，Id 是购物车条目标识，和 BookId 不是一回事
type CartLine struct {
	Id            int64  `json:"id"`
	BookId        int64  `json:"bookId"`
	BookName      string `json:"bookName"`
	UnitPrice     int64  `json:"price"`         // 单位：分
	DiscountPrice *int64 `json:"discountPrice"` // 为空时按原价计
	Quantity      int    `json:"quantity"`
	Selected      bool   `json:"selected"`
}

// EffectivePrice 折扣价优先
func (l *CartLine) EffectivePrice() int64 {
	if l.DiscountPrice != nil {
		return *l.DiscountPrice
	}
	return l.UnitPrice
}

// Totals 选中行的聚合结果
type Totals struct {
	TotalAmount int64 `json:"totalAmount"` // 单位：分
	TotalCount  int   `json:"totalCount"`
	AllSelected bool  `json:"allSelected"`
}

// CheckoutSet 去结算时刻的不可变快照，只包含选中的行。
// Id 用来做同一笔结算的在途去重，不参与任何后端交互。
type CheckoutSet struct {
	Id    int64
	Lines []CartLine
}

// LineIds 快照内所有购物车条目 id
func (s *CheckoutSet) LineIds() []int64 {
	ids := make([]int64, len(s.Lines))
	for i, l := range s.Lines {
		ids[i] = l.Id
	}
	return ids
}

type AddCartRequest struct {
	Openid   string `json:"openid"`
	BookId   int64  `json:"bookId"`
	Quantity int    `json:"quantity"`
}

type BatchSelectRequest struct {
	CartIds  []int64 `json:"cartIds"`
	Selected bool    `json:"selected"`
}
