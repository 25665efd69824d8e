package types

// Address 收货地址，每个用户至多一条默认地址。
// 设置新默认时假定后端会把旧默认降级，客户端不做二次确认。
type Address struct {
	Id        int64  `json:"id"`
	Openid    string `json:"openid,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsDefault bool   `json:"isDefault"`
}
