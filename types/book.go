package types

type Book struct {
	Id            int64  `json:"id"`
	Name          string `json:"name"`
	Author        string `json:"author"`
	Price         int64  `json:"price"` // 单位：分
	DiscountPrice *int64 `json:"discountPrice"`
	ImageUrl      string `json:"imageUrl"`
	CategoryId    int64  `json:"categoryId"`
	Stock         int    `json:"stock"`
	Description   string `json:"description"`
}

// BookQuery api/books/list 查询参数
type BookQuery struct {
	Keyword    string
	CategoryId int64
	Page       int
	Size       int
}
