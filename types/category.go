package types

import "github.com/tidwall/gjson"

// Category 规范化后的分类。老后台接口字段混用（servicetypeid/id、
// name/categoryName、imageurl/imageUrl），全部在 CategoryFromJSON 收口。
type Category struct {
	Id        int64  `json:"id"`
	Name      string `json:"categoryName"`
	ImageUrl  string `json:"imageUrl"`
	Status    int    `json:"status"`
	SortOrder int    `json:"sortOrder"`
}

// CategoryFromJSON 按字段优先级归一化一条分类记录
func CategoryFromJSON(r gjson.Result) Category {
	return Category{
		Id:        firstInt(r, "id", "servicetypeid"),
		Name:      firstString(r, "categoryName", "name"),
		ImageUrl:  firstString(r, "imageUrl", "imageurl"),
		Status:    int(r.Get("status").Int()),
		SortOrder: int(r.Get("sortOrder").Int()),
	}
}

func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func firstInt(r gjson.Result, keys ...string) int64 {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v.Int()
		}
	}
	return 0
}
