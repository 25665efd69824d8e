package types

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Envelope 后端统一响应包装 {code, data?, msg?}，code==200 是唯一的成功信号
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// Bind 把 data 解析到目标结构
func (e *Envelope) Bind(dst any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, dst)
}

// Records 归一化分页响应：老接口返回 data.records，新接口直接返回数组。
// 两种形态在这里收敛成同一个切片，调用方不再感知来源差异。
func (e *Envelope) Records() []gjson.Result {
	data := gjson.ParseBytes(e.Data)
	if records := data.Get("records"); records.IsArray() {
		return records.Array()
	}
	if data.IsArray() {
		return data.Array()
	}
	return nil
}

// Total 分页总数，老接口在 data.total，缺失时退化为记录数
func (e *Envelope) Total() int64 {
	data := gjson.ParseBytes(e.Data)
	if total := data.Get("total"); total.Exists() {
		return total.Int()
	}
	return int64(len(e.Records()))
}
