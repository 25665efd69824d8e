package types

import (
	"encoding/json"
	"testing"
)

func TestRecords_BareArray(t *testing.T) {
	env := &Envelope{Code: 200, Data: json.RawMessage(`[{"id":1},{"id":2}]`)}
	records := env.Records()
	if len(records) != 2 || records[0].Get("id").Int() != 1 {
		t.Fatalf("records = %v", records)
	}
	if env.Total() != 2 {
		t.Fatalf("total = %d", env.Total())
	}
}

func TestRecords_PagedShape(t *testing.T) {
	env := &Envelope{Code: 200, Data: json.RawMessage(`{"total":17,"records":[{"id":1}]}`)}
	if len(env.Records()) != 1 {
		t.Fatalf("records = %v", env.Records())
	}
	if env.Total() != 17 {
		t.Fatalf("total = %d", env.Total())
	}
}

func TestRecords_Empty(t *testing.T) {
	env := &Envelope{Code: 200}
	if env.Records() != nil {
		t.Fatal("no data means no records")
	}
	env = &Envelope{Code: 200, Data: json.RawMessage(`{"foo":1}`)}
	if env.Records() != nil {
		t.Fatal("object without records means no records")
	}
}

func TestCreateOrderResultUnmarshal(t *testing.T) {
	raw := `{
		"outTradeNo": "T100",
		"appId": "wxtest",
		"timeStamp": "1700000000",
		"nonceStr": "nonce",
		"package": "prepay_id=wx42",
		"signType": "RSA",
		"paySign": "sig"
	}`
	var result CreateOrderResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatal(err)
	}
	if result.OutTradeNo != "T100" {
		t.Fatalf("outTradeNo = %q", result.OutTradeNo)
	}
	if result.Params.Package == nil || *result.Params.Package != "prepay_id=wx42" {
		t.Fatal("payment params must survive unmarshalling untouched")
	}
	if result.Params.PaySign == nil || *result.Params.PaySign != "sig" {
		t.Fatal("signature is opaque but must be carried through")
	}
}

func TestCreateOrderResult_MissingOutTradeNo(t *testing.T) {
	var result CreateOrderResult
	if err := json.Unmarshal([]byte(`{"appId":"wx"}`), &result); err != nil {
		t.Fatal(err)
	}
	if result.OutTradeNo != "" {
		t.Fatal("absent key must stay empty, never invented")
	}
}
