package gateway

import (
	"Bookmall/config"
	"Bookmall/pkg/log"
	"Bookmall/pkg/response"
	"Bookmall/types"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Gateway 所有后端调用的唯一出口：拼接基础地址、补默认请求头、
// 按响应体里的 code 字段统一判定业务成败。不做重试。
type Gateway struct {
	baseURL string
	client  *http.Client
}

func New(cfg *config.Config) *Gateway {
	timeout := time.Duration(cfg.Api.Timeout) * time.Second
	if cfg.Api.Timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.Api.BaseUrl, "/") + "/",
		client:  &http.Client{Timeout: timeout},
	}
}

// Call 发起一次后端调用。传输失败返回 *response.TransportError，
// code≠200 返回 *response.BusinessError，两者对调用方形态可区分。
func (g *Gateway) Call(ctx context.Context, method, path string, body any, query url.Values) (*types.Envelope, error) {
	u := g.baseURL + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &response.TransportError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &response.TransportError{Op: method + " " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		log.L.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &response.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &response.TransportError{Op: method + " " + path, Err: err}
	}

	return classify(method, path, raw)
}

// classify 业务层判定：响应体里 code===200 是唯一成功信号，
// 和 HTTP 状态码无关。
func classify(method, path string, raw []byte) (*types.Envelope, error) {
	body := gjson.ParseBytes(raw)
	code := body.Get("code")
	if !code.Exists() || code.Int() != 200 {
		msg := body.Get("msg").String()
		if msg == "" {
			msg = "请求失败"
		}
		log.L.Warn("api business error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int64("code", code.Int()),
			zap.String("msg", msg))
		return nil, response.NewBusinessError(int(code.Int()), msg)
	}

	env := &types.Envelope{Code: 200, Msg: body.Get("msg").String()}
	if data := body.Get("data"); data.Exists() {
		env.Data = json.RawMessage(data.Raw)
	}
	return env, nil
}

func (g *Gateway) Get(ctx context.Context, path string, query url.Values) (*types.Envelope, error) {
	return g.Call(ctx, http.MethodGet, path, nil, query)
}

func (g *Gateway) Post(ctx context.Context, path string, body any, query url.Values) (*types.Envelope, error) {
	return g.Call(ctx, http.MethodPost, path, body, query)
}

func (g *Gateway) Put(ctx context.Context, path string, body any) (*types.Envelope, error) {
	return g.Call(ctx, http.MethodPut, path, body, nil)
}

func (g *Gateway) Delete(ctx context.Context, path string, body any) (*types.Envelope, error) {
	return g.Call(ctx, http.MethodDelete, path, body, nil)
}
