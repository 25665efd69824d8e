package gateway

import (
	"Bookmall/config"
	"Bookmall/pkg/response"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
)

func testGateway(t *testing.T, register func(*gin.Engine)) *Gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	register(engine)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return New(&config.Config{Api: &config.Api{BaseUrl: srv.URL, Timeout: 5}})
}

func TestCall_Success(t *testing.T) {
	gw := testGateway(t, func(r *gin.Engine) {
		r.GET("/ping", func(c *gin.Context) {
			if c.GetHeader("X-Request-Id") == "" {
				c.JSON(http.StatusOK, gin.H{"code": 400, "msg": "missing request id"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"code": 200, "msg": "success", "data": gin.H{"pong": true}})
		})
	})

	env, err := gw.Get(context.Background(), "ping", nil)
	if err != nil {
		t.Fatal(err)
	}
	var data struct {
		Pong bool `json:"pong"`
	}
	if err := env.Bind(&data); err != nil || !data.Pong {
		t.Fatalf("data = %+v, err = %v", data, err)
	}
}

func TestCall_BusinessFailure(t *testing.T) {
	gw := testGateway(t, func(r *gin.Engine) {
		r.POST("/op", func(c *gin.Context) {
			// HTTP 200 但业务码失败：唯一的成功信号是 code===200
			c.JSON(http.StatusOK, gin.H{"code": 500, "msg": "库存不足"})
		})
	})

	_, err := gw.Post(context.Background(), "op", gin.H{}, nil)
	var biz *response.BusinessError
	if !errors.As(err, &biz) {
		t.Fatalf("expected BusinessError, got %v", err)
	}
	if biz.Code != 500 || biz.Msg != "库存不足" {
		t.Fatalf("biz = %+v", biz)
	}
}

func TestCall_MissingCodeIsFailure(t *testing.T) {
	gw := testGateway(t, func(r *gin.Engine) {
		r.GET("/weird", func(c *gin.Context) {
			c.String(http.StatusOK, "not json at all")
		})
	})

	_, err := gw.Get(context.Background(), "weird", nil)
	var biz *response.BusinessError
	if !errors.As(err, &biz) {
		t.Fatalf("expected BusinessError, got %v", err)
	}
	if biz.Msg == "" {
		t.Fatal("failure must carry a human readable message")
	}
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // 让连接必然失败
	gw := New(&config.Config{Api: &config.Api{BaseUrl: srv.URL, Timeout: 1}})

	_, err := gw.Get(context.Background(), "anything", nil)
	var transport *response.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCall_QueryAndPathJoin(t *testing.T) {
	gw := testGateway(t, func(r *gin.Engine) {
		r.GET("/a/b", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 200, "data": c.Query("k")})
		})
	})

	env, err := gw.Get(context.Background(), "/a/b", url.Values{"k": {"v"}})
	if err != nil {
		t.Fatal(err)
	}
	var got string
	if err := env.Bind(&got); err != nil || got != "v" {
		t.Fatalf("got %q, err %v", got, err)
	}
}
