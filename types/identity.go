package types

import "time"

// Identity 一次换取成功后整体缓存，登出前不再变化
type Identity struct {
	Openid     string    `json:"openid"`
	ObtainedAt time.Time `json:"obtained_at"`
}

// LoginEvent 登录完成事件，发布到事件总线
type LoginEvent struct {
	Openid string
}

type RegisterRequest struct {
	UserName  string `json:"userName"`
	AvatarUrl string `json:"avatarUrl"`
	Openid    string `json:"openid"`
}

type RegisterResponse struct {
	UserId int64 `json:"userId"`
}
