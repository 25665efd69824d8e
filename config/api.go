package config

// Api 后端基础地址与请求超时（秒），超时为 0 时取默认值
type Api struct {
	BaseUrl string `json:"base_url" yaml:"base_url"`
	Timeout int    `json:"timeout" yaml:"timeout"`
}

func ProvideApiConfig(cfg *Config) *Api {
	return cfg.Api
}
