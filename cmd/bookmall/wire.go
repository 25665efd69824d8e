//go:build wireinject
// +build wireinject

package main

import (
	"Bookmall/config"
	"Bookmall/pkg/client"
	"Bookmall/pkg/gateway"
	"Bookmall/platform"
	"Bookmall/service"

	"github.com/google/wire"
)

func InitApp(cfg *config.Config) *App {
	wire.Build(
		client.NewStore,
		gateway.New,

		platform.NewConsole,
		wire.Bind(new(platform.LoginProvider), new(*platform.Console)),
		wire.Bind(new(platform.PaymentInvoker), new(*platform.Console)),
		wire.Bind(new(platform.ReceiptConfirmer), new(*platform.Console)),

		service.ProviderSet,

		wire.Struct(new(App), "*"),
	)
	return nil
}
