package main

import (
	"Bookmall/service"
)

// App 命令行客户端的服务集合
type App struct {
	Identity   service.IIdentityService
	Cart       service.ICartService
	Orders     service.IOrderService
	Queries    service.IOrderQueryService
	Addresses  service.IAddressService
	Books      service.IBookService
	Categories service.ICategoryService
}
