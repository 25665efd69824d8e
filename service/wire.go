package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewIdentityService,
	wire.Bind(new(IIdentityService), new(*IdentityService)),

	NewCartService,
	wire.Bind(new(ICartService), new(*CartService)),

	NewOrderService,
	wire.Bind(new(IOrderService), new(*OrderService)),

	NewOrderQueryService,
	wire.Bind(new(IOrderQueryService), new(*OrderQueryService)),

	NewAddressService,
	wire.Bind(new(IAddressService), new(*AddressService)),

	NewBookService,
	wire.Bind(new(IBookService), new(*BookService)),

	NewCategoryService,
	wire.Bind(new(ICategoryService), new(*CategoryService)),
)
