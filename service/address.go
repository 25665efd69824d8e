package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/response"
	"Bookmall/pkg/utils"
	"Bookmall/types"
	"context"
	"fmt"
	"net/url"
)

var _ IAddressService = (*AddressService)(nil)

type IAddressService interface {
	List(ctx context.Context) ([]*types.Address, error)
	Get(ctx context.Context, id int64) (*types.Address, error)
	Default(ctx context.Context) (*types.Address, error)
	Add(ctx context.Context, addr *types.Address) error
	Update(ctx context.Context, addr *types.Address) error
	Delete(ctx context.Context, id int64) error
	SetDefault(ctx context.Context, id int64) error
}

// AddressService 地址簿。校验全部在发请求之前完成；
// 设新默认时假定后端会降级旧默认，客户端不补偿。
type AddressService struct {
	Gateway  *gateway.Gateway
	Identity IIdentityService
}

func NewAddressService(gw *gateway.Gateway, identity IIdentityService) *AddressService {
	return &AddressService{Gateway: gw, Identity: identity}
}

func (s *AddressService) List(ctx context.Context) ([]*types.Address, error) {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	env, err := s.Gateway.Post(ctx, "address/list", map[string]string{"openid": openid}, nil)
	if err != nil {
		return nil, err
	}
	var list []*types.Address
	if err := env.Bind(&list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *AddressService) Get(ctx context.Context, id int64) (*types.Address, error) {
	env, err := s.Gateway.Get(ctx, fmt.Sprintf("address/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var addr types.Address
	if err := env.Bind(&addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// Default 用户的默认地址，没有时返回 nil
func (s *AddressService) Default(ctx context.Context) (*types.Address, error) {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	env, err := s.Gateway.Get(ctx, "address/default", url.Values{"openid": {openid}})
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var addr types.Address
	if err := env.Bind(&addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *AddressService) Add(ctx context.Context, addr *types.Address) error {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return err
	}
	if err := validateAddress(addr); err != nil {
		return err
	}
	addr.Openid = openid
	_, err = s.Gateway.Post(ctx, "address/add", addr, nil)
	return err
}

func (s *AddressService) Update(ctx context.Context, addr *types.Address) error {
	if addr.Id <= 0 {
		return response.NewValidationError("id", "地址不存在")
	}
	if err := validateAddress(addr); err != nil {
		return err
	}
	_, err := s.Gateway.Post(ctx, "address/update", addr, nil)
	return err
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	_, err := s.Gateway.Post(ctx, "address/delete", map[string]int64{"id": id}, nil)
	return err
}

func (s *AddressService) SetDefault(ctx context.Context, id int64) error {
	openid, err := s.Identity.Resolve(ctx)
	if err != nil {
		return err
	}
	_, err = s.Gateway.Post(ctx, "address/setDefault",
		map[string]any{"id": id, "openid": openid}, nil)
	return err
}

func validateAddress(addr *types.Address) error {
	if !utils.ValidateName(addr.Name) {
		return response.NewValidationError("name", "姓名需要 2~20 个字符")
	}
	if !utils.ValidatePhone(addr.Phone) {
		return response.NewValidationError("phone", "手机号格式不正确")
	}
	if !utils.ValidateAddress(addr.Address) {
		return response.NewValidationError("address", "地址不能少于 5 个字符")
	}
	return nil
}
