package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/types"
	"context"
)

var _ ICategoryService = (*CategoryService)(nil)

type ICategoryService interface {
	List(ctx context.Context) ([]types.Category, error)
	Enabled(ctx context.Context) ([]types.Category, error)
}

// CategoryService 分类列表。老接口的字段命名不统一，
// 在 types.CategoryFromJSON 归一化，核心逻辑只见规范形态。
type CategoryService struct {
	Gateway *gateway.Gateway
}

func NewCategoryService(gw *gateway.Gateway) *CategoryService {
	return &CategoryService{Gateway: gw}
}

func (s *CategoryService) List(ctx context.Context) ([]types.Category, error) {
	env, err := s.Gateway.Get(ctx, "category/list", nil)
	if err != nil {
		return nil, err
	}
	categories := make([]types.Category, 0)
	for _, rec := range env.Records() {
		categories = append(categories, types.CategoryFromJSON(rec))
	}
	return categories, nil
}

// Enabled 过滤出启用状态的分类
func (s *CategoryService) Enabled(ctx context.Context) ([]types.Category, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	enabled := make([]types.Category, 0, len(all))
	for _, c := range all {
		if c.Status == 1 {
			enabled = append(enabled, c)
		}
	}
	return enabled, nil
}
