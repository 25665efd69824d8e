package service

import (
	"Bookmall/pkg/gateway"
	"Bookmall/pkg/log"
	"Bookmall/types"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

var _ IBookService = (*BookService)(nil)

type IBookService interface {
	List(ctx context.Context, q types.BookQuery) ([]*types.Book, int64, error)
	Detail(ctx context.Context, id int64) (*types.Book, error)
}

type BookService struct {
	Gateway *gateway.Gateway
}

func NewBookService(gw *gateway.Gateway) *BookService {
	return &BookService{Gateway: gw}
}

func (s *BookService) List(ctx context.Context, q types.BookQuery) ([]*types.Book, int64, error) {
	query := url.Values{}
	if q.Keyword != "" {
		query.Set("keyword", q.Keyword)
	}
	if q.CategoryId > 0 {
		query.Set("categoryId", strconv.FormatInt(q.CategoryId, 10))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		query.Set("size", strconv.Itoa(q.Size))
	}

	env, err := s.Gateway.Get(ctx, "api/books/list", query)
	if err != nil {
		return nil, 0, err
	}

	var books []*types.Book
	for _, rec := range env.Records() {
		var book types.Book
		if err := json.Unmarshal([]byte(rec.Raw), &book); err != nil {
			log.L.Warn("skip malformed book record", zap.Error(err))
			continue
		}
		books = append(books, &book)
	}
	return books, env.Total(), nil
}

func (s *BookService) Detail(ctx context.Context, id int64) (*types.Book, error) {
	env, err := s.Gateway.Get(ctx, fmt.Sprintf("api/books/%d", id), nil)
	if err != nil {
		return nil, err
	}
	var book types.Book
	if err := env.Bind(&book); err != nil {
		return nil, err
	}
	return &book, nil
}
