package api

import (
	"context"
	"fmt"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// ListGoods returns all flash-sale goods with their sale windows.
func (c *Client) ListGoods(ctx context.Context) ([]model.Goods, error) {
	var goods []model.Goods
	if err := c.getJSON(ctx, c.apiURL("/goods"), &goods); err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}
	return goods, nil
}

// GetGoods returns a single goods view by id.
func (c *Client) GetGoods(ctx context.Context, goodsID int64) (model.Goods, error) {
	var g model.Goods
	if err := c.getJSON(ctx, c.apiURL(fmt.Sprintf("/goods/%d", goodsID)), &g); err != nil {
		return model.Goods{}, fmt.Errorf("get goods %d: %w", goodsID, err)
	}
	return g, nil
}
