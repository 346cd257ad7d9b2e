package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// CheckPurchase asks the backend whether the current user already holds
// a purchase for the goods. A CodeRepeatError rejection means yes. The
// call is advisory: callers treat any transport failure as "not yet
// purchased", because the purchase submission is the authority.
func (c *Client) CheckPurchase(ctx context.Context, goodsID int64) error {
	path := fmt.Sprintf("/flash-sale/check-purchase/%d", goodsID)
	if err := c.getJSON(ctx, c.apiURL(path), nil); err != nil {
		return fmt.Errorf("check purchase: %w", err)
	}
	return nil
}

// GetCaptchaImage fetches a fresh captcha challenge image for the
// goods. The backend keys the image only by goods id, so the request
// carries a millisecond timestamp discriminator; without it a cached
// stale image could be rendered for a challenge that has already been
// rotated.
func (c *Client) GetCaptchaImage(ctx context.Context, goodsID int64) ([]byte, error) {
	params := url.Values{}
	params.Set("goodsId", strconv.FormatInt(goodsID, 10))
	params.Set("t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	data, err := c.getBytes(ctx, c.flashURL("/getCaptcha")+queryString(params))
	if err != nil {
		return nil, fmt.Errorf("get captcha: %w", err)
	}
	return data, nil
}

// VerifyCaptcha submits a captcha answer. On success the backend issues
// the one-time flash-sale path token that authorizes a purchase.
func (c *Client) VerifyCaptcha(ctx context.Context, goodsID int64, answer string) (string, error) {
	params := url.Values{}
	params.Set("goodsId", strconv.FormatInt(goodsID, 10))
	params.Set("captcha", answer)
	var pathToken string
	if err := c.getJSON(ctx, c.flashURL("/getFlashSalePath")+queryString(params), &pathToken); err != nil {
		return "", fmt.Errorf("verify captcha: %w", err)
	}
	return pathToken, nil
}

// SubmitPurchase spends a path token on a purchase. A success returns
// the new order id; CodeRepeatError and CodeEmptyStock rejections carry
// the duplicate-purchase and out-of-stock outcomes. The token is
// consumed server-side whatever the outcome.
func (c *Client) SubmitPurchase(ctx context.Context, pathToken string, goodsID int64) (int64, error) {
	params := url.Values{}
	params.Set("goodsId", strconv.FormatInt(goodsID, 10))
	endpoint := c.flashURL("/doFlashSale/"+url.PathEscape(pathToken)) + queryString(params)
	var orderID int64
	if err := c.postJSON(ctx, endpoint, nil, &orderID); err != nil {
		return 0, fmt.Errorf("submit purchase: %w", err)
	}
	return orderID, nil
}
