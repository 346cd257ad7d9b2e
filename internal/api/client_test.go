package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

func respond(w http.ResponseWriter, code int, message string, object any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"object":  object,
	})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{
		APIBaseURL:       srv.URL + "/api/v1",
		FlashSaleBaseURL: srv.URL + "/flashSale",
		Timeout:          2 * time.Second,
	})
	require.NoError(t, err)
	return c, srv
}

func TestLoginSetsCookieForLaterCalls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var form model.LoginForm
		require.NoError(t, json.NewDecoder(r.Body).Decode(&form))
		assert.Equal(t, "13800138000", form.Mobile)
		http.SetCookie(w, &http.Cookie{Name: "userTicket", Value: "tkt-1", Path: "/"})
		respond(w, CodeSuccess, "SUCCESS", "tkt-1")
	})
	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("userTicket")
		if err != nil || cookie.Value != "tkt-1" {
			respond(w, CodeSessionError, "Session invalid", nil)
			return
		}
		respond(w, CodeSuccess, "SUCCESS", model.User{ID: 9, Mobile: "13800138000"})
	})

	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	ticket, err := c.Login(ctx, model.LoginForm{Mobile: "13800138000", Password: "2028ad83f1997056c7d60e16c36d10a7"})
	require.NoError(t, err)
	assert.Equal(t, "tkt-1", ticket)

	user, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)
}

func TestLoginRejectionSurfacesCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		respond(w, CodeLoginError, "Invalid user ID or password.", nil)
	})
	c, _ := newTestClient(t, mux)

	_, err := c.Login(context.Background(), model.LoginForm{Mobile: "13800138000", Password: "bad"})
	require.Error(t, err)
	assert.True(t, IsCode(err, CodeLoginError))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid user ID or password.", apiErr.Message)
}

func TestListGoodsDecodesPayload(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	want := []model.Goods{{
		ID:             1,
		Name:           "BlitzBuy Phone",
		Price:          999,
		FlashSalePrice: 99,
		FlashSaleStock: 3,
		StartTime:      start,
		EndTime:        end,
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/goods", func(w http.ResponseWriter, r *http.Request) {
		respond(w, CodeSuccess, "SUCCESS", want)
	})
	c, _ := newTestClient(t, mux)

	goods, err := c.ListGoods(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(want, goods); diff != "" {
		t.Errorf("goods mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckPurchaseAdvisoryCodes(t *testing.T) {
	purchased := false
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/flash-sale/check-purchase/5", func(w http.ResponseWriter, r *http.Request) {
		if purchased {
			respond(w, CodeRepeatError, "This item is limited to one per person", nil)
			return
		}
		respond(w, CodeSuccess, "SUCCESS", "User can purchase this item")
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	assert.NoError(t, c.CheckPurchase(ctx, 5))

	purchased = true
	err := c.CheckPurchase(ctx, 5)
	assert.True(t, IsCode(err, CodeRepeatError))
}

func TestGetCaptchaImageCarriesCacheBust(t *testing.T) {
	img := []byte{0x89, 'P', 'N', 'G'}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /flashSale/getCaptcha", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("goodsId"))
		assert.NotEmpty(t, r.URL.Query().Get("t"), "cache-bust discriminator is mandatory")
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	})
	c, _ := newTestClient(t, mux)

	got, err := c.GetCaptchaImage(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, img, got)
}

func TestVerifyCaptchaReturnsPathToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /flashSale/getFlashSalePath", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("captcha") != "18" {
			respond(w, CodeCaptchaError, "Invalid captcha", nil)
			return
		}
		respond(w, CodeSuccess, "SUCCESS", "deadbeefcafebabe")
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	token, err := c.VerifyCaptcha(ctx, 7, "18")
	require.NoError(t, err)
	assert.Equal(t, "deadbeefcafebabe", token)

	_, err = c.VerifyCaptcha(ctx, 7, "99")
	assert.True(t, IsCode(err, CodeCaptchaError))
}

func TestSubmitPurchaseOutcomes(t *testing.T) {
	var code int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /flashSale/doFlashSale/{path}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.PathValue("path"))
		assert.Equal(t, "7", r.URL.Query().Get("goodsId"))
		switch code {
		case CodeSuccess:
			respond(w, CodeSuccess, "SUCCESS", 321)
		default:
			respond(w, code, "rejected", nil)
		}
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	code = CodeSuccess
	orderID, err := c.SubmitPurchase(ctx, "tok-1", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(321), orderID)

	code = CodeRepeatError
	_, err = c.SubmitPurchase(ctx, "tok-1", 7)
	assert.True(t, IsCode(err, CodeRepeatError))

	code = CodeEmptyStock
	_, err = c.SubmitPurchase(ctx, "tok-1", 7)
	assert.True(t, IsCode(err, CodeEmptyStock))
}

func TestOrderLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	order := model.Order{
		ID:          321,
		UserID:      9,
		GoodsID:     7,
		GoodsName:   "BlitzBuy Phone",
		GoodsCount:  1,
		GoodsPrice:  99,
		OrderStatus: model.OrderPendingPayment,
		CreateTime:  &now,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/orders/321", func(w http.ResponseWriter, r *http.Request) {
		respond(w, CodeSuccess, "SUCCESS", order)
	})
	mux.HandleFunc("GET /api/v1/orders/404", func(w http.ResponseWriter, r *http.Request) {
		respond(w, CodeError, "Order not found", nil)
	})
	mux.HandleFunc("POST /api/v1/orders/321/pay", func(w http.ResponseWriter, r *http.Request) {
		respond(w, CodeSuccess, "SUCCESS", nil)
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	got, err := c.GetOrder(ctx, 321)
	require.NoError(t, err)
	if diff := cmp.Diff(order, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	_, err = c.GetOrder(ctx, 404)
	assert.True(t, IsCode(err, CodeError))

	assert.NoError(t, c.PayOrder(ctx, 321))
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	c, srv := newTestClient(t, http.NotFoundHandler())
	srv.Close()

	_, err := c.ListGoods(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures must not look like domain rejections")
}

func TestNewClientValidatesRoots(t *testing.T) {
	_, err := NewClient(Config{APIBaseURL: "http://x"})
	assert.Error(t, err)
}
