// Package model defines the wire-level domain values exchanged with the
// BlitzBuy backend. Shapes mirror the backend's GoodsVo/Order/User beans.
package model

import "time"

// Goods is the flash-sale goods view: base goods fields joined with the
// flash-sale window and discounted price/stock.
type Goods struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"imageUrl"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Stock          int       `json:"stock"`
	FlashSalePrice float64   `json:"flashSalePrice"`
	FlashSaleStock int       `json:"flashSaleStock"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
}

// InStock reports whether any flash-sale stock remains.
func (g Goods) InStock() bool { return g.FlashSaleStock > 0 }

// LowStock reports whether the remaining flash-sale stock is low enough
// to warn about (but not zero).
func (g Goods) LowStock() bool { return g.FlashSaleStock > 0 && g.FlashSaleStock <= 5 }

// OrderStatus is the backend's order lifecycle domain.
type OrderStatus int

const (
	OrderPendingPayment OrderStatus = 0
	OrderPaid           OrderStatus = 1
	OrderShipped        OrderStatus = 2
	OrderDelivered      OrderStatus = 3
)

// String returns the display name for the status.
func (s OrderStatus) String() string {
	switch s {
	case OrderPendingPayment:
		return "Pending Payment"
	case OrderPaid:
		return "Paid"
	case OrderShipped:
		return "Shipped"
	case OrderDelivered:
		return "Delivered"
	default:
		return "Unknown"
	}
}

// Payable reports whether the order can still be paid.
func (s OrderStatus) Payable() bool { return s == OrderPendingPayment }

// Order is a settled flash-sale order as returned by the orders API.
type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	GoodsID         int64       `json:"goodsId"`
	GoodsName       string      `json:"goodsName"`
	GoodsCount      int         `json:"goodsCount"`
	GoodsPrice      float64     `json:"goodsPrice"`
	OrderChannel    int         `json:"orderChannel"`
	OrderStatus     OrderStatus `json:"orderStatus"`
	DeliveryAddress string      `json:"deliveryAddress"`
	CreateTime      *time.Time  `json:"createTime"`
	PayTime         *time.Time  `json:"payTime"`
}

// User is the authenticated user snapshot from /auth/me.
type User struct {
	ID         int64  `json:"id"`
	Nickname   string `json:"nickname"`
	Mobile     string `json:"mobile"`
	Head       string `json:"head"`
	LoginCount int    `json:"loginCount"`
}

// LoginForm carries the login request body. Password must already be the
// client-side pre-hash, never the plaintext.
type LoginForm struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}
