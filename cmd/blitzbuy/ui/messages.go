package ui

import "github.com/HeatherCyber/BlitzBuy/internal/model"

// Navigation messages routed by the App model.

// ShowGoodsListMsg navigates to the goods list, optionally flashing a
// status line (e.g. after a not-found redirect).
type ShowGoodsListMsg struct {
	Status string
}

// ShowGoodsDetailMsg opens the detail page for one item.
type ShowGoodsDetailMsg struct {
	GoodsID int64
}

// ShowOrderMsg opens the order page.
type ShowOrderMsg struct {
	OrderID int64
}

// LoggedInMsg reports a completed login.
type LoggedInMsg struct {
	User model.User
}

// LoggedOutMsg reports that the session was cleared.
type LoggedOutMsg struct{}

// Result messages delivered by network commands.

type goodsListMsg struct {
	goods []model.Goods
	err   error
}

type goodsDetailMsg struct {
	goods model.Goods
	err   error
}

type purchaseCheckMsg struct {
	goodsID   int64
	duplicate bool
}

type captchaMsg struct {
	goodsID   int64
	image     []byte
	imagePath string
	err       error
}

type verifyMsg struct {
	goodsID int64
	token   string
	err     error
}

type purchaseMsg struct {
	goodsID int64
	orderID int64
	err     error
}

type orderMsg struct {
	order model.Order
	err   error
}

type payMsg struct {
	orderID int64
	err     error
}

type loginResultMsg struct {
	user model.User
	err  error
}

type sessionCheckMsg struct {
	user  model.User
	valid bool
}

// countdownTickMsg is the detail page's 1-second pulse. The generation
// stamp lets the page drop ticks scheduled before the last navigation,
// so leaving the page cancels the loop.
type countdownTickMsg struct {
	gen int
}
