package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/HeatherCyber/BlitzBuy/internal/api"
	"github.com/HeatherCyber/BlitzBuy/internal/session"
)

// page identifies the active view.
type page int

const (
	pageLogin page = iota
	pageGoods
	pageDetail
	pageOrder
)

// Deps are the collaborators handed to the App at construction. Views
// get the session as the narrow Capability, not the concrete store.
type Deps struct {
	Client  *api.Client
	Session *session.Store
	Clock   clockwork.Clock
	Log     *zap.Logger
	Styles  Styles
}

// App is the root model: it owns page routing and the page models.
// Purchase-attempt state lives inside the detail page model, which is
// recreated on every visit and dropped on navigation, so nothing about
// an attempt leaks across views.
type App struct {
	deps Deps

	page   page
	login  LoginPageModel
	goods  GoodsPageModel
	detail *DetailPageModel
	order  OrderPageModel

	width  int
	height int
}

// NewApp wires the pages. The starting page depends on whether a
// stored session exists; a stored ticket is still validated against
// /auth/me before the goods page trusts it.
func NewApp(deps Deps) App {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	app := App{
		deps:  deps,
		login: NewLoginPageModel(deps),
		goods: NewGoodsPageModel(deps),
		order: NewOrderPageModel(deps),
	}
	if deps.Session.LoggedIn() {
		app.page = pageGoods
	} else {
		app.page = pageLogin
	}
	return app
}

// Init validates any stored ticket and kicks off the first page load.
func (a App) Init() tea.Cmd {
	if a.page == pageGoods {
		return tea.Batch(a.checkSessionCmd(), a.goods.loadCmd())
	}
	return a.login.Init()
}

func (a App) checkSessionCmd() tea.Cmd {
	client := a.deps.Client
	return func() tea.Msg {
		user, err := client.CurrentUser(context.Background())
		if err != nil {
			return sessionCheckMsg{valid: false}
		}
		return sessionCheckMsg{user: user, valid: true}
	}
}

// Update routes messages: navigation and window sizing here, the rest
// to the active page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		a.goods.SetSize(msg.Width, msg.Height)
		a.order.SetSize(msg.Width, msg.Height)
		if a.detail != nil {
			a.detail.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case sessionCheckMsg:
		if !msg.valid {
			// Stale ticket: drop it and fall back to login.
			_ = a.deps.Session.Clear()
			a.page = pageLogin
			a.login = NewLoginPageModel(a.deps)
			a.login.SetSize(a.width, a.height)
			return a, a.login.Init()
		}
		a.goods.SetUser(msg.user)
		return a, nil

	case LoggedInMsg:
		a.page = pageGoods
		a.goods = NewGoodsPageModel(a.deps)
		a.goods.SetUser(msg.User)
		a.goods.SetSize(a.width, a.height)
		return a, a.goods.loadCmd()

	case LoggedOutMsg:
		a.page = pageLogin
		a.detail = nil
		a.login = NewLoginPageModel(a.deps)
		a.login.SetSize(a.width, a.height)
		return a, a.login.Init()

	case ShowGoodsListMsg:
		a.page = pageGoods
		a.detail = nil // drops the attempt state and orphans its ticks
		a.goods.SetStatus(msg.Status)
		a.goods.SetSize(a.width, a.height)
		return a, a.goods.loadCmd()

	case ShowGoodsDetailMsg:
		detail := NewDetailPageModel(a.deps, msg.GoodsID)
		a.detail = &detail
		a.page = pageDetail
		a.detail.SetSize(a.width, a.height)
		return a, a.detail.Init()

	case ShowOrderMsg:
		a.page = pageOrder
		a.detail = nil
		a.order = NewOrderPageModel(a.deps)
		a.order.SetSize(a.width, a.height)
		return a, a.order.loadCmd(msg.OrderID)
	}

	var cmd tea.Cmd
	switch a.page {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageGoods:
		a.goods, cmd = a.goods.Update(msg)
	case pageDetail:
		if a.detail != nil {
			var d DetailPageModel
			d, cmd = a.detail.Update(msg)
			a.detail = &d
		}
	case pageOrder:
		a.order, cmd = a.order.Update(msg)
	}
	return a, cmd
}

// View renders the active page.
func (a App) View() string {
	switch a.page {
	case pageLogin:
		return a.login.View()
	case pageGoods:
		return a.goods.View()
	case pageDetail:
		if a.detail != nil {
			return a.detail.View()
		}
		return ""
	case pageOrder:
		return a.order.View()
	default:
		return ""
	}
}
