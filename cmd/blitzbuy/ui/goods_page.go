package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
	"github.com/HeatherCyber/BlitzBuy/internal/sale"
)

// goodsListItem adapts model.Goods to list.Item, tagging each row with
// its current sale phase.
type goodsListItem struct {
	goods model.Goods
	phase sale.Phase
}

func (i goodsListItem) Title() string {
	return i.goods.Name
}

func (i goodsListItem) Description() string {
	stock := fmt.Sprintf("%d left", i.goods.FlashSaleStock)
	if !i.goods.InStock() {
		stock = "sold out"
	}
	return fmt.Sprintf("$%.2f (was $%.2f) • %s • %s",
		i.goods.FlashSalePrice, i.goods.Price, stock, i.phase)
}

func (i goodsListItem) FilterValue() string { return i.goods.Name }

// GoodsPageModel is the flash-sale goods listing.
type GoodsPageModel struct {
	deps   Deps
	styles Styles

	list    list.Model
	spinner spinner.Model
	loading bool
	errText string
	status  string
	user    model.User

	width  int
	height int
}

// NewGoodsPageModel builds the listing page.
func NewGoodsPageModel(deps Deps) GoodsPageModel {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Flash Sales"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = deps.Styles.Title

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Info

	return GoodsPageModel{
		deps:    deps,
		styles:  deps.Styles,
		list:    l,
		spinner: sp,
	}
}

// SetUser records the signed-in user for the header line.
func (m *GoodsPageModel) SetUser(user model.User) { m.user = user }

// SetStatus flashes a one-off status line (e.g. after a redirect).
func (m *GoodsPageModel) SetStatus(status string) { m.status = status }

// loadCmd fetches the goods list.
func (m *GoodsPageModel) loadCmd() tea.Cmd {
	m.loading = true
	m.errText = ""
	client := m.deps.Client
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		goods, err := client.ListGoods(context.Background())
		return goodsListMsg{goods: goods, err: err}
	})
}

// Update handles list navigation and refresh.
func (m GoodsPageModel) Update(msg tea.Msg) (GoodsPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case goodsListMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = "Failed to load goods. Press r to retry."
			return m, nil
		}
		now := m.deps.Clock.Now()
		items := make([]list.Item, 0, len(msg.goods))
		for _, g := range msg.goods {
			phase, _ := sale.Evaluate(now, g.StartTime, g.EndTime)
			items = append(items, goodsListItem{goods: g, phase: phase})
		}
		return m, m.list.SetItems(items)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(goodsListItem); ok {
				goodsID := item.goods.ID
				return m, func() tea.Msg { return ShowGoodsDetailMsg{GoodsID: goodsID} }
			}
		case "r":
			m.status = ""
			return m, m.loadCmd()
		case "L":
			return m, m.logoutCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// logoutCmd clears the server session best-effort and always clears
// the local one.
func (m GoodsPageModel) logoutCmd() tea.Cmd {
	client := m.deps.Client
	store := m.deps.Session
	return func() tea.Msg {
		_ = client.Logout(context.Background())
		_ = store.Clear()
		return LoggedOutMsg{}
	}
}

// View renders the listing.
func (m GoodsPageModel) View() string {
	var header string
	if m.user.Nickname != "" {
		header = m.styles.Header.Render("BlitzBuy") + m.styles.Muted.Render("  signed in as "+m.user.Nickname)
	} else {
		header = m.styles.Header.Render("BlitzBuy")
	}

	body := m.list.View()
	if m.loading {
		body = m.spinner.View() + " Loading flash sales..."
	}

	var notice string
	switch {
	case m.errText != "":
		notice = m.styles.Error.Render(m.errText)
	case m.status != "":
		notice = m.styles.Warning.Render(m.status)
	}

	footer := m.styles.Footer.Render("enter: view item • r: refresh • /: filter • L: log out • ctrl+c: quit")

	sections := []string{header, body}
	if notice != "" {
		sections = append(sections, notice)
	}
	sections = append(sections, footer)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize resizes the embedded list.
func (m *GoodsPageModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(w, max(4, h-4))
}
