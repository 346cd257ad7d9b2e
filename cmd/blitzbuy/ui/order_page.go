package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HeatherCyber/BlitzBuy/internal/model"
)

// OrderPageModel renders one order and, for pending-payment orders,
// offers the pay action.
type OrderPageModel struct {
	deps   Deps
	styles Styles

	order   model.Order
	loaded  bool
	paying  bool
	notice  string
	spinner spinner.Model

	width  int
	height int
}

// NewOrderPageModel builds the page.
func NewOrderPageModel(deps Deps) OrderPageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Info
	return OrderPageModel{deps: deps, styles: deps.Styles, spinner: sp}
}

// loadCmd fetches the order.
func (m *OrderPageModel) loadCmd(orderID int64) tea.Cmd {
	m.loaded = false
	client := m.deps.Client
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		order, err := client.GetOrder(context.Background(), orderID)
		return orderMsg{order: order, err: err}
	})
}

func (m OrderPageModel) payCmd() tea.Cmd {
	client := m.deps.Client
	orderID := m.order.ID
	return func() tea.Msg {
		err := client.PayOrder(context.Background(), orderID)
		return payMsg{orderID: orderID, err: err}
	}
}

// Update handles loading, payment and navigation.
func (m OrderPageModel) Update(msg tea.Msg) (OrderPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case orderMsg:
		if msg.err != nil {
			// Missing or foreign order: back to the safe listing view.
			return m, func() tea.Msg {
				return ShowGoodsListMsg{Status: "Order not found."}
			}
		}
		m.order = msg.order
		m.loaded = true
		return m, nil

	case payMsg:
		m.paying = false
		if msg.err != nil {
			m.notice = "Payment failed. Please try again."
			return m, nil
		}
		m.order.OrderStatus = model.OrderPaid
		now := time.Now()
		m.order.PayTime = &now
		m.notice = "Payment successful."
		return m, nil

	case spinner.TickMsg:
		if m.loaded && !m.paying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return ShowGoodsListMsg{} }
		case "p":
			if m.loaded && !m.paying && m.order.OrderStatus.Payable() {
				m.paying = true
				m.notice = ""
				return m, tea.Batch(m.spinner.Tick, m.payCmd())
			}
		}
	}
	return m, nil
}

// View renders the order card.
func (m OrderPageModel) View() string {
	if !m.loaded {
		return m.styles.Content.Render(m.spinner.View() + " Loading order...")
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("Order #%d", m.order.ID)) + "\n\n")

	statusStyle := m.styles.Warning
	if m.order.OrderStatus != model.OrderPendingPayment {
		statusStyle = m.styles.Success
	}

	rows := []string{
		"Item:     " + m.order.GoodsName,
		fmt.Sprintf("Quantity: %d", m.order.GoodsCount),
		fmt.Sprintf("Price:    $%.2f", m.order.GoodsPrice),
		"Status:   " + statusStyle.Render(m.order.OrderStatus.String()),
	}
	if m.order.DeliveryAddress != "" {
		rows = append(rows, "Ship to:  "+m.order.DeliveryAddress)
	}
	if m.order.CreateTime != nil {
		rows = append(rows, "Created:  "+m.order.CreateTime.Format("2006-01-02 15:04:05"))
	}
	if m.order.PayTime != nil {
		rows = append(rows, "Paid:     "+m.order.PayTime.Format("2006-01-02 15:04:05"))
	}
	b.WriteString(m.styles.Card.Render(strings.Join(rows, "\n")) + "\n")

	if m.paying {
		b.WriteString("\n" + m.spinner.View() + " Processing payment...")
	} else if m.notice != "" {
		style := m.styles.Success
		if strings.Contains(m.notice, "failed") {
			style = m.styles.Error
		}
		b.WriteString("\n" + style.Render(m.notice))
	}

	help := "esc: back to goods"
	if m.order.OrderStatus.Payable() && !m.paying {
		help = "p: pay now • " + help
	}
	b.WriteString("\n\n" + m.styles.Footer.Render(help))
	return m.styles.Content.Render(b.String())
}

// SetSize records the window size.
func (m *OrderPageModel) SetSize(w, h int) {
	m.width, m.height = w, h
}
