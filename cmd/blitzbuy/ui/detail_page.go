package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/HeatherCyber/BlitzBuy/internal/api"
	"github.com/HeatherCyber/BlitzBuy/internal/model"
	"github.com/HeatherCyber/BlitzBuy/internal/sale"
)

// detailGen hands each detail page visit a distinct tick generation.
// Ticks stamped with an older generation are dropped instead of being
// rescheduled, which is how leaving the page stops the countdown loop.
var detailGen int

// writeCaptchaFile is swappable in tests.
var writeCaptchaFile = func(goodsID int64, image []byte) (string, error) {
	f, err := os.CreateTemp("", fmt.Sprintf("blitzbuy-captcha-%d-*.png", goodsID))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.Write(image); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// DetailPageModel is the goods detail view. It owns one purchase
// attempt (sale.PurchaseFlow) and the 1-second countdown tick; both
// are scoped to this visit and dropped when the user navigates away.
type DetailPageModel struct {
	deps   Deps
	styles Styles
	log    *zap.Logger

	goodsID int64
	goods   model.Goods
	loaded  bool
	errText string

	flow       *sale.PurchaseFlow
	phase      sale.Phase
	remain     int64
	gen        int
	captchaTmp string

	captchaInput textinput.Model
	verifying    bool
	spinner      spinner.Model

	width  int
	height int
}

// NewDetailPageModel creates a fresh attempt for one item view.
func NewDetailPageModel(deps Deps, goodsID int64) DetailPageModel {
	detailGen++

	input := textinput.New()
	input.Placeholder = "Captcha answer"
	input.CharLimit = 8
	input.Width = 20

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = deps.Styles.Info

	return DetailPageModel{
		deps:         deps,
		styles:       deps.Styles,
		log:          deps.Log,
		goodsID:      goodsID,
		gen:          detailGen,
		captchaInput: input,
		spinner:      sp,
	}
}

// Init fetches the item, runs the advisory purchase pre-check, and
// starts the countdown tick.
func (m DetailPageModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.precheckCmd(), m.tickCmd())
}

func (m DetailPageModel) loadCmd() tea.Cmd {
	client := m.deps.Client
	goodsID := m.goodsID
	return func() tea.Msg {
		g, err := client.GetGoods(context.Background(), goodsID)
		return goodsDetailMsg{goods: g, err: err}
	}
}

// precheckCmd asks whether this user already purchased the item.
// Failures are swallowed: the check is an optimization, the purchase
// submission response is the authority.
func (m DetailPageModel) precheckCmd() tea.Cmd {
	client := m.deps.Client
	goodsID := m.goodsID
	return func() tea.Msg {
		err := client.CheckPurchase(context.Background(), goodsID)
		return purchaseCheckMsg{
			goodsID:   goodsID,
			duplicate: api.IsCode(err, api.CodeRepeatError),
		}
	}
}

func (m DetailPageModel) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

func (m DetailPageModel) captchaCmd() tea.Cmd {
	client := m.deps.Client
	goodsID := m.goodsID
	return func() tea.Msg {
		image, err := client.GetCaptchaImage(context.Background(), goodsID)
		if err != nil {
			return captchaMsg{goodsID: goodsID, err: err}
		}
		path, err := writeCaptchaFile(goodsID, image)
		if err != nil {
			return captchaMsg{goodsID: goodsID, err: err}
		}
		return captchaMsg{goodsID: goodsID, image: image, imagePath: path}
	}
}

func (m DetailPageModel) verifyCmd(answer string) tea.Cmd {
	client := m.deps.Client
	goodsID := m.goodsID
	return func() tea.Msg {
		token, err := client.VerifyCaptcha(context.Background(), goodsID, answer)
		return verifyMsg{goodsID: goodsID, token: token, err: err}
	}
}

func (m DetailPageModel) purchaseCmd(token string) tea.Cmd {
	client := m.deps.Client
	goodsID := m.goodsID
	return func() tea.Msg {
		orderID, err := client.SubmitPurchase(context.Background(), token, goodsID)
		return purchaseMsg{goodsID: goodsID, orderID: orderID, err: err}
	}
}

func (m *DetailPageModel) refreshCountdown() {
	if !m.loaded {
		return
	}
	m.phase, m.remain = sale.Evaluate(m.deps.Clock.Now(), m.goods.StartTime, m.goods.EndTime)
}

// Update drives the purchase flow from user actions and gateway
// responses. All transitions go through the flow's precondition
// checks; the page never mutates attempt state directly.
func (m DetailPageModel) Update(msg tea.Msg) (DetailPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case countdownTickMsg:
		if msg.gen != m.gen {
			return m, nil // stale tick from a previous visit
		}
		m.refreshCountdown()
		return m, m.tickCmd()

	case goodsDetailMsg:
		if msg.err != nil {
			// Missing item: redirect to the safe listing view.
			return m, func() tea.Msg {
				return ShowGoodsListMsg{Status: "Item not found or failed to load."}
			}
		}
		m.goods = msg.goods
		m.loaded = true
		if m.flow == nil {
			m.flow = sale.NewPurchaseFlow(m.goodsID, m.goods.FlashSaleStock, m.deps.Clock, m.log)
		} else {
			m.flow.SetStock(m.goods.FlashSaleStock)
		}
		m.refreshCountdown()
		return m, nil

	case purchaseCheckMsg:
		if msg.goodsID == m.goodsID && msg.duplicate {
			m.ensureFlow()
			m.flow.ObserveDuplicate()
		}
		return m, nil

	case captchaMsg:
		if msg.goodsID != m.goodsID || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			m.flow.CaptchaFailed(msg.err)
			return m, nil
		}
		m.flow.CaptchaIssued(msg.image)
		m.captchaTmp = msg.imagePath
		m.captchaInput.SetValue("")
		return m, m.captchaInput.Focus()

	case verifyMsg:
		m.verifying = false
		if msg.goodsID != m.goodsID || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			// Old challenge is spent; fetch a fresh one automatically.
			if m.flow.VerifyFailed(msg.err) {
				return m, m.captchaCmd()
			}
			return m, nil
		}
		m.flow.VerifySucceeded(msg.token)
		m.captchaInput.Blur()
		return m, nil

	case purchaseMsg:
		if msg.goodsID != m.goodsID || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			m.flow.SubmitFailed(msg.err)
			return m, nil
		}
		m.flow.SubmitSucceeded(msg.orderID)
		orderID := msg.orderID
		return m, func() tea.Msg { return ShowOrderMsg{OrderID: orderID} }

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.captchaInput.Focused() {
		var cmd tea.Cmd
		m.captchaInput, cmd = m.captchaInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *DetailPageModel) ensureFlow() {
	if m.flow == nil {
		m.flow = sale.NewPurchaseFlow(m.goodsID, 0, m.deps.Clock, m.log)
	}
}

func (m DetailPageModel) busy() bool {
	return m.verifying || (m.flow != nil && m.flow.Submitting())
}

func (m DetailPageModel) handleKey(msg tea.KeyMsg) (DetailPageModel, tea.Cmd) {
	// Typing goes to the captcha field while a challenge is open.
	if m.flow != nil && m.flow.State() == sale.StateAwaitingCaptcha && m.captchaInput.Focused() {
		switch msg.String() {
		case "enter":
			answer := strings.TrimSpace(m.captchaInput.Value())
			if answer == "" {
				return m, nil
			}
			m.verifying = true
			return m, tea.Batch(m.spinner.Tick, m.verifyCmd(answer))
		case "esc":
			return m, m.backCmd()
		case "ctrl+r":
			// Manual refresh; invalidates the open challenge.
			if err := m.flow.RequestCaptcha(m.phase); err == nil {
				return m, m.captchaCmd()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.captchaInput, cmd = m.captchaInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "esc", "q":
		return m, m.backCmd()
	case "g":
		if m.flow == nil || m.busy() {
			return m, nil
		}
		if err := m.flow.RequestCaptcha(m.phase); err != nil {
			return m, nil
		}
		return m, m.captchaCmd()
	case "b", "enter":
		if m.flow == nil || m.busy() {
			return m, nil
		}
		token, err := m.flow.BeginSubmit()
		if err != nil {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, m.purchaseCmd(token))
	case "o":
		if m.flow != nil && m.flow.State() == sale.StatePurchased {
			orderID := m.flow.OrderID()
			return m, func() tea.Msg { return ShowOrderMsg{OrderID: orderID} }
		}
	}
	return m, nil
}

func (m DetailPageModel) backCmd() tea.Cmd {
	return func() tea.Msg { return ShowGoodsListMsg{} }
}

// View renders the item, the countdown, and whichever purchase action
// the flow currently allows.
func (m DetailPageModel) View() string {
	if !m.loaded {
		return m.styles.Content.Render(m.spinner.View() + " Loading item...")
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Flash Sale — "+m.goods.Name) + "\n\n")

	price := fmt.Sprintf("%s  %s",
		m.styles.Price.Render(fmt.Sprintf("$%.2f", m.goods.FlashSalePrice)),
		m.styles.StruckOut.Render(fmt.Sprintf("$%.2f", m.goods.Price)))
	b.WriteString(price + "\n")

	if m.goods.Description != "" {
		b.WriteString(m.styles.Muted.Render(m.goods.Description) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.countdownView() + "\n")
	b.WriteString(m.stockView() + "\n\n")
	b.WriteString(m.actionView() + "\n")

	b.WriteString("\n" + m.styles.Footer.Render(m.helpView()))
	return m.styles.Content.Render(b.String())
}

func (m DetailPageModel) countdownView() string {
	tag := m.styles.PhaseTag.Render(m.phase.String())
	switch m.phase {
	case sale.PhaseNotStarted:
		return tag + "  starts in " + m.styles.Bold.Render(sale.FormatRemaining(m.remain))
	case sale.PhaseActive:
		return tag + "  ends in " + m.styles.Bold.Render(sale.FormatRemaining(m.remain))
	default:
		return tag
	}
}

func (m DetailPageModel) stockView() string {
	switch {
	case !m.goods.InStock():
		return m.styles.Error.Render("Out of stock")
	case m.goods.LowStock():
		return m.styles.Warning.Render(fmt.Sprintf("Low stock — only %d left!", m.goods.FlashSaleStock))
	default:
		return m.styles.Muted.Render(fmt.Sprintf("%d in stock", m.goods.FlashSaleStock))
	}
}

func (m DetailPageModel) actionView() string {
	if m.flow == nil {
		return ""
	}

	switch m.flow.State() {
	case sale.StateAlreadyPurchased:
		return m.styles.Card.Render(m.styles.Error.Render("Already purchased") + "\n" +
			m.styles.Muted.Render("This item is limited to one per customer."))

	case sale.StateOutOfStock:
		return m.styles.Card.Render(m.styles.Error.Render("Out of stock") + "\n" +
			m.styles.Muted.Render("This flash sale item sold out. Try another item."))

	case sale.StatePurchased:
		return m.styles.ActiveCard.Render(m.styles.Success.Render("Purchase successful!") + "\n" +
			m.styles.Muted.Render(fmt.Sprintf("Order #%d created. Press o to view it.", m.flow.OrderID())))

	case sale.StateAwaitingCaptcha:
		var b strings.Builder
		b.WriteString(m.styles.Subtitle.Render("Verify the captcha") + "\n")
		if m.captchaTmp != "" {
			b.WriteString(m.styles.Muted.Render("Captcha image saved to "+m.captchaTmp) + "\n")
		}
		b.WriteString(m.captchaInput.View() + "\n")
		if m.verifying {
			b.WriteString(m.spinner.View() + " Verifying...")
		} else if m.flow.FailReason() != "" {
			b.WriteString(m.styles.Error.Render(m.flow.FailReason()))
		}
		return m.styles.ActiveCard.Render(b.String())

	case sale.StateReadyToPurchase:
		label := m.styles.Success.Render("Captcha verified — ready to buy") + "\n" +
			m.styles.Bold.Render("Press b to buy now!")
		if m.flow.Submitting() {
			label = m.spinner.View() + " Submitting purchase..."
		}
		return m.styles.ActiveCard.Render(label)

	default: // StateIdle
		if !m.flow.CanAct(m.phase) {
			switch {
			case m.phase == sale.PhaseNotStarted:
				return m.styles.Muted.Render("The flash sale has not started yet. Come back later!")
			case m.phase == sale.PhaseEnded:
				return m.styles.Muted.Render("The flash sale has ended.")
			default:
				return ""
			}
		}
		hint := m.styles.Bold.Render("Press g to get a captcha and start the flash sale")
		if m.flow.FailReason() != "" {
			hint += "\n" + m.styles.Error.Render(m.flow.FailReason())
		}
		return m.styles.Card.Render(hint)
	}
}

func (m DetailPageModel) helpView() string {
	if m.flow != nil && m.flow.State() == sale.StateAwaitingCaptcha {
		return "enter: verify • ctrl+r: new captcha • esc: back"
	}
	return "g: captcha • b: buy • o: order • esc: back • ctrl+c: quit"
}

// SetSize records the window size.
func (m *DetailPageModel) SetSize(w, h int) {
	m.width, m.height = w, h
}
