package sale

import (
	"errors"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/HeatherCyber/BlitzBuy/internal/api"
)

// FlowState is the purchase flow controller's position in the captcha →
// verify → purchase progression.
type FlowState int

const (
	// StateIdle: no challenge outstanding, no token held.
	StateIdle FlowState = iota
	// StateAwaitingCaptcha: a challenge has been issued and the user
	// has not yet answered it (or the answer is being verified).
	StateAwaitingCaptcha
	// StateReadyToPurchase: a live path token is held; presence of the
	// token is the sole authorization to submit a purchase.
	StateReadyToPurchase
	// StatePurchased: terminal; the order was created.
	StatePurchased
	// StateAlreadyPurchased: terminal; the backend reported a duplicate
	// purchase at some point. Sticky for the session.
	StateAlreadyPurchased
	// StateOutOfStock: the item sold out. It stays viewable but the
	// purchase action is withdrawn.
	StateOutOfStock
)

// String returns the state name for logs.
func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCaptcha:
		return "awaiting_captcha"
	case StateReadyToPurchase:
		return "ready_to_purchase"
	case StatePurchased:
		return "purchased"
	case StateAlreadyPurchased:
		return "already_purchased"
	case StateOutOfStock:
		return "out_of_stock"
	default:
		return "unknown"
	}
}

// Outcome is the resolved result of the purchase attempt.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSucceeded
	OutcomeAlreadyPurchased
	OutcomeOutOfStock
	OutcomeFailed
)

// Flow errors returned by action preconditions.
var (
	ErrNotActive        = errors.New("sale: flash sale is not active")
	ErrNoStock          = errors.New("sale: item is out of stock")
	ErrAlreadyPurchased = errors.New("sale: already purchased this item")
	ErrNoToken          = errors.New("sale: no purchase path token held")
	ErrSubmitInFlight   = errors.New("sale: a purchase submission is already in flight")
	ErrTerminal         = errors.New("sale: purchase flow already resolved")
)

// PurchaseFlow is the per-item, per-view purchase attempt state machine.
// It owns the attempt data (challenge, token, outcome) and validates
// every transition; it performs no I/O itself. Callers run the gateway
// calls and feed the response codes back in. All methods are meant to
// be called from a single event loop; transitions are synchronous.
type PurchaseFlow struct {
	goodsID int64
	stock   int

	state      FlowState
	challenge  []byte // captcha image bytes, present only while awaiting verification
	pathToken  string
	orderID    int64
	outcome    Outcome
	failReason string
	submitting bool

	clock clockwork.Clock
	log   *zap.Logger
}

// NewPurchaseFlow creates a fresh attempt for one item view. The flow
// is discarded when the view closes; nothing persists across views.
func NewPurchaseFlow(goodsID int64, stock int, clock clockwork.Clock, log *zap.Logger) *PurchaseFlow {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseFlow{
		goodsID: goodsID,
		stock:   stock,
		state:   StateIdle,
		outcome: OutcomePending,
		clock:   clock,
		log:     log,
	}
}

// State returns the current flow state.
func (f *PurchaseFlow) State() FlowState { return f.state }

// Outcome returns the resolved outcome, OutcomePending until terminal.
func (f *PurchaseFlow) Outcome() Outcome { return f.outcome }

// OrderID returns the created order id; valid only in StatePurchased.
func (f *PurchaseFlow) OrderID() int64 { return f.orderID }

// FailReason returns the last surfaced failure message.
func (f *PurchaseFlow) FailReason() string { return f.failReason }

// Challenge returns the current captcha image bytes, nil when none is
// outstanding.
func (f *PurchaseFlow) Challenge() []byte { return f.challenge }

// HoldsToken reports whether a live path token is held.
func (f *PurchaseFlow) HoldsToken() bool { return f.pathToken != "" }

// Submitting reports whether a purchase submission is in flight. While
// true the purchase action is disabled; this is a client-side guard
// only, the backend still enforces at-most-one purchase.
func (f *PurchaseFlow) Submitting() bool { return f.submitting }

// SetStock updates the observed stock, e.g. after a detail refresh.
func (f *PurchaseFlow) SetStock(stock int) { f.stock = stock }

func (f *PurchaseFlow) terminal() bool {
	return f.state == StatePurchased || f.state == StateAlreadyPurchased
}

// CanAct reports whether the purchase actions are offered at all for
// the given phase: sale active, stock remaining, attempt unresolved.
func (f *PurchaseFlow) CanAct(phase Phase) bool {
	return phase == PhaseActive && f.stock > 0 && !f.terminal() && f.state != StateOutOfStock
}

// RequestCaptcha validates that a new challenge may be requested.
// Requesting a new captcha invalidates any previously held token and
// any outstanding challenge; the caller then fetches the image and
// reports the result via CaptchaIssued or CaptchaFailed.
func (f *PurchaseFlow) RequestCaptcha(phase Phase) error {
	if f.submitting {
		return ErrSubmitInFlight
	}
	if f.terminal() {
		if f.state == StateAlreadyPurchased {
			return ErrAlreadyPurchased
		}
		return ErrTerminal
	}
	if phase != PhaseActive {
		return ErrNotActive
	}
	if f.stock <= 0 || f.state == StateOutOfStock {
		return ErrNoStock
	}

	// Single live token per item per session: a fresh challenge kills
	// the old authorization.
	f.pathToken = ""
	f.challenge = nil
	f.state = StateIdle
	return nil
}

// CaptchaIssued records a freshly fetched challenge image.
func (f *PurchaseFlow) CaptchaIssued(image []byte) {
	if f.terminal() {
		return
	}
	f.challenge = image
	f.state = StateAwaitingCaptcha
	f.log.Debug("captcha issued",
		zap.Int64("goods", f.goodsID),
		zap.Time("at", f.clock.Now()))
}

// CaptchaFailed records a failed challenge fetch; the flow stays where
// it was and the message is surfaced.
func (f *PurchaseFlow) CaptchaFailed(err error) {
	f.failReason = userMessage(err, "Failed to load captcha")
}

// VerifySucceeded stores the one-time path token issued for a correct
// captcha answer. The challenge is consumed.
func (f *PurchaseFlow) VerifySucceeded(pathToken string) {
	if f.terminal() {
		return
	}
	f.pathToken = pathToken
	f.challenge = nil
	f.failReason = ""
	f.state = StateReadyToPurchase
	f.log.Info("captcha verified", zap.Int64("goods", f.goodsID))
}

// VerifyFailed handles a rejected captcha answer. The old challenge is
// presumed consumed or expired, so the caller must immediately request
// a fresh one; refresh reports whether that auto-refresh should happen
// (false once the flow has gone terminal via a duplicate signal).
func (f *PurchaseFlow) VerifyFailed(err error) (refresh bool) {
	if api.IsCode(err, api.CodeRepeatError) {
		f.markAlreadyPurchased()
		return false
	}
	if f.terminal() {
		return false
	}
	f.pathToken = ""
	f.challenge = nil
	f.state = StateIdle
	f.failReason = userMessage(err, "Captcha verification failed")
	f.log.Debug("captcha rejected", zap.Int64("goods", f.goodsID), zap.Error(err))
	return true
}

// BeginSubmit consumes the held token for a purchase submission and
// latches out concurrent submissions. The token is single-use: it is
// cleared here, before the outcome is known.
func (f *PurchaseFlow) BeginSubmit() (pathToken string, err error) {
	if f.submitting {
		return "", ErrSubmitInFlight
	}
	if f.terminal() {
		if f.state == StateAlreadyPurchased {
			return "", ErrAlreadyPurchased
		}
		return "", ErrTerminal
	}
	if f.state != StateReadyToPurchase || f.pathToken == "" {
		return "", ErrNoToken
	}
	pathToken = f.pathToken
	f.pathToken = ""
	f.submitting = true
	return pathToken, nil
}

// SubmitSucceeded resolves the attempt: the order was created.
func (f *PurchaseFlow) SubmitSucceeded(orderID int64) {
	f.submitting = false
	if f.state == StateAlreadyPurchased {
		// A pre-check landed terminal meanwhile; duplicate stays sticky.
		return
	}
	f.orderID = orderID
	f.outcome = OutcomeSucceeded
	f.state = StatePurchased
	f.log.Info("purchase succeeded",
		zap.Int64("goods", f.goodsID),
		zap.Int64("order", orderID))
}

// SubmitFailed resolves a rejected or failed purchase submission per
// the backend's response code. Duplicate-purchase is terminal, out of
// stock withdraws the purchase action, anything else surfaces a message
// and returns to Idle. The token was already discarded at BeginSubmit.
func (f *PurchaseFlow) SubmitFailed(err error) {
	f.submitting = false
	switch {
	case api.IsCode(err, api.CodeRepeatError):
		f.markAlreadyPurchased()
	case api.IsCode(err, api.CodeEmptyStock):
		f.state = StateOutOfStock
		f.outcome = OutcomeOutOfStock
		f.failReason = "Sorry, this item is out of stock."
		f.log.Info("purchase rejected: out of stock", zap.Int64("goods", f.goodsID))
	default:
		f.state = StateIdle
		f.outcome = OutcomePending
		f.failReason = userMessage(err, "Flash sale failed")
		f.log.Warn("purchase failed", zap.Int64("goods", f.goodsID), zap.Error(err))
	}
}

// ObserveDuplicate forces the terminal AlreadyPurchased state. Used by
// the advisory pre-check at view load and honored from any state.
func (f *PurchaseFlow) ObserveDuplicate() {
	f.markAlreadyPurchased()
}

func (f *PurchaseFlow) markAlreadyPurchased() {
	f.pathToken = ""
	f.challenge = nil
	f.submitting = false
	f.state = StateAlreadyPurchased
	f.outcome = OutcomeAlreadyPurchased
	f.failReason = "You have already purchased this item. Limited to one per customer."
	f.log.Info("duplicate purchase observed", zap.Int64("goods", f.goodsID))
}

// userMessage prefers the backend's human-readable message for domain
// rejections and falls back to a generic one for transport failures.
func userMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
