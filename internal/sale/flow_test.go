package sale

import (
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/HeatherCyber/BlitzBuy/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestFlow(stock int) *PurchaseFlow {
	return NewPurchaseFlow(42, stock, clockwork.NewFakeClock(), nil)
}

// Scenario 2: happy path captcha → verify → purchase.
func TestFlowHappyPath(t *testing.T) {
	f := newTestFlow(3)
	require.Equal(t, StateIdle, f.State())

	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))
	assert.Equal(t, StateAwaitingCaptcha, f.State())
	assert.NotNil(t, f.Challenge())

	f.VerifySucceeded("a1b2c3")
	assert.Equal(t, StateReadyToPurchase, f.State())
	assert.True(t, f.HoldsToken())
	assert.Nil(t, f.Challenge(), "challenge consumed by verification")

	token, err := f.BeginSubmit()
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", token)
	assert.False(t, f.HoldsToken(), "token is single-use, cleared on submit")
	assert.True(t, f.Submitting())

	f.SubmitSucceeded(777)
	assert.Equal(t, StatePurchased, f.State())
	assert.Equal(t, OutcomeSucceeded, f.Outcome())
	assert.Equal(t, int64(777), f.OrderID())
	assert.False(t, f.Submitting())
}

// Scenario 1 / phase gating: no purchase action outside the window.
func TestFlowPhaseGate(t *testing.T) {
	f := newTestFlow(3)
	assert.False(t, f.CanAct(PhaseNotStarted))
	assert.False(t, f.CanAct(PhaseEnded))
	assert.True(t, f.CanAct(PhaseActive))

	assert.ErrorIs(t, f.RequestCaptcha(PhaseNotStarted), ErrNotActive)
	assert.ErrorIs(t, f.RequestCaptcha(PhaseEnded), ErrNotActive)
	assert.Equal(t, StateIdle, f.State())
}

// Scenario 4: zero stock withdraws the action before any captcha.
func TestFlowStockGate(t *testing.T) {
	f := newTestFlow(0)
	assert.False(t, f.CanAct(PhaseActive))
	assert.ErrorIs(t, f.RequestCaptcha(PhaseActive), ErrNoStock)
}

// Scenario 5: wrong answer → auto refresh, no token stored.
func TestFlowVerifyFailureAutoRefreshes(t *testing.T) {
	f := newTestFlow(3)
	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))

	refresh := f.VerifyFailed(&api.APIError{Code: api.CodeCaptchaError, Message: "wrong captcha"})
	assert.True(t, refresh, "failed verification must fetch a fresh challenge")
	assert.False(t, f.HoldsToken())
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, "wrong captcha", f.FailReason())

	_, err := f.BeginSubmit()
	assert.ErrorIs(t, err, ErrNoToken, "purchase stays unavailable without a token")
}

// Requesting a new captcha invalidates any previously held token.
func TestFlowNewCaptchaInvalidatesToken(t *testing.T) {
	f := newTestFlow(3)
	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))
	f.VerifySucceeded("old-token")
	require.True(t, f.HoldsToken())

	require.NoError(t, f.RequestCaptcha(PhaseActive))
	assert.False(t, f.HoldsToken())
	_, err := f.BeginSubmit()
	assert.ErrorIs(t, err, ErrNoToken)
}

// Scenario 3 plus stickiness: a duplicate signal is terminal wherever
// it arrives.
func TestFlowDuplicateIsSticky(t *testing.T) {
	t.Run("from pre-check", func(t *testing.T) {
		f := newTestFlow(3)
		f.ObserveDuplicate()
		assert.Equal(t, StateAlreadyPurchased, f.State())
		assert.Equal(t, OutcomeAlreadyPurchased, f.Outcome())
		assert.ErrorIs(t, f.RequestCaptcha(PhaseActive), ErrAlreadyPurchased)
		_, err := f.BeginSubmit()
		assert.ErrorIs(t, err, ErrAlreadyPurchased)
	})

	t.Run("from verify response", func(t *testing.T) {
		f := newTestFlow(3)
		require.NoError(t, f.RequestCaptcha(PhaseActive))
		f.CaptchaIssued([]byte("png"))
		refresh := f.VerifyFailed(&api.APIError{Code: api.CodeRepeatError})
		assert.False(t, refresh, "no refresh once terminal")
		assert.Equal(t, StateAlreadyPurchased, f.State())
	})

	t.Run("from submit response", func(t *testing.T) {
		f := newTestFlow(3)
		require.NoError(t, f.RequestCaptcha(PhaseActive))
		f.CaptchaIssued([]byte("png"))
		f.VerifySucceeded("tok")
		_, err := f.BeginSubmit()
		require.NoError(t, err)
		f.SubmitFailed(&api.APIError{Code: api.CodeRepeatError})
		assert.Equal(t, StateAlreadyPurchased, f.State())
		assert.False(t, f.Submitting())

		// Sticky: a later issued captcha is ignored.
		f.CaptchaIssued([]byte("late"))
		assert.Equal(t, StateAlreadyPurchased, f.State())
		assert.Nil(t, f.Challenge())
	})
}

// An out-of-stock response never transitions to purchased.
func TestFlowOutOfStockResponse(t *testing.T) {
	f := newTestFlow(1)
	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))
	f.VerifySucceeded("tok")
	_, err := f.BeginSubmit()
	require.NoError(t, err)

	f.SubmitFailed(&api.APIError{Code: api.CodeEmptyStock, Message: "Insufficient stock"})
	assert.Equal(t, StateOutOfStock, f.State())
	assert.Equal(t, OutcomeOutOfStock, f.Outcome())
	assert.NotEqual(t, StatePurchased, f.State())
	assert.False(t, f.CanAct(PhaseActive), "purchase action withdrawn")
	assert.ErrorIs(t, f.RequestCaptcha(PhaseActive), ErrNoStock)
}

// Generic submit failure discards the token and returns to idle.
func TestFlowGenericSubmitFailure(t *testing.T) {
	f := newTestFlow(3)
	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))
	f.VerifySucceeded("tok")
	_, err := f.BeginSubmit()
	require.NoError(t, err)

	f.SubmitFailed(errors.New("connection reset"))
	assert.Equal(t, StateIdle, f.State())
	assert.Equal(t, OutcomePending, f.Outcome())
	assert.False(t, f.HoldsToken())
	assert.Equal(t, "Flash sale failed", f.FailReason(), "transport failures get the generic message")

	// The user can retry from scratch.
	assert.NoError(t, f.RequestCaptcha(PhaseActive))
}

// The submit latch refuses concurrent submissions.
func TestFlowSubmitLatch(t *testing.T) {
	f := newTestFlow(3)
	require.NoError(t, f.RequestCaptcha(PhaseActive))
	f.CaptchaIssued([]byte("png"))
	f.VerifySucceeded("tok")

	_, err := f.BeginSubmit()
	require.NoError(t, err)
	_, err = f.BeginSubmit()
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, f.RequestCaptcha(PhaseActive), ErrSubmitInFlight)
}

// Domain rejections surface the backend message; preference over the
// generic fallback.
func TestFlowUserMessages(t *testing.T) {
	f := newTestFlow(3)
	f.CaptchaFailed(errors.New("dial tcp: timeout"))
	assert.Equal(t, "Failed to load captcha", f.FailReason())

	f.CaptchaFailed(&api.APIError{Code: api.CodeError, Message: "Internal Server Error."})
	assert.Equal(t, "Internal Server Error.", f.FailReason())
}
