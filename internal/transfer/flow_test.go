package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/ubique-pay/ubique_pay/internal/ledger"
	"github.com/ubique-pay/ubique_pay/internal/schedule"
)

func newTestFlow(clock schedule.Clock, led ledger.Ledger) *Flow {
	cfg := Config{AuthorizeDelay: 500 * time.Millisecond, SettleDelay: 3 * time.Second}
	return NewFlow("session-1", clock, cfg, led, StaticProcessor{}, func(fn func()) { fn() })
}

func listRecords(t *testing.T, led ledger.Ledger) []ledger.TransactionRecord {
	t.Helper()
	records, err := led.List(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	return records
}

func TestGooglePayTransferEndToEnd(t *testing.T) {
	clock := schedule.NewManual(time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC))
	led := ledger.NewInMemory()
	f := newTestFlow(clock, led)

	if !f.Open() {
		t.Fatalf("open from idle should apply")
	}
	f.SetRecipient("alice")
	if !f.Next() {
		t.Fatalf("next with a recipient should apply")
	}
	f.SetAmount("20")
	if !f.Next() {
		t.Fatalf("next with amount 20 should apply")
	}
	if f.Step() != StepWallet {
		t.Fatalf("expected wallet step, got %v", f.Step())
	}

	if !f.Select(MethodGooglePay) {
		t.Fatalf("selecting google pay should apply")
	}
	if !f.Processing() {
		t.Fatalf("authorization leg should be in flight")
	}

	clock.Advance(500 * time.Millisecond)
	if f.Step() != StepProcessing || f.Processing() {
		t.Fatalf("after the authorization leg: step=%v processing=%v", f.Step(), f.Processing())
	}

	clock.Advance(3 * time.Second)
	if f.Step() != StepSuccess {
		t.Fatalf("after the settlement leg: step=%v", f.Step())
	}
	if f.Amount() != "20" || f.Recipient() != "alice" {
		t.Fatalf("success screen inputs changed: %q to %q", f.Amount(), f.Recipient())
	}

	if !f.GoHome() {
		t.Fatalf("go home from success should apply")
	}
	records := listRecords(t, led)
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	rec := records[0]
	if rec.Amount != "20" || rec.Recipient != "alice" || rec.CardSuffix != "1436" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Date != "Aug 31, 2026" {
		t.Fatalf("unexpected record date: %q", rec.Date)
	}

	if f.Step() != StepIdle || f.Recipient() != "" || f.Amount() != "" || f.Method() != MethodNone {
		t.Fatalf("flow not fully reset after commit")
	}
}

func TestRecipientGuard(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	f := newTestFlow(clock, ledger.NewInMemory())
	f.Open()

	if f.Next() {
		t.Fatalf("next with an empty recipient must not apply")
	}
	f.SetRecipient("   ")
	if f.Next() {
		t.Fatalf("next with a blank recipient must not apply")
	}
	if f.Step() != StepRecipient {
		t.Fatalf("blocked next changed state to %v", f.Step())
	}
}

func TestAmountGuardBoundaries(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))

	cases := []struct {
		amount  string
		allowed bool
	}{
		{"15", false},
		{"19.99", false},
		{"20", true},
		{"1425", true},
		{"1425.01", false},
		{"1426", false},
		{"abc", false},
		{"", false},
	}
	for _, tc := range cases {
		f := newTestFlow(clock, ledger.NewInMemory())
		f.Open()
		f.SetRecipient("alice")
		f.Next()
		f.SetAmount(tc.amount)

		if got := f.Next(); got != tc.allowed {
			t.Fatalf("amount %q: next applied=%v, want %v", tc.amount, got, tc.allowed)
		}
		if !tc.allowed {
			if f.Step() != StepAmount {
				t.Fatalf("amount %q: blocked next changed state to %v", tc.amount, f.Step())
			}
			if f.Amount() != tc.amount {
				t.Fatalf("amount %q: blocked next cleared the entered text", tc.amount)
			}
		}
	}
}

func TestApplePayHasNoCompletionPath(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	f := newTestFlow(clock, ledger.NewInMemory())
	f.Open()
	f.SetRecipient("alice")
	f.Next()
	f.SetAmount("100")
	f.Next()

	if !f.Select(MethodApplePay) {
		t.Fatalf("selecting apple pay should record the method")
	}
	if f.Method() != MethodApplePay || f.Processing() {
		t.Fatalf("apple pay must not start processing")
	}

	clock.Advance(time.Minute)
	if f.Step() != StepWallet {
		t.Fatalf("apple pay must stay on the wallet screen, got %v", f.Step())
	}
}

func TestCancelBeforeSuccessNeverAppends(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	led := ledger.NewInMemory()
	f := newTestFlow(clock, led)

	// Close from the recipient screen.
	f.Open()
	f.SetRecipient("alice")
	if !f.Close() {
		t.Fatalf("close from recipient should apply")
	}
	if f.Step() != StepIdle || f.Recipient() != "" {
		t.Fatalf("close did not reset the flow")
	}

	// Back chain from the wallet screen.
	f.Open()
	f.SetRecipient("alice")
	f.Next()
	f.SetAmount("100")
	f.Next()
	f.Back()
	f.Back()
	f.Close()

	if f.Step() != StepIdle || f.Amount() != "" || f.Method() != MethodNone {
		t.Fatalf("back chain did not reset the flow")
	}
	if records := listRecords(t, led); len(records) != 0 {
		t.Fatalf("cancelled transfers must not reach the ledger, got %d records", len(records))
	}
}

func TestBackFromWalletCancelsAuthorizationLeg(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	f := newTestFlow(clock, ledger.NewInMemory())
	f.Open()
	f.SetRecipient("alice")
	f.Next()
	f.SetAmount("100")
	f.Next()
	f.Select(MethodGooglePay)

	if !f.Back() {
		t.Fatalf("back from wallet should apply")
	}
	if f.Processing() {
		t.Fatalf("back must clear the in-flight flag")
	}

	clock.Advance(time.Minute)
	if f.Step() != StepAmount {
		t.Fatalf("cancelled authorization leg still advanced the flow: %v", f.Step())
	}
}

func TestGoHomeOnlyFromSuccess(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	led := ledger.NewInMemory()
	f := newTestFlow(clock, led)

	if f.GoHome() {
		t.Fatalf("go home from idle must not apply")
	}
	f.Open()
	if f.GoHome() {
		t.Fatalf("go home from recipient must not apply")
	}
	if records := listRecords(t, led); len(records) != 0 {
		t.Fatalf("blocked go home appended a record")
	}
}

func TestRecordIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	clock := schedule.NewManual(time.Unix(1_000, 0))
	led := ledger.NewInMemory()
	// Zero delays collapse both legs so two transfers can commit at the same
	// clock instant.
	f := NewFlow("session-1", clock, Config{}, led, StaticProcessor{}, func(fn func()) { fn() })

	runTransfer := func() {
		f.Open()
		f.SetRecipient("alice")
		f.Next()
		f.SetAmount("20")
		f.Next()
		f.Select(MethodGooglePay)
		clock.Advance(0)
		clock.Advance(0)
		if !f.GoHome() {
			t.Fatalf("go home should apply")
		}
	}

	runTransfer()
	runTransfer()

	records := listRecords(t, led)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID == records[1].ID {
		t.Fatalf("record ids must be unique, both were %s", records[0].ID)
	}
}

func TestShutdownCancelsPendingLeg(t *testing.T) {
	clock := schedule.NewManual(time.Unix(0, 0))
	f := newTestFlow(clock, ledger.NewInMemory())
	f.Open()
	f.SetRecipient("alice")
	f.Next()
	f.SetAmount("100")
	f.Next()
	f.Select(MethodGooglePay)

	f.Shutdown()
	clock.Advance(time.Minute)
	if f.Step() != StepWallet {
		t.Fatalf("shutdown must freeze the flow, got %v", f.Step())
	}
}
