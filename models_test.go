package houdiniswap

import "testing"

func TestTxStatusString(t *testing.T) {
	tests := []struct {
		status TxStatus
		want   string
	}{
		{TxStatusNew, "NEW"},
		{TxStatusWaiting, "WAITING"},
		{TxStatusFinished, "FINISHED"},
		{TxStatusDeleted, "DELETED"},
		{TxStatus(42), "TxStatus(42)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTxStatusTerminal(t *testing.T) {
	terminal := []TxStatus{TxStatusFinished, TxStatusExpired, TxStatusFailed, TxStatusRefunded}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []TxStatus{TxStatusNew, TxStatusWaiting, TxStatusConfirming, TxStatusExchanging, TxStatusAnonymizing, TxStatusDeleted} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestMinMaxFromList(t *testing.T) {
	mm, err := MinMaxFromList([]any{0.5, 100.0, "extra"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mm.Min != 0.5 || mm.Max != 100.0 {
		t.Errorf("MinMax = %+v", mm)
	}

	if _, err := MinMaxFromList([]any{1.0}); kindOf(err) != KindValidation {
		t.Errorf("short list: kind = %s, want Validation", kindOf(err))
	}
	if _, err := MinMaxFromList([]any{"a", "b"}); kindOf(err) != KindValidation {
		t.Errorf("non-numeric: kind = %s, want Validation", kindOf(err))
	}
}

func TestExchangeFromRecordRequiredFields(t *testing.T) {
	_, err := ExchangeFromRecord(map[string]any{"created": "2025-08-01"})
	if kindOf(err) != KindValidation {
		t.Fatalf("kind = %s, want Validation", kindOf(err))
	}

	ex, err := ExchangeFromRecord(map[string]any{
		"houdiniId": "hd-1",
		"status":    3.0,
		"inAmount":  1.25,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Status != TxStatusAnonymizing || ex.InAmount != 1.25 {
		t.Errorf("unexpected exchange: %+v", ex)
	}
}
