package ledger

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSpendInsufficientLeavesLedgerUntouched(t *testing.T) {
	l := New(100, nil)
	l.Earn(t0, 0, ReasonAdminAirdrop, "zero-value event")
	before := l.Transactions()

	if _, ok := l.Spend(t0, 120, ReasonPerkPurchase, ""); ok {
		t.Fatal("Spend(120) with balance 100 should fail")
	}
	if l.Balance() != 100 {
		t.Fatalf("Balance = %d, want 100", l.Balance())
	}
	if got := len(l.Transactions()); got != len(before) {
		t.Fatalf("transactions = %d, want %d", got, len(before))
	}
}

func TestSpendRejectsNegative(t *testing.T) {
	l := New(10, nil)
	if _, ok := l.Spend(t0, -5, ReasonPerkPurchase, ""); ok {
		t.Fatal("negative spend should be rejected")
	}
	if l.Balance() != 10 {
		t.Fatalf("Balance = %d, want 10", l.Balance())
	}
}

func TestLogIsNewestFirst(t *testing.T) {
	l := New(0, nil)
	l.Earn(t0, 50, ReasonDailyClaim, "")
	l.Earn(t0.Add(time.Second), 10, ReasonEarningAction, "PLAY_MATCH")
	if _, ok := l.Spend(t0.Add(2*time.Second), 30, ReasonPerkPurchase, "perk_boost_daily"); !ok {
		t.Fatal("spend should succeed")
	}
	txs := l.Transactions()
	if len(txs) != 3 {
		t.Fatalf("len = %d, want 3", len(txs))
	}
	if txs[0].Kind != KindSpend || txs[0].Amount != 30 {
		t.Fatalf("newest tx = %+v, want spend 30", txs[0])
	}
	if txs[2].Reason != ReasonDailyClaim {
		t.Fatalf("oldest tx reason = %q", txs[2].Reason)
	}
	if l.Balance() != 30 {
		t.Fatalf("Balance = %d, want 30", l.Balance())
	}
}

func TestBalanceNeverNegative(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	l := New(0, nil)
	for i := 0; i < 2000; i++ {
		amount := int64(rnd.Intn(200) - 20)
		if rnd.Intn(2) == 0 {
			l.Earn(t0, amount, ReasonEarningAction, "")
		} else {
			l.Spend(t0, amount, ReasonPerkPurchase, "")
		}
		if l.Balance() < 0 {
			t.Fatalf("balance went negative at step %d: %d", i, l.Balance())
		}
	}
}

func TestNewClampsNegativeBalance(t *testing.T) {
	if got := New(-5, nil).Balance(); got != 0 {
		t.Fatalf("Balance = %d, want 0", got)
	}
}

func TestEarnSaturatesAtMaxInt64(t *testing.T) {
	l := New(math.MaxInt64-10, nil)
	tx := l.Earn(t0, 25, ReasonAdminAirdrop, "")
	if l.Balance() != math.MaxInt64 {
		t.Fatalf("Balance = %d, want %d", l.Balance(), int64(math.MaxInt64))
	}
	if tx.Amount != 10 {
		t.Fatalf("credited = %d, want 10", tx.Amount)
	}
	l.Earn(t0, math.MaxInt64, ReasonAdminAirdrop, "")
	if l.Balance() != math.MaxInt64 || l.Headroom() != 0 {
		t.Fatalf("Balance = %d headroom = %d after second earn", l.Balance(), l.Headroom())
	}
}

func TestLogRetainsNewestEntries(t *testing.T) {
	l := New(0, nil)
	for i := 0; i < MaxTransactions+5; i++ {
		l.Earn(t0.Add(time.Duration(i)*time.Second), int64(i), ReasonEarningAction, "")
	}
	txs := l.Transactions()
	if len(txs) != MaxTransactions {
		t.Fatalf("len = %d, want %d", len(txs), MaxTransactions)
	}
	if txs[0].Amount != MaxTransactions+4 || txs[len(txs)-1].Amount != 5 {
		t.Fatalf("kept range = %d..%d, want %d..5", txs[0].Amount, txs[len(txs)-1].Amount, MaxTransactions+4)
	}
	want := int64(MaxTransactions+5) * int64(MaxTransactions+4) / 2
	if l.Balance() != want {
		t.Fatalf("Balance = %d, want %d", l.Balance(), want)
	}

	restored := New(l.Balance(), append(txs, Transaction{ID: "extra"}))
	if got := len(restored.Transactions()); got != MaxTransactions {
		t.Fatalf("restored len = %d, want %d", got, MaxTransactions)
	}
}
