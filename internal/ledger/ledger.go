package ledger

import (
	"math"
	"time"

	"gold-economy/internal/ids"
)

type Kind string

const (
	KindEarn  Kind = "earn"
	KindSpend Kind = "spend"
)

type Reason string

const (
	ReasonDailyClaim     Reason = "daily_claim"
	ReasonEarningAction  Reason = "earning_action"
	ReasonPerkPurchase   Reason = "perk_purchase"
	ReasonRewardTicket   Reason = "reward_ticket"
	ReasonMintNFT        Reason = "mint_nft"
	ReasonAdminAirdrop   Reason = "admin_airdrop"
	ReasonSyncAdjustment Reason = "sync_adjustment"
)

// MaxTransactions is how many log entries a ledger retains. Older entries
// are evicted; the balance is kept separately and is unaffected.
const MaxTransactions = 1000

type Transaction struct {
	ID     string    `json:"id"`
	At     time.Time `json:"ts"`
	Kind   Kind      `json:"type"`
	Amount int64     `json:"amount"`
	Reason Reason    `json:"reason"`
	Note   string    `json:"note,omitempty"`
}

// Ledger holds the Gold balance and its newest-first transaction log.
// The balance stays within [0, math.MaxInt64].
type Ledger struct {
	balance int64
	txs     []Transaction
}

// New restores a ledger. Negative balances are clamped to zero and the log
// is cut to the newest MaxTransactions entries.
func New(balance int64, txs []Transaction) *Ledger {
	if balance < 0 {
		balance = 0
	}
	if len(txs) > MaxTransactions {
		txs = txs[:MaxTransactions]
	}
	out := make([]Transaction, len(txs))
	copy(out, txs)
	return &Ledger{balance: balance, txs: out}
}

func (l *Ledger) Balance() int64 {
	return l.balance
}

// Transactions returns a copy of the log, newest first.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

func (l *Ledger) CanAfford(amount int64) bool {
	return amount >= 0 && l.balance >= amount
}

// Headroom is the largest amount Earn can credit in full.
func (l *Ledger) Headroom() int64 {
	return math.MaxInt64 - l.balance
}

// Earn credits amount. Zero-value earns are recorded as logging events;
// negative amounts are treated as zero. A credit past the headroom is
// saturated and the transaction records what was actually credited.
func (l *Ledger) Earn(now time.Time, amount int64, reason Reason, note string) Transaction {
	if amount < 0 {
		amount = 0
	}
	if amount > l.Headroom() {
		amount = l.Headroom()
	}
	tx := newTransaction(now, KindEarn, amount, reason, note)
	l.balance += amount
	l.prepend(tx)
	return tx
}

// Spend debits amount all-or-nothing. It reports false, without touching
// the balance or the log, when the balance is short or amount is negative.
func (l *Ledger) Spend(now time.Time, amount int64, reason Reason, note string) (Transaction, bool) {
	if !l.CanAfford(amount) {
		return Transaction{}, false
	}
	tx := newTransaction(now, KindSpend, amount, reason, note)
	l.balance -= amount
	l.prepend(tx)
	return tx, true
}

func (l *Ledger) Clone() *Ledger {
	return New(l.balance, l.txs)
}

func (l *Ledger) prepend(tx Transaction) {
	if len(l.txs) < MaxTransactions {
		l.txs = append(l.txs, Transaction{})
	}
	copy(l.txs[1:], l.txs)
	l.txs[0] = tx
}

func newTransaction(now time.Time, kind Kind, amount int64, reason Reason, note string) Transaction {
	return Transaction{
		ID:     ids.NewAt(now),
		At:     now,
		Kind:   kind,
		Amount: amount,
		Reason: reason,
		Note:   note,
	}
}
