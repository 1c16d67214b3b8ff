package economy

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"gold-economy/internal/ids"
	"gold-economy/internal/ledger"
)

// ConnectWallet binds a wallet address. No signature is verified.
func (c *Controller) ConnectWallet(s *State, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return reject(ErrInvalidRequest, "Wallet address required")
	}
	s.WalletAddress = address
	return nil
}

func (c *Controller) DisconnectWallet(s *State) {
	s.WalletAddress = ""
}

func (c *Controller) SetRole(s *State, role Role) error {
	if !role.Valid() {
		return reject(ErrInvalidRequest, "Unknown role")
	}
	s.Role = role
	return nil
}

type MintResult struct {
	NFT         NFTItem            `json:"nft"`
	Transaction ledger.Transaction `json:"transaction"`
}

// MintNFT spends Gold for an off-chain placeholder NFT.
func (c *Controller) MintNFT(s *State, now time.Time, tier NFTTier) (MintResult, error) {
	if tier == "" {
		tier = TierGold
	}
	if !tier.Valid() {
		return MintResult{}, reject(ErrInvalidRequest, "Unknown tier")
	}
	price := c.rules.MintNFTPrice
	if !s.Ledger.CanAfford(price) {
		return MintResult{}, reject(ErrInsufficientGold, "Not enough Gold")
	}
	id := ids.WithPrefix("nft", now)
	tx, ok := s.Ledger.Spend(now, price, ledger.ReasonMintNFT, id)
	if !ok {
		return MintResult{}, reject(ErrInsufficientGold, "Not enough Gold")
	}
	nft := NFTItem{
		ID:          id,
		Name:        fmt.Sprintf("Gold NFT #%04d", serial(id)),
		Tier:        tier,
		CreatedAt:   now,
		Chain:       "offchain",
		Placeholder: true,
	}
	s.NFTs = append([]NFTItem{nft}, s.NFTs...)
	return MintResult{NFT: nft, Transaction: tx}, nil
}

// Airdrop credits Gold. Only admins may airdrop.
func (c *Controller) Airdrop(s *State, now time.Time, amount int64, note string) (ledger.Transaction, error) {
	if s.Role != RoleAdmin {
		return ledger.Transaction{}, reject(ErrRoleRestricted, "Role restricted")
	}
	if amount <= 0 {
		return ledger.Transaction{}, reject(ErrInvalidRequest, "Amount must be positive")
	}
	if amount > s.Ledger.Headroom() {
		return ledger.Transaction{}, reject(ErrInvalidRequest, "Amount exceeds balance limit")
	}
	tx := s.Ledger.Earn(now, amount, ledger.ReasonAdminAirdrop, note)
	s.logEarning(EarningLogEntry{
		ID:     ids.WithPrefix("earn", now),
		Type:   "AIRDROP",
		Amount: amount,
		At:     now,
		Note:   note,
	})
	return tx, nil
}

func serial(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32() % 10000
}
