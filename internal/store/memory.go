package store

import (
	"context"
	"sync"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/transaction"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

// MemoryStore is the in-memory store used for local development and tests.
// RunInTx serializes writers with a single mutex. The repositories validate
// before they mutate, so a failed operation leaves no partial state even
// without rollback support.
type MemoryStore struct {
	txMu sync.Mutex

	wallets      wallet.Repository
	transactions transaction.Repository
	businesses   business.Repository
	upgrades     upgrade.Repository
}

// NewMemoryStore builds a store over fresh in-memory repositories.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wallets:      wallet.NewMemoryRepository(),
		transactions: transaction.NewMemoryRepository(),
		businesses:   business.NewMemoryRepository(),
		upgrades:     upgrade.NewMemoryRepository(),
	}
}

// Wallets returns the wallet repository.
func (s *MemoryStore) Wallets() wallet.Repository { return s.wallets }

// Transactions returns the transaction repository.
func (s *MemoryStore) Transactions() transaction.Repository { return s.transactions }

// Businesses returns the business repository.
func (s *MemoryStore) Businesses() business.Repository { return s.businesses }

// Upgrades returns the upgrade suggestion repository.
func (s *MemoryStore) Upgrades() upgrade.Repository { return s.upgrades }

// RunInTx runs fn while holding the writer lock so concurrent money
// operations observe each other's balance and limit effects in full.
func (s *MemoryStore) RunInTx(_ context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(memoryTxView{s})
}

// memoryTxView is handed to RunInTx callbacks. The writer lock is already
// held, so nested RunInTx runs fn directly instead of re-acquiring it.
type memoryTxView struct {
	*MemoryStore
}

func (v memoryTxView) RunInTx(_ context.Context, fn func(Store) error) error {
	return fn(v)
}
