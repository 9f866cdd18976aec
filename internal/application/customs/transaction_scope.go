package customs

import (
	"context"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories the
// reception gate touches. When a function is executed within a transaction
// scope, all repository operations will be part of the same database
// transaction and will be committed or rolled back atomically.
//
// The processing claim on a reception lives inside this scope on purpose:
// a rollback of the finalization transaction releases the claim, so a
// failed attempt can be retried.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the reception gate's
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// DeclarationRepo returns the declaration repository scoped to the current transaction
	DeclarationRepo() customs.DeclarationRepository
	// ReceptionRepo returns the reception repository scoped to the current transaction
	ReceptionRepo() customs.ReceptionRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// StockRepo returns the stock item repository scoped to the current transaction
	StockRepo() inventory.StockItemRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	declarationRepo customs.DeclarationRepository
	receptionRepo   customs.ReceptionRepository
	movementRepo    inventory.StockMovementRepository
	stockRepo       inventory.StockItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	declarationRepo customs.DeclarationRepository,
	receptionRepo customs.ReceptionRepository,
	movementRepo inventory.StockMovementRepository,
	stockRepo inventory.StockItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		declarationRepo: declarationRepo,
		receptionRepo:   receptionRepo,
		movementRepo:    movementRepo,
		stockRepo:       stockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// DeclarationRepo returns the declaration repository.
func (s *NoOpTransactionScope) DeclarationRepo() customs.DeclarationRepository {
	return s.declarationRepo
}

// ReceptionRepo returns the reception repository.
func (s *NoOpTransactionScope) ReceptionRepo() customs.ReceptionRepository {
	return s.receptionRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// StockRepo returns the stock item repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockItemRepository {
	return s.stockRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
