package persistence

import (
	"context"

	appcustoms "github.com/gestora/backend/internal/application/customs"
	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope runs reception finalization inside a single database
// transaction. Every repository handed to the callback is bound to the same
// *gorm.DB transaction, so the processing claim, the movement inserts, the
// stock updates and the declaration transition commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appcustoms.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories binds the reception gate's repositories to a
// single transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) DeclarationRepo() customs.DeclarationRepository {
	return NewGormDeclarationRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceptionRepo() customs.ReceptionRepository {
	return NewGormReceptionRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) StockRepo() inventory.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// Ensure GormTransactionScope implements the application scope
var _ appcustoms.TransactionScope = (*GormTransactionScope)(nil)
var _ appcustoms.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
