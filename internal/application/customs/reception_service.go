package customs

import (
	"context"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/inventory"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReceptionService is the reception gate: it registers warehouse arrivals
// and performs the exactly-once inventory injection for liquidated
// declarations.
type ReceptionService struct {
	declarationRepo  customs.DeclarationRepository
	receptionRepo    customs.ReceptionRepository
	scope            TransactionScope
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	logger           *zap.Logger
}

// NewReceptionService creates a new ReceptionService
func NewReceptionService(
	declarationRepo customs.DeclarationRepository,
	receptionRepo customs.ReceptionRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *ReceptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceptionService{
		declarationRepo: declarationRepo,
		receptionRepo:   receptionRepo,
		scope:           scope,
		idempotencyCfg:  shared.DefaultIdempotencyConfig(),
		logger:          logger,
	}
}

// SetIdempotencyStore enables request-key replay suppression for Finalize
func (s *ReceptionService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyCfg = cfg
}

// Create registers a warehouse arrival for a liquidated declaration.
// One reception per declaration.
func (s *ReceptionService) Create(ctx context.Context, tenantID, declarationID uuid.UUID, req CreateReceptionRequest) (*ReceptionResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}
	if decl.Status != customs.DeclarationStatusLiquidated {
		return nil, shared.NewDomainError("INVALID_STATE", "Reception requires a liquidated declaration")
	}

	if existing, err := s.receptionRepo.FindByDeclaration(ctx, tenantID, declarationID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Declaration already has a reception")
	}

	var arrivedAt = decl.AcceptedAt
	if req.ArrivedAt != nil {
		arrivedAt = *req.ArrivedAt
	}
	reception, err := customs.NewReception(tenantID, declarationID, req.WarehouseID, arrivedAt, req.Notes)
	if err != nil {
		return nil, err
	}
	if req.SealIntact != nil {
		reception.SealIntact = *req.SealIntact
	}
	reception.ConditionText = req.ConditionText
	reception.DamageNotes = req.DamageNotes

	if err := s.receptionRepo.Save(ctx, reception); err != nil {
		return nil, err
	}

	response := ToReceptionResponse(reception)
	return &response, nil
}

// Update replaces the checklist fields of a declaration's reception.
// The record locks once finalization has processed it.
func (s *ReceptionService) Update(ctx context.Context, tenantID, declarationID uuid.UUID, req UpdateReceptionRequest) (*ReceptionResponse, error) {
	reception, err := s.receptionRepo.FindByDeclaration(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}
	if reception == nil {
		return nil, shared.ErrNotFound
	}

	if err := reception.UpdateChecklist(req.SealIntact, req.ConditionText, req.DamageNotes, req.Notes); err != nil {
		return nil, err
	}
	if err := s.receptionRepo.Save(ctx, reception); err != nil {
		return nil, err
	}

	response := ToReceptionResponse(reception)
	return &response, nil
}

// GetByDeclaration returns the reception registered for a declaration
func (s *ReceptionService) GetByDeclaration(ctx context.Context, tenantID, declarationID uuid.UUID) (*ReceptionResponse, error) {
	reception, err := s.receptionRepo.FindByDeclaration(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}
	if reception == nil {
		return nil, shared.ErrNotFound
	}
	response := ToReceptionResponse(reception)
	return &response, nil
}

// Finalize injects the declaration's goods into inventory exactly once.
//
// The processing claim, the movement ledger appends, the stock updates and
// the declaration's terminal transition all commit in one transaction.
// Losing the claim is not an error: the caller gets an already-processed
// result and no inventory changes. A rollback releases the claim so the
// reception can be retried.
func (s *ReceptionService) Finalize(ctx context.Context, tenantID, declarationID uuid.UUID, req FinalizeReceptionRequest) (*FinalizeReceptionResponse, error) {
	if req.IdempotencyKey != "" && s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		seen, err := s.idempotencyStore.IsProcessed(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Warn("idempotency lookup failed, continuing without replay suppression",
				zap.String("key", req.IdempotencyKey), zap.Error(err))
		} else if seen {
			reception, err := s.receptionRepo.FindByDeclaration(ctx, tenantID, declarationID)
			if err != nil {
				return nil, err
			}
			if reception == nil {
				return nil, shared.ErrNotFound
			}
			return &FinalizeReceptionResponse{
				ReceptionID:      reception.ID,
				DeclarationID:    declarationID,
				AlreadyProcessed: true,
			}, nil
		}
	}

	var result customs.FinalizeResult
	valueInjected := valueobject.ZeroLocal()

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		decl, err := repos.DeclarationRepo().FindByIDForTenant(ctx, tenantID, declarationID)
		if err != nil {
			return err
		}
		// RECEIVED falls through so a replayed finalize reaches the claim
		// and comes back as a no-op instead of an error.
		if decl.Status != customs.DeclarationStatusLiquidated && decl.Status != customs.DeclarationStatusReceived {
			return shared.NewDomainError("INVALID_STATE", "Only liquidated declarations can be received")
		}

		reception, err := repos.ReceptionRepo().FindByDeclaration(ctx, tenantID, declarationID)
		if err != nil {
			return err
		}
		if reception == nil {
			return shared.NewDomainError("NOT_FOUND", "Declaration has no reception to finalize")
		}

		result.ReceptionID = reception.ID
		result.DeclarationID = declarationID

		claimed, err := repos.ReceptionRepo().ClaimProcessing(ctx, tenantID, reception.ID)
		if err != nil {
			return err
		}
		if !claimed {
			result.AlreadyProcessed = true
			return nil
		}

		for idx := range decl.Items {
			item := &decl.Items[idx]
			if !item.HasCatalogProduct() {
				result.ItemsSkipped++
				continue
			}

			movement, err := inventory.NewImportReceiptMovement(
				tenantID, *item.ProductID, reception.WarehouseID, decl.ID,
				item.Quantity, item.SnapshotLandedUnitCost,
			)
			if err != nil {
				return err
			}
			movement.CreatedBy = req.ProcessedBy
			if err := repos.MovementRepo().Append(ctx, movement); err != nil {
				return err
			}

			stock, err := repos.StockRepo().FindByProductAndWarehouse(ctx, tenantID, *item.ProductID, reception.WarehouseID)
			if err != nil {
				return err
			}
			if stock == nil {
				stock, err = inventory.NewStockItem(tenantID, *item.ProductID, reception.WarehouseID)
				if err != nil {
					return err
				}
			}
			if err := stock.ApplyInbound(movement.Quantity, movement.UnitCost); err != nil {
				return err
			}
			if err := repos.StockRepo().Save(ctx, stock); err != nil {
				return err
			}

			valueInjected = valueInjected.MustAdd(valueobject.NewLocalMoney(
				movement.UnitCost.Mul(movement.Quantity)))
			result.MovementsCreated++
		}

		expectedVersion := decl.Version
		if err := decl.MarkReceived(); err != nil {
			return err
		}
		return repos.DeclarationRepo().SaveWithLock(ctx, decl, expectedVersion)
	})
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" && s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, req.IdempotencyKey, s.idempotencyCfg.TTL); err != nil {
			s.logger.Warn("failed to record idempotency key", zap.String("key", req.IdempotencyKey), zap.Error(err))
		}
	}

	s.logger.Info("reception finalized",
		zap.String("tenant_id", tenantID.String()),
		zap.String("declaration_id", declarationID.String()),
		zap.Bool("already_processed", result.AlreadyProcessed),
		zap.Int("movements_created", result.MovementsCreated),
		zap.Int("items_skipped", result.ItemsSkipped),
		zap.String("value_injected", valueInjected.String()),
	)

	response := ToFinalizeReceptionResponse(result)
	return &response, nil
}
