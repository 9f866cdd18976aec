package customs

import (
	"context"

	"github.com/gestora/backend/internal/domain/customs"
	"github.com/gestora/backend/internal/domain/shared"
	"github.com/gestora/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// DeclarationService handles customs declaration business operations
type DeclarationService struct {
	declarationRepo customs.DeclarationRepository
	eventPublisher  shared.EventPublisher
}

// NewDeclarationService creates a new DeclarationService
func NewDeclarationService(declarationRepo customs.DeclarationRepository) *DeclarationService {
	return &DeclarationService{
		declarationRepo: declarationRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DeclarationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents publishes and clears the aggregate's pending domain events
func (s *DeclarationService) publishEvents(ctx context.Context, decl *customs.CustomsDeclaration) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range decl.GetDomainEvents() {
		s.eventPublisher.Publish(ctx, event)
	}
	decl.ClearDomainEvents()
}

// Create opens a new declaration in DRAFT status
func (s *DeclarationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateDeclarationRequest) (*DeclarationResponse, error) {
	rate, err := valueobject.NewExchangeRate(req.ExchangeRate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", err.Error())
	}

	number, err := s.declarationRepo.NextDeclarationNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	decl, err := customs.NewCustomsDeclaration(tenantID, number, req.SupplierName, rate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		decl.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.declarationRepo.Save(ctx, decl); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, decl)

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// GetByID retrieves a declaration by ID
func (s *DeclarationService) GetByID(ctx context.Context, tenantID, declarationID uuid.UUID) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}
	response := ToDeclarationResponse(decl)
	return &response, nil
}

// GetByNumber retrieves a declaration by its number
func (s *DeclarationService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToDeclarationResponse(decl)
	return &response, nil
}

// List retrieves declarations with filtering and pagination
func (s *DeclarationService) List(ctx context.Context, tenantID uuid.UUID, filter DeclarationListFilter) ([]DeclarationListItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "accepted_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	declarations, err := s.declarationRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.declarationRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]DeclarationListItemResponse, 0, len(declarations))
	for idx := range declarations {
		items = append(items, ToDeclarationListItemResponse(&declarations[idx]))
	}
	return items, total, nil
}

// UpdateFactors updates the header financial factors of a declaration
func (s *DeclarationService) UpdateFactors(ctx context.Context, tenantID, declarationID uuid.UUID, req UpdateFactorsRequest) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	rate, err := valueobject.NewExchangeRate(req.ExchangeRate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", err.Error())
	}

	expectedVersion := decl.Version
	if err := decl.UpdateFactors(rate, req.FreightValue, req.InsuranceValue, req.VATCredit, req.OtherExpenses); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// AddItem adds a line item to a declaration
func (s *DeclarationService) AddItem(ctx context.Context, tenantID, declarationID uuid.UUID, req AddItemRequest) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if _, err := decl.AddItem(req.ProductID, req.ProductCode, req.Description, req.Quantity, req.FOBUnitPrice, req.DutyRate); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// UpdateItem updates a line item on a declaration
func (s *DeclarationService) UpdateItem(ctx context.Context, tenantID, declarationID, itemID uuid.UUID, req UpdateItemRequest) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if err := decl.UpdateItem(itemID, req.Quantity, req.FOBUnitPrice, req.DutyRate); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// RemoveItem removes a line item from a declaration
func (s *DeclarationService) RemoveItem(ctx context.Context, tenantID, declarationID, itemID uuid.UUID) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if err := decl.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// Submit files the declaration with customs
func (s *DeclarationService) Submit(ctx context.Context, tenantID, declarationID uuid.UUID) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if err := decl.Submit(); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, decl)

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// Liquidate finalizes tariff assessment and freezes the cost snapshot
func (s *DeclarationService) Liquidate(ctx context.Context, tenantID, declarationID uuid.UUID) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if err := decl.Liquidate(); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, decl)

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// Cancel cancels a declaration
func (s *DeclarationService) Cancel(ctx context.Context, tenantID, declarationID uuid.UUID, req CancelDeclarationRequest) (*DeclarationResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	expectedVersion := decl.Version
	if err := decl.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.declarationRepo.SaveWithLock(ctx, decl, expectedVersion); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, decl)

	response := ToDeclarationResponse(decl)
	return &response, nil
}

// GetCosting returns the landed cost breakdown for a declaration.
// Before liquidation it is a live computation; after, the frozen snapshot.
func (s *DeclarationService) GetCosting(ctx context.Context, tenantID, declarationID uuid.UUID) (*CostingResponse, error) {
	decl, err := s.declarationRepo.FindByIDForTenant(ctx, tenantID, declarationID)
	if err != nil {
		return nil, err
	}

	result, err := decl.Costing()
	if err != nil {
		return nil, err
	}

	response := ToCostingResponse(result, decl.IsLiquidated())
	return &response, nil
}
