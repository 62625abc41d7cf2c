package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
	"go-stonestock-ws/pkg/validator"
)

type AdjustmentRequest struct {
	ItemID       uuid.UUID          `json:"item_id" validate:"uuid_required"`
	LocationID   *uuid.UUID         `json:"location_id"`
	MovementType model.MovementType `json:"movement_type" validate:"required"`
	QtyPrimary   decimal.Decimal    `json:"qty_primary"`
	QtySecondary *int               `json:"qty_secondary"`
}

type BatchAdjustmentRequest struct {
	LocationID *uuid.UUID          `json:"location_id"`
	Lines      []AdjustmentRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentService posts manual stock corrections. Adjustments are
// ledger-only: they carry ref_type "adjustment" with no ref id and write no
// snapshot rows, so the snapshot views show trade history while the ledger
// stays the source of truth for balances.
type AdjustmentService interface {
	Adjust(actor model.Actor, req *AdjustmentRequest) error
	AdjustBatch(actor model.Actor, req *BatchAdjustmentRequest) error
	List(actor model.Actor, search string, limit int) ([]model.StockLedgerEntry, error)
}

type adjustmentService struct {
	core *stockCore
}

func NewAdjustmentService(db *gorm.DB, itemRepo repository.ItemRepository, locationRepo repository.LocationRepository, ledgerRepo repository.LedgerRepository, snapshotRepo repository.SnapshotRepository, wsHub *ws.Hub) AdjustmentService {
	return &adjustmentService{core: &stockCore{
		db:           db,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		ledgerRepo:   ledgerRepo,
		snapshotRepo: snapshotRepo,
		wsHub:        wsHub,
	}}
}

func (s *adjustmentService) Adjust(actor model.Actor, req *AdjustmentRequest) error {
	return s.AdjustBatch(actor, &BatchAdjustmentRequest{
		LocationID: req.LocationID,
		Lines:      []AdjustmentRequest{*req},
	})
}

func (s *adjustmentService) AdjustBatch(actor model.Actor, req *BatchAdjustmentRequest) error {
	if !actor.Can("adjustment:create") {
		return ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return err
	}
	if _, err := s.core.requireLocation(req.LocationID); err != nil {
		return err
	}

	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		type resolved struct {
			item     *model.Item
			movement model.MovementType
			primary  decimal.Decimal
			sec      *int
		}
		lines := make([]resolved, 0, len(req.Lines))

		// Validate every line before writing any, so a failing line in the
		// middle of a batch leaves nothing behind.
		for _, line := range req.Lines {
			if !line.MovementType.ValidAdjustment() {
				return fmt.Errorf("%w: %s", ErrInvalidMovement, line.MovementType)
			}
			locationID := line.LocationID
			if locationID == nil {
				locationID = req.LocationID
			}

			item, err := s.core.lockedItem(tx, line.ItemID)
			if err != nil {
				return err
			}
			sec, err := s.core.validateLine(item, line.QtyPrimary, line.QtySecondary)
			if err != nil {
				return err
			}
			if line.MovementType.Outbound() {
				if err := s.core.ensureAvailable(tx, item, locationID, line.QtyPrimary, sec); err != nil {
					return err
				}
			}
			lines = append(lines, resolved{item: item, movement: line.MovementType, primary: line.QtyPrimary, sec: sec})
		}

		for i, r := range lines {
			locationID := req.Lines[i].LocationID
			if locationID == nil {
				locationID = req.LocationID
			}
			if err := s.core.post(tx, r.item, locationID, r.movement,
				r.primary, r.sec, model.RefAdjustment, nil, "", false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.core.wsHub.PublishStockUpdate("adjustment_created", "", "", actor.Username,
		fmt.Sprintf("%s posted %d stock adjustment(s)", actor.Username, len(req.Lines)))
	return nil
}

// List shows adjustment history to transaction viewers and to the staff who
// post adjustments, matching the route gate.
func (s *adjustmentService) List(actor model.Actor, search string, limit int) ([]model.StockLedgerEntry, error) {
	if !actor.Can("transaction:view") && !actor.Can("adjustment:create") {
		return nil, ErrPermissionDenied
	}
	return s.core.ledgerRepo.ListAdjustments(search, limit)
}
