package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
)

// ItemBalance is the current ledger position of one item.
type ItemBalance struct {
	ItemID        uuid.UUID       `json:"item_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      model.Category  `json:"category"`
	QtyPrimary    decimal.Decimal `json:"qty_primary"`
	QtySecondary  int             `json:"qty_secondary"`
	UnitPrimary   string          `json:"unit_primary"`
	UnitSecondary string          `json:"unit_secondary"`
}

// StockService exposes read access to the ledger and the per-category
// snapshot views. All balance-changing writes go through the trade/adjustment
// orchestrators; HideSnapshot only curates what the category pages show.
type StockService interface {
	Ledger(actor model.Actor, search string, limit int) ([]model.StockLedgerEntry, error)
	BalanceOf(actor model.Actor, itemID uuid.UUID, locationID *uuid.UUID) (*ItemBalance, error)
	Slabs(actor model.Actor, search string) ([]model.SlabInventory, error)
	Tiles(actor model.Actor, search string) ([]model.TileInventory, error)
	Blocks(actor model.Actor, search string) ([]model.BlockInventory, error)
	Tables(actor model.Actor, search string) ([]model.TableInventory, error)
	HideSnapshot(actor model.Actor, category model.Category, id uuid.UUID) error
}

// stockCore is the shared posting machinery behind every orchestrator: line
// validation, in-transaction availability checks, and the paired
// ledger + snapshot write.
type stockCore struct {
	db           *gorm.DB
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	ledgerRepo   repository.LedgerRepository
	snapshotRepo repository.SnapshotRepository
	wsHub        *ws.Hub
}

// validateLine enforces the category quantity rules and returns the
// normalized secondary quantity (nil for piece-only categories).
func (c *stockCore) validateLine(item *model.Item, qtyPrimary decimal.Decimal, qtySecondary *int) (*int, error) {
	if !qtyPrimary.IsPositive() {
		return nil, &QuantityError{SKU: item.SKU, Reason: "quantity must be greater than zero"}
	}

	if item.Category.HasSecondaryUnit() {
		if qtySecondary == nil || *qtySecondary <= 0 {
			return nil, &QuantityError{
				SKU:    item.SKU,
				Reason: fmt.Sprintf("%s items require a %s count greater than zero", item.Category, item.SecondaryUnitLabel()),
			}
		}
		return qtySecondary, nil
	}

	// Piece-only categories never carry a count unit.
	return nil, nil
}

// ensureAvailable verifies the outbound quantities fit within the item's
// current balance. It must run inside the same transaction that holds the
// item row lock, so the balance cannot move before the ledger write lands.
func (c *stockCore) ensureAvailable(tx *gorm.DB, item *model.Item, locationID *uuid.UUID, qtyPrimary decimal.Decimal, qtySecondary *int) error {
	balPrimary, balSecondary := c.ledgerRepo.Balance(tx, item.ID, locationID)

	if balPrimary.LessThan(qtyPrimary) {
		return &InsufficientStockError{
			SKU:       item.SKU,
			Name:      item.Name,
			Available: balPrimary,
			Requested: qtyPrimary,
			Unit:      item.PrimaryUnitLabel(),
		}
	}

	if qtySecondary != nil && balSecondary < *qtySecondary {
		return &InsufficientStockError{
			SKU:       item.SKU,
			Name:      item.Name,
			Available: decimal.NewFromInt(int64(balSecondary)),
			Requested: decimal.NewFromInt(int64(*qtySecondary)),
			Unit:      item.SecondaryUnitLabel(),
		}
	}
	return nil
}

// post writes the ledger entry and, when withSnapshot is set, the matching
// per-category snapshot row, both carrying the same signed quantities.
// Adjustments are ledger-only and pass withSnapshot=false.
func (c *stockCore) post(tx *gorm.DB, item *model.Item, locationID *uuid.UUID, movement model.MovementType, qtyPrimary decimal.Decimal, qtySecondary *int, refType string, refID *uuid.UUID, note string, withSnapshot bool) error {
	signedPrimary := qtyPrimary
	var signedSecondary *int
	if qtySecondary != nil {
		v := *qtySecondary
		signedSecondary = &v
	}
	if movement.Outbound() {
		signedPrimary = signedPrimary.Neg()
		if signedSecondary != nil {
			*signedSecondary = -*signedSecondary
		}
	}

	entry := &model.StockLedgerEntry{
		ItemID:       item.ID,
		LocationID:   locationID,
		MovementType: movement,
		QtyPrimary:   signedPrimary,
		QtySecondary: signedSecondary,
		UnitPrimary:  item.PrimaryUnitLabel(),
	}
	if sec := item.SecondaryUnitLabel(); sec != "" {
		entry.UnitSecondary = &sec
	}
	if refType != "" {
		entry.RefType = &refType
	}
	entry.RefID = refID

	if err := c.ledgerRepo.Append(tx, entry); err != nil {
		return err
	}

	if !withSnapshot {
		return nil
	}
	return c.snapshotRepo.AppendFor(tx, item, locationID, signedPrimary, signedSecondary, note)
}

// lockedItem loads and row-locks an active item inside tx.
func (c *stockCore) lockedItem(tx *gorm.DB, itemID uuid.UUID) (*model.Item, error) {
	item, err := c.itemRepo.FindByIDForUpdate(tx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, ErrItemInactive
	}
	return item, nil
}

// requireLocation resolves and validates the target location.
func (c *stockCore) requireLocation(locationID *uuid.UUID) (*model.Location, error) {
	if locationID == nil {
		return nil, ErrLocationRequired
	}
	loc, err := c.locationRepo.FindByID(*locationID)
	if err != nil {
		return nil, err
	}
	if !loc.IsActive {
		return nil, ErrLocationInactive
	}
	return loc, nil
}

type stockService struct {
	core *stockCore
}

func NewStockService(db *gorm.DB, itemRepo repository.ItemRepository, locationRepo repository.LocationRepository, ledgerRepo repository.LedgerRepository, snapshotRepo repository.SnapshotRepository, wsHub *ws.Hub) StockService {
	return &stockService{core: &stockCore{
		db:           db,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		ledgerRepo:   ledgerRepo,
		snapshotRepo: snapshotRepo,
		wsHub:        wsHub,
	}}
}

func (s *stockService) Ledger(actor model.Actor, search string, limit int) ([]model.StockLedgerEntry, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.core.ledgerRepo.List(search, limit)
}

func (s *stockService) BalanceOf(actor model.Actor, itemID uuid.UUID, locationID *uuid.UUID) (*ItemBalance, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	item, err := s.core.itemRepo.FindByID(itemID)
	if err != nil {
		return nil, err
	}
	primary, secondary := s.core.ledgerRepo.Balance(nil, itemID, locationID)
	return &ItemBalance{
		ItemID:        item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		Category:      item.Category,
		QtyPrimary:    primary,
		QtySecondary:  secondary,
		UnitPrimary:   item.PrimaryUnitLabel(),
		UnitSecondary: item.SecondaryUnitLabel(),
	}, nil
}

func (s *stockService) Slabs(actor model.Actor, search string) ([]model.SlabInventory, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.core.snapshotRepo.ListSlabs(search)
}

func (s *stockService) Tiles(actor model.Actor, search string) ([]model.TileInventory, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.core.snapshotRepo.ListTiles(search)
}

func (s *stockService) Blocks(actor model.Actor, search string) ([]model.BlockInventory, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.core.snapshotRepo.ListBlocks(search)
}

func (s *stockService) Tables(actor model.Actor, search string) ([]model.TableInventory, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.core.snapshotRepo.ListTables(search)
}

// HideSnapshot soft-deletes one snapshot row so it no longer shows on the
// category stock pages. Ledger history and balances are untouched.
func (s *stockService) HideSnapshot(actor model.Actor, category model.Category, id uuid.UUID) error {
	if !actor.Can("transaction:cancel") {
		return ErrPermissionDenied
	}
	if err := s.core.snapshotRepo.Deactivate(category, id); err != nil {
		return err
	}

	s.core.wsHub.PublishStockUpdate("snapshot_hidden", "", "", actor.Username,
		fmt.Sprintf("%s hid a %s stock row", actor.Username, strings.ToLower(string(category))))
	return nil
}
