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
	"go-stonestock-ws/pkg/validator"
)

type TradeLineRequest struct {
	ItemID       uuid.UUID       `json:"item_id" validate:"uuid_required"`
	QtyPrimary   decimal.Decimal `json:"qty_primary"`
	QtySecondary *int            `json:"qty_secondary"`
}

type PurchaseRequest struct {
	LocationID *uuid.UUID         `json:"location_id"`
	VendorName *string            `json:"vendor_name"`
	Notes      *string            `json:"notes" validate:"omitempty,max=250"`
	Items      []TradeLineRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleRequest struct {
	LocationID   *uuid.UUID         `json:"location_id"`
	CustomerName *string            `json:"customer_name"`
	Notes        *string            `json:"notes" validate:"omitempty,max=250"`
	Items        []TradeLineRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleReturnRequest struct {
	LocationID   *uuid.UUID         `json:"location_id"`
	CustomerName *string            `json:"customer_name"`
	Notes        *string            `json:"notes" validate:"omitempty,max=250"`
	Items        []TradeLineRequest `json:"items" validate:"required,min=1,dive"`
}

type PurchaseReturnRequest struct {
	LocationID *uuid.UUID         `json:"location_id"`
	VendorName *string            `json:"vendor_name"`
	Notes      *string            `json:"notes" validate:"omitempty,max=250"`
	Items      []TradeLineRequest `json:"items" validate:"required,min=1,dive"`
}

// TradeService orchestrates the four transaction kinds. Every create and
// cancel runs as one DB transaction: header, lines, ledger entries and
// snapshot rows commit together or not at all.
type TradeService interface {
	CreatePurchase(actor model.Actor, req *PurchaseRequest) (*model.Purchase, error)
	CreateSale(actor model.Actor, req *SaleRequest) (*model.Sale, error)
	CreateSaleReturn(actor model.Actor, req *SaleReturnRequest) (*model.SaleReturn, error)
	CreatePurchaseReturn(actor model.Actor, req *PurchaseReturnRequest) (*model.PurchaseReturn, error)

	ListPurchases(actor model.Actor, search string, limit int) ([]model.Purchase, error)
	ListSales(actor model.Actor, search string, limit int) ([]model.Sale, error)
	ListSaleReturns(actor model.Actor, search string, limit int) ([]model.SaleReturn, error)
	ListPurchaseReturns(actor model.Actor, search string, limit int) ([]model.PurchaseReturn, error)

	GetPurchase(actor model.Actor, id uuid.UUID) (*model.Purchase, error)
	GetSale(actor model.Actor, id uuid.UUID) (*model.Sale, error)

	CancelPurchase(actor model.Actor, id uuid.UUID) error
	CancelSale(actor model.Actor, id uuid.UUID) error
	CancelSaleReturn(actor model.Actor, id uuid.UUID) error
	CancelPurchaseReturn(actor model.Actor, id uuid.UUID) error
}

type tradeService struct {
	core      *stockCore
	tradeRepo repository.TradeRepository
}

func NewTradeService(db *gorm.DB, itemRepo repository.ItemRepository, locationRepo repository.LocationRepository, ledgerRepo repository.LedgerRepository, snapshotRepo repository.SnapshotRepository, tradeRepo repository.TradeRepository, wsHub *ws.Hub) TradeService {
	return &tradeService{
		core: &stockCore{
			db:           db,
			itemRepo:     itemRepo,
			locationRepo: locationRepo,
			ledgerRepo:   ledgerRepo,
			snapshotRepo: snapshotRepo,
			wsHub:        wsHub,
		},
		tradeRepo: tradeRepo,
	}
}

func validationError(errs []*validator.ErrorResponse) error {
	if len(errs) == 0 {
		return nil
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = fmt.Sprintf("%s (%s)", e.FailedField, e.Tag)
	}
	return fmt.Errorf("validation failed: %s", strings.Join(parts, ", "))
}

// shortID is the human-facing transaction number shown in notes and invoices.
func shortID(id uuid.UUID) string {
	return strings.ToUpper(strings.SplitN(id.String(), "-", 2)[0])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// postLine is one validated line ready to write.
type postLine struct {
	item         *model.Item
	qtyPrimary   decimal.Decimal
	qtySecondary *int
}

// validateLines locks every item and applies quantity rules before any write,
// so a bad third line never leaves the first two committed. checkStock adds
// the availability check for outbound transactions.
func (s *tradeService) validateLines(tx *gorm.DB, locationID *uuid.UUID, lines []TradeLineRequest, checkStock bool) ([]postLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyTransaction
	}
	out := make([]postLine, 0, len(lines))
	for _, line := range lines {
		item, err := s.core.lockedItem(tx, line.ItemID)
		if err != nil {
			return nil, err
		}
		sec, err := s.core.validateLine(item, line.QtyPrimary, line.QtySecondary)
		if err != nil {
			return nil, err
		}
		if checkStock {
			if err := s.core.ensureAvailable(tx, item, locationID, line.QtyPrimary, sec); err != nil {
				return nil, err
			}
		}
		out = append(out, postLine{item: item, qtyPrimary: line.QtyPrimary, qtySecondary: sec})
	}
	return out, nil
}

func (s *tradeService) CreatePurchase(actor model.Actor, req *PurchaseRequest) (*model.Purchase, error) {
	if !actor.Can("transaction:create") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}
	loc, err := s.core.requireLocation(req.LocationID)
	if err != nil {
		return nil, err
	}

	var header model.Purchase
	err = s.core.db.Transaction(func(tx *gorm.DB) error {
		lines, err := s.validateLines(tx, req.LocationID, req.Items, false)
		if err != nil {
			return err
		}

		header = model.Purchase{VendorName: req.VendorName}
		header.LocationID = req.LocationID
		header.Notes = req.Notes
		header.CreatedBy = actor.Username
		if err := s.tradeRepo.CreatePurchase(tx, &header); err != nil {
			return err
		}

		note := fmt.Sprintf("Purchase#%s - %s", shortID(header.ID), deref(req.VendorName))
		for _, line := range lines {
			li := model.PurchaseItem{PurchaseID: header.ID}
			li.ItemID = line.item.ID
			li.QtyPrimary = line.qtyPrimary
			li.QtySecondary = line.qtySecondary
			li.UnitPrimary = line.item.PrimaryUnitLabel()
			if sec := line.item.SecondaryUnitLabel(); sec != "" {
				li.UnitSecondary = &sec
			}
			if err := s.tradeRepo.CreatePurchaseItem(tx, &li); err != nil {
				return err
			}
			if err := s.core.post(tx, line.item, req.LocationID, model.MovementPurchase,
				line.qtyPrimary, line.qtySecondary, model.RefPurchase, &header.ID, note, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.core.wsHub.PublishStockUpdate("purchase_created", "", "", actor.Username,
		fmt.Sprintf("%s recorded a purchase at %s", actor.Username, loc.Name))
	return s.tradeRepo.GetPurchase(header.ID)
}

func (s *tradeService) CreateSale(actor model.Actor, req *SaleRequest) (*model.Sale, error) {
	if !actor.Can("transaction:create") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}
	loc, err := s.core.requireLocation(req.LocationID)
	if err != nil {
		return nil, err
	}

	var header model.Sale
	err = s.core.db.Transaction(func(tx *gorm.DB) error {
		lines, err := s.validateLines(tx, req.LocationID, req.Items, true)
		if err != nil {
			return err
		}

		header = model.Sale{CustomerName: req.CustomerName}
		header.LocationID = req.LocationID
		header.Notes = req.Notes
		header.CreatedBy = actor.Username
		if err := s.tradeRepo.CreateSale(tx, &header); err != nil {
			return err
		}

		note := fmt.Sprintf("Sale#%s - %s", shortID(header.ID), deref(req.CustomerName))
		for _, line := range lines {
			li := model.SaleItem{SaleID: header.ID}
			li.ItemID = line.item.ID
			li.QtyPrimary = line.qtyPrimary
			li.QtySecondary = line.qtySecondary
			li.UnitPrimary = line.item.PrimaryUnitLabel()
			if sec := line.item.SecondaryUnitLabel(); sec != "" {
				li.UnitSecondary = &sec
			}
			if err := s.tradeRepo.CreateSaleItem(tx, &li); err != nil {
				return err
			}
			if err := s.core.post(tx, line.item, req.LocationID, model.MovementSale,
				line.qtyPrimary, line.qtySecondary, model.RefSale, &header.ID, note, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.core.wsHub.PublishStockUpdate("sale_created", "", "", actor.Username,
		fmt.Sprintf("%s recorded a sale at %s", actor.Username, loc.Name))
	return s.tradeRepo.GetSale(header.ID)
}

func (s *tradeService) CreateSaleReturn(actor model.Actor, req *SaleReturnRequest) (*model.SaleReturn, error) {
	if !actor.Can("transaction:create") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if _, err := s.core.requireLocation(req.LocationID); err != nil {
		return nil, err
	}

	var header model.SaleReturn
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		lines, err := s.validateLines(tx, req.LocationID, req.Items, false)
		if err != nil {
			return err
		}

		header = model.SaleReturn{CustomerName: req.CustomerName}
		header.LocationID = req.LocationID
		header.Notes = req.Notes
		header.CreatedBy = actor.Username
		if err := s.tradeRepo.CreateSaleReturn(tx, &header); err != nil {
			return err
		}

		note := fmt.Sprintf("SaleReturn#%s - %s", shortID(header.ID), deref(req.CustomerName))
		for _, line := range lines {
			li := model.SaleReturnItem{SaleReturnID: header.ID}
			li.ItemID = line.item.ID
			li.QtyPrimary = line.qtyPrimary
			li.QtySecondary = line.qtySecondary
			li.UnitPrimary = line.item.PrimaryUnitLabel()
			if sec := line.item.SecondaryUnitLabel(); sec != "" {
				li.UnitSecondary = &sec
			}
			if err := s.tradeRepo.CreateSaleReturnItem(tx, &li); err != nil {
				return err
			}
			if err := s.core.post(tx, line.item, req.LocationID, model.MovementSaleReturn,
				line.qtyPrimary, line.qtySecondary, model.RefSaleReturn, &header.ID, note, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.core.wsHub.PublishStockUpdate("sale_return_created", "", "", actor.Username,
		fmt.Sprintf("%s recorded a sale return", actor.Username))
	return s.tradeRepo.GetSaleReturn(header.ID)
}

func (s *tradeService) CreatePurchaseReturn(actor model.Actor, req *PurchaseReturnRequest) (*model.PurchaseReturn, error) {
	if !actor.Can("transaction:create") {
		return nil, ErrPermissionDenied
	}
	if err := validationError(validator.ValidateStruct(req)); err != nil {
		return nil, err
	}
	if _, err := s.core.requireLocation(req.LocationID); err != nil {
		return nil, err
	}

	var header model.PurchaseReturn
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		// Purchase returns send stock back to the vendor, so they must fit
		// within the current balance.
		lines, err := s.validateLines(tx, req.LocationID, req.Items, true)
		if err != nil {
			return err
		}

		header = model.PurchaseReturn{VendorName: req.VendorName}
		header.LocationID = req.LocationID
		header.Notes = req.Notes
		header.CreatedBy = actor.Username
		if err := s.tradeRepo.CreatePurchaseReturn(tx, &header); err != nil {
			return err
		}

		note := fmt.Sprintf("PurchaseReturn#%s - %s", shortID(header.ID), deref(req.VendorName))
		for _, line := range lines {
			li := model.PurchaseReturnItem{PurchaseReturnID: header.ID}
			li.ItemID = line.item.ID
			li.QtyPrimary = line.qtyPrimary
			li.QtySecondary = line.qtySecondary
			li.UnitPrimary = line.item.PrimaryUnitLabel()
			if sec := line.item.SecondaryUnitLabel(); sec != "" {
				li.UnitSecondary = &sec
			}
			if err := s.tradeRepo.CreatePurchaseReturnItem(tx, &li); err != nil {
				return err
			}
			if err := s.core.post(tx, line.item, req.LocationID, model.MovementPurchaseReturn,
				line.qtyPrimary, line.qtySecondary, model.RefPurchaseReturn, &header.ID, note, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.core.wsHub.PublishStockUpdate("purchase_return_created", "", "", actor.Username,
		fmt.Sprintf("%s recorded a purchase return", actor.Username))
	return s.tradeRepo.GetPurchaseReturn(header.ID)
}

func (s *tradeService) ListPurchases(actor model.Actor, search string, limit int) ([]model.Purchase, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.ListPurchases(search, limit)
}

func (s *tradeService) ListSales(actor model.Actor, search string, limit int) ([]model.Sale, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.ListSales(search, limit)
}

func (s *tradeService) ListSaleReturns(actor model.Actor, search string, limit int) ([]model.SaleReturn, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.ListSaleReturns(search, limit)
}

func (s *tradeService) ListPurchaseReturns(actor model.Actor, search string, limit int) ([]model.PurchaseReturn, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.ListPurchaseReturns(search, limit)
}

func (s *tradeService) GetPurchase(actor model.Actor, id uuid.UUID) (*model.Purchase, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.GetPurchase(id)
}

func (s *tradeService) GetSale(actor model.Actor, id uuid.UUID) (*model.Sale, error) {
	if !actor.Can("transaction:view") {
		return nil, ErrPermissionDenied
	}
	return s.tradeRepo.GetSale(id)
}

// cancelLine mirrors postLine for reversal writes.
type cancelLine struct {
	itemID       uuid.UUID
	qtyPrimary   decimal.Decimal
	qtySecondary *int
}

// reverseLines posts the _CANCEL counterpart of each original line. checkStock
// applies when the reversal removes stock (cancelling a purchase or a sale
// return).
func (s *tradeService) reverseLines(tx *gorm.DB, locationID *uuid.UUID, movement model.MovementType, refType string, refID uuid.UUID, note string, lines []cancelLine, checkStock bool) error {
	type locked struct {
		item *model.Item
		line cancelLine
	}
	resolved := make([]locked, 0, len(lines))
	for _, line := range lines {
		item, err := s.core.lockedItem(tx, line.itemID)
		if err != nil {
			return err
		}
		if checkStock {
			if err := s.core.ensureAvailable(tx, item, locationID, line.qtyPrimary, line.qtySecondary); err != nil {
				return err
			}
		}
		resolved = append(resolved, locked{item: item, line: line})
	}
	for _, r := range resolved {
		if err := s.core.post(tx, r.item, locationID, movement.Cancel(),
			r.line.qtyPrimary, r.line.qtySecondary, refType, &refID, note, true); err != nil {
			return err
		}
	}
	return nil
}

func (s *tradeService) CancelPurchase(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("transaction:cancel") {
		return ErrPermissionDenied
	}
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.tradeRepo.GetPurchaseForUpdate(tx, id)
		if err != nil {
			return err
		}
		if p.Status == model.TxCancelled {
			return ErrAlreadyCancelled
		}

		lines := make([]cancelLine, len(p.Items))
		for i, li := range p.Items {
			lines[i] = cancelLine{itemID: li.ItemID, qtyPrimary: li.QtyPrimary, qtySecondary: li.QtySecondary}
		}
		note := fmt.Sprintf("Purchase#%s cancelled", shortID(id))
		// Reversing a purchase pulls the stock back out, so the balance must
		// still cover it.
		if err := s.reverseLines(tx, p.LocationID, model.MovementPurchase, model.RefPurchase, id, note, lines, true); err != nil {
			return err
		}
		return s.tradeRepo.MarkCancelled(tx, &model.Purchase{}, id, fmt.Sprintf("[cancelled by %s]", actor.Username))
	})
	if err != nil {
		return err
	}
	s.core.wsHub.PublishStockUpdate("purchase_cancelled", "", "", actor.Username,
		fmt.Sprintf("%s cancelled purchase %s", actor.Username, shortID(id)))
	return nil
}

func (s *tradeService) CancelSale(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("transaction:cancel") {
		return ErrPermissionDenied
	}
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		sale, err := s.tradeRepo.GetSaleForUpdate(tx, id)
		if err != nil {
			return err
		}
		if sale.Status == model.TxCancelled {
			return ErrAlreadyCancelled
		}

		lines := make([]cancelLine, len(sale.Items))
		for i, li := range sale.Items {
			lines[i] = cancelLine{itemID: li.ItemID, qtyPrimary: li.QtyPrimary, qtySecondary: li.QtySecondary}
		}
		note := fmt.Sprintf("Sale#%s cancelled", shortID(id))
		if err := s.reverseLines(tx, sale.LocationID, model.MovementSale, model.RefSale, id, note, lines, false); err != nil {
			return err
		}
		return s.tradeRepo.MarkCancelled(tx, &model.Sale{}, id, fmt.Sprintf("[cancelled by %s]", actor.Username))
	})
	if err != nil {
		return err
	}
	s.core.wsHub.PublishStockUpdate("sale_cancelled", "", "", actor.Username,
		fmt.Sprintf("%s cancelled sale %s", actor.Username, shortID(id)))
	return nil
}

func (s *tradeService) CancelSaleReturn(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("transaction:cancel") {
		return ErrPermissionDenied
	}
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		sr, err := s.tradeRepo.GetSaleReturnForUpdate(tx, id)
		if err != nil {
			return err
		}
		if sr.Status == model.TxCancelled {
			return ErrAlreadyCancelled
		}

		lines := make([]cancelLine, len(sr.Items))
		for i, li := range sr.Items {
			lines[i] = cancelLine{itemID: li.ItemID, qtyPrimary: li.QtyPrimary, qtySecondary: li.QtySecondary}
		}
		note := fmt.Sprintf("SaleReturn#%s cancelled", shortID(id))
		if err := s.reverseLines(tx, sr.LocationID, model.MovementSaleReturn, model.RefSaleReturn, id, note, lines, true); err != nil {
			return err
		}
		return s.tradeRepo.MarkCancelled(tx, &model.SaleReturn{}, id, fmt.Sprintf("[cancelled by %s]", actor.Username))
	})
	if err != nil {
		return err
	}
	s.core.wsHub.PublishStockUpdate("sale_return_cancelled", "", "", actor.Username,
		fmt.Sprintf("%s cancelled sale return %s", actor.Username, shortID(id)))
	return nil
}

func (s *tradeService) CancelPurchaseReturn(actor model.Actor, id uuid.UUID) error {
	if !actor.Can("transaction:cancel") {
		return ErrPermissionDenied
	}
	err := s.core.db.Transaction(func(tx *gorm.DB) error {
		pr, err := s.tradeRepo.GetPurchaseReturnForUpdate(tx, id)
		if err != nil {
			return err
		}
		if pr.Status == model.TxCancelled {
			return ErrAlreadyCancelled
		}

		lines := make([]cancelLine, len(pr.Items))
		for i, li := range pr.Items {
			lines[i] = cancelLine{itemID: li.ItemID, qtyPrimary: li.QtyPrimary, qtySecondary: li.QtySecondary}
		}
		note := fmt.Sprintf("PurchaseReturn#%s cancelled", shortID(id))
		if err := s.reverseLines(tx, pr.LocationID, model.MovementPurchaseReturn, model.RefPurchaseReturn, id, note, lines, false); err != nil {
			return err
		}
		return s.tradeRepo.MarkCancelled(tx, &model.PurchaseReturn{}, id, fmt.Sprintf("[cancelled by %s]", actor.Username))
	})
	if err != nil {
		return err
	}
	s.core.wsHub.PublishStockUpdate("purchase_return_cancelled", "", "", actor.Username,
		fmt.Sprintf("%s cancelled purchase return %s", actor.Username, shortID(id)))
	return nil
}
