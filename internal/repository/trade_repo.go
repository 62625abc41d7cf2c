package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-stonestock-ws/internal/model"
)

// TradeRepository persists transaction headers and their line items. Creates
// run inside the caller's transaction (one commit per orchestrated
// transaction); reads run on the base connection.
type TradeRepository interface {
	CreatePurchase(tx *gorm.DB, p *model.Purchase) error
	CreatePurchaseItem(tx *gorm.DB, line *model.PurchaseItem) error
	CreateSale(tx *gorm.DB, s *model.Sale) error
	CreateSaleItem(tx *gorm.DB, line *model.SaleItem) error
	CreateSaleReturn(tx *gorm.DB, sr *model.SaleReturn) error
	CreateSaleReturnItem(tx *gorm.DB, line *model.SaleReturnItem) error
	CreatePurchaseReturn(tx *gorm.DB, pr *model.PurchaseReturn) error
	CreatePurchaseReturnItem(tx *gorm.DB, line *model.PurchaseReturnItem) error

	ListPurchases(search string, limit int) ([]model.Purchase, error)
	ListSales(search string, limit int) ([]model.Sale, error)
	ListSaleReturns(search string, limit int) ([]model.SaleReturn, error)
	ListPurchaseReturns(search string, limit int) ([]model.PurchaseReturn, error)

	GetPurchase(id uuid.UUID) (*model.Purchase, error)
	GetSale(id uuid.UUID) (*model.Sale, error)
	GetSaleReturn(id uuid.UUID) (*model.SaleReturn, error)
	GetPurchaseReturn(id uuid.UUID) (*model.PurchaseReturn, error)

	// GetForUpdate variants lock the header row for cancellation.
	GetSaleForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	GetPurchaseForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error)
	GetSaleReturnForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SaleReturn, error)
	GetPurchaseReturnForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseReturn, error)

	MarkCancelled(tx *gorm.DB, header interface{}, id uuid.UUID, stamp string) error
}

type tradeRepo struct {
	db *gorm.DB
}

func NewTradeRepo(db *gorm.DB) TradeRepository {
	return &tradeRepo{db}
}

func (r *tradeRepo) CreatePurchase(tx *gorm.DB, p *model.Purchase) error {
	return tx.Create(p).Error
}

func (r *tradeRepo) CreatePurchaseItem(tx *gorm.DB, line *model.PurchaseItem) error {
	return tx.Create(line).Error
}

func (r *tradeRepo) CreateSale(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *tradeRepo) CreateSaleItem(tx *gorm.DB, line *model.SaleItem) error {
	return tx.Create(line).Error
}

func (r *tradeRepo) CreateSaleReturn(tx *gorm.DB, sr *model.SaleReturn) error {
	return tx.Create(sr).Error
}

func (r *tradeRepo) CreateSaleReturnItem(tx *gorm.DB, line *model.SaleReturnItem) error {
	return tx.Create(line).Error
}

func (r *tradeRepo) CreatePurchaseReturn(tx *gorm.DB, pr *model.PurchaseReturn) error {
	return tx.Create(pr).Error
}

func (r *tradeRepo) CreatePurchaseReturnItem(tx *gorm.DB, line *model.PurchaseReturnItem) error {
	return tx.Create(line).Error
}

func (r *tradeRepo) ListPurchases(search string, limit int) ([]model.Purchase, error) {
	var rows []model.Purchase
	q := r.db.Preload("Location").Order("created_at DESC")
	if search != "" {
		q = q.Where("vendor_name LIKE ?", "%"+search+"%")
	}
	err := q.Limit(defaultLimit(limit)).Find(&rows).Error
	return rows, err
}

func (r *tradeRepo) ListSales(search string, limit int) ([]model.Sale, error) {
	var rows []model.Sale
	q := r.db.Preload("Location").Order("created_at DESC")
	if search != "" {
		q = q.Where("customer_name LIKE ?", "%"+search+"%")
	}
	err := q.Limit(defaultLimit(limit)).Find(&rows).Error
	return rows, err
}

func (r *tradeRepo) ListSaleReturns(search string, limit int) ([]model.SaleReturn, error) {
	var rows []model.SaleReturn
	q := r.db.Preload("Location").Order("created_at DESC")
	if search != "" {
		q = q.Where("customer_name LIKE ?", "%"+search+"%")
	}
	err := q.Limit(defaultLimit(limit)).Find(&rows).Error
	return rows, err
}

func (r *tradeRepo) ListPurchaseReturns(search string, limit int) ([]model.PurchaseReturn, error) {
	var rows []model.PurchaseReturn
	q := r.db.Preload("Location").Order("created_at DESC")
	if search != "" {
		q = q.Where("vendor_name LIKE ?", "%"+search+"%")
	}
	err := q.Limit(defaultLimit(limit)).Find(&rows).Error
	return rows, err
}

func (r *tradeRepo) GetPurchase(id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.Preload("Location").Preload("Items").Preload("Items.Item").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *tradeRepo) GetSale(id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.Preload("Location").Preload("Items").Preload("Items.Item").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *tradeRepo) GetSaleReturn(id uuid.UUID) (*model.SaleReturn, error) {
	var sr model.SaleReturn
	err := r.db.Preload("Location").Preload("Items").Preload("Items.Item").
		First(&sr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *tradeRepo) GetPurchaseReturn(id uuid.UUID) (*model.PurchaseReturn, error) {
	var pr model.PurchaseReturn
	err := r.db.Preload("Location").Preload("Items").Preload("Items.Item").
		First(&pr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *tradeRepo) GetSaleForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Items.Item").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *tradeRepo) GetPurchaseForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Items.Item").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *tradeRepo) GetSaleReturnForUpdate(tx *gorm.DB, id uuid.UUID) (*model.SaleReturn, error) {
	var sr model.SaleReturn
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Items.Item").
		First(&sr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *tradeRepo) GetPurchaseReturnForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseReturn, error) {
	var pr model.PurchaseReturn
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").Preload("Items.Item").
		First(&pr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// MarkCancelled flips the header status and appends a cancellation stamp to
// the notes inside the caller's transaction.
func (r *tradeRepo) MarkCancelled(tx *gorm.DB, header interface{}, id uuid.UUID, stamp string) error {
	return tx.Model(header).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status": model.TxCancelled,
			"notes":  gorm.Expr("COALESCE(notes, '') || ?", " "+stamp),
		}).Error
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 300
	}
	return limit
}
