package service

import (
	"github.com/google/uuid"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
)

// Dashboard bundles everything the landing view renders in one response.
type Dashboard struct {
	Totals        *repository.DashboardTotals  `json:"totals"`
	LowStock      []repository.LowStockItem    `json:"low_stock"`
	RecentLedger  []model.StockLedgerEntry     `json:"recent_ledger"`
	LocationStock []repository.LocationSummary `json:"location_stock"`
}

type ReportService interface {
	Dashboard(actor model.Actor) (*Dashboard, error)
	LowStock(actor model.Actor, limit int, locationID *uuid.UUID) ([]repository.LowStockItem, error)
	LocationSummary(actor model.Actor) ([]repository.LocationSummary, error)
	LocationStock(actor model.Actor, locationID *uuid.UUID, category, search string) ([]repository.ItemStockRow, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	ledgerRepo repository.LedgerRepository
}

func NewReportService(reportRepo repository.ReportRepository, ledgerRepo repository.LedgerRepository) ReportService {
	return &reportService{reportRepo: reportRepo, ledgerRepo: ledgerRepo}
}

func (s *reportService) Dashboard(actor model.Actor) (*Dashboard, error) {
	if !actor.Can("report:view") {
		return nil, ErrPermissionDenied
	}

	totals, err := s.reportRepo.DashboardTotals()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.reportRepo.LowStockTop(5, nil)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledgerRepo.List("", 10)
	if err != nil {
		return nil, err
	}
	locations, err := s.reportRepo.LocationSummary()
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Totals:        totals,
		LowStock:      lowStock,
		RecentLedger:  recent,
		LocationStock: locations,
	}, nil
}

func (s *reportService) LowStock(actor model.Actor, limit int, locationID *uuid.UUID) ([]repository.LowStockItem, error) {
	if !actor.Can("report:view") {
		return nil, ErrPermissionDenied
	}
	return s.reportRepo.LowStockTop(limit, locationID)
}

func (s *reportService) LocationSummary(actor model.Actor) ([]repository.LocationSummary, error) {
	if !actor.Can("report:view") {
		return nil, ErrPermissionDenied
	}
	return s.reportRepo.LocationSummary()
}

func (s *reportService) LocationStock(actor model.Actor, locationID *uuid.UUID, category, search string) ([]repository.ItemStockRow, error) {
	if !actor.Can("report:view") {
		return nil, ErrPermissionDenied
	}
	return s.reportRepo.ItemStockByLocation(locationID, category, search)
}
