package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/printing"
	"go-stonestock-ws/internal/repository"
)

// ExportFile is a generated document ready to stream to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService produces downloadable artifacts: the location stock report as
// CSV, XLSX or PDF, and per-transaction invoices as PDF.
type ExportService interface {
	StockReportCSV(actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error)
	StockReportXLSX(actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error)
	StockReportPDF(ctx context.Context, actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error)
	PurchaseInvoicePDF(ctx context.Context, actor model.Actor, id uuid.UUID) (*ExportFile, error)
	SaleInvoicePDF(ctx context.Context, actor model.Actor, id uuid.UUID) (*ExportFile, error)
}

type exportService struct {
	reportRepo   repository.ReportRepository
	locationRepo repository.LocationRepository
	tradeRepo    repository.TradeRepository
	pdf          *printing.PDFRenderer
}

func NewExportService(reportRepo repository.ReportRepository, locationRepo repository.LocationRepository, tradeRepo repository.TradeRepository, pdf *printing.PDFRenderer) ExportService {
	return &exportService{
		reportRepo:   reportRepo,
		locationRepo: locationRepo,
		tradeRepo:    tradeRepo,
		pdf:          pdf,
	}
}

func companyName() string {
	if name := os.Getenv("COMPANY_NAME"); name != "" {
		return name
	}
	return "StoneStock"
}

var reportHeader = []string{"SKU", "Name", "Category", "Quantity", "Unit", "Count", "Count Unit", "Location"}

func (s *exportService) stockRows(actor model.Actor, locationID *uuid.UUID, category, search string) ([]repository.ItemStockRow, string, error) {
	if !actor.Can("export:run") {
		return nil, "", ErrPermissionDenied
	}
	rows, err := s.reportRepo.ItemStockByLocation(locationID, category, search)
	if err != nil {
		return nil, "", err
	}
	locationName := "All Locations"
	if locationID != nil {
		if loc, err := s.locationRepo.FindByID(*locationID); err == nil {
			locationName = loc.Name
		}
	}
	return rows, locationName, nil
}

func reportFilename(ext string) string {
	return fmt.Sprintf("stock_report_%s.%s", time.Now().Format("20060102_150405"), ext)
}

func (s *exportService) StockReportCSV(actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error) {
	rows, locationName, err := s.stockRows(actor, locationID, category, search)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.SKU, row.Name, string(row.Category),
			row.PrimaryQty.StringFixed(3), row.UnitPrimary,
			fmt.Sprintf("%d", row.SecondaryQty), row.UnitSecondary,
			locationName,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    reportFilename("csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) StockReportXLSX(actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error) {
	rows, locationName, err := s.stockRows(actor, locationID, category, search)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Stock Report"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range rows {
		values := []interface{}{
			row.SKU, row.Name, string(row.Category),
			row.PrimaryQty.InexactFloat64(), row.UnitPrimary,
			row.SecondaryQty, row.UnitSecondary,
			locationName,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, v)
		}
	}
	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "H", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    reportFilename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) StockReportPDF(ctx context.Context, actor model.Actor, locationID *uuid.UUID, category, search string) (*ExportFile, error) {
	rows, locationName, err := s.stockRows(actor, locationID, category, search)
	if err != nil {
		return nil, err
	}

	view := &printing.ReportView{
		Company:     companyName(),
		Title:       "Location Stock Report",
		Location:    locationName,
		GeneratedAt: time.Now(),
	}
	for _, row := range rows {
		view.Rows = append(view.Rows, printing.ReportRow{
			SKU:          row.SKU,
			Name:         row.Name,
			Category:     string(row.Category),
			QtyPrimary:   fmt.Sprintf("%s %s", row.PrimaryQty.StringFixed(3), row.UnitPrimary),
			QtySecondary: secondaryLabel(row.SecondaryQty, row.UnitSecondary),
		})
	}

	html, err := printing.RenderReportHTML(view)
	if err != nil {
		return nil, err
	}
	// The stock report prints landscape; the column set does not fit portrait.
	data, err := s.pdf.Render(ctx, html, true)
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    reportFilename("pdf"),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}

func secondaryLabel(count int, unit string) string {
	if unit == "" {
		return "-"
	}
	return fmt.Sprintf("%d %s", count, unit)
}

func (s *exportService) PurchaseInvoicePDF(ctx context.Context, actor model.Actor, id uuid.UUID) (*ExportFile, error) {
	if !actor.Can("export:run") {
		return nil, ErrPermissionDenied
	}
	p, err := s.tradeRepo.GetPurchase(id)
	if err != nil {
		return nil, err
	}

	view := &printing.InvoiceView{
		Company:    companyName(),
		Title:      "Purchase Invoice",
		Number:     shortID(p.ID),
		Date:       p.CreatedAt,
		PartyLabel: "Vendor",
		PartyName:  deref(p.VendorName),
		Notes:      deref(p.Notes),
		Cancelled:  p.Status == model.TxCancelled,
	}
	if p.Location != nil {
		view.Location = p.Location.Name
	}
	var totals invoiceTotals
	for _, li := range p.Items {
		view.Rows = append(view.Rows, invoiceRow(li.Item, li.QtyPrimary.StringFixed(3), li.UnitPrimary, li.QtySecondary, li.UnitSecondary))
		totals.add(li.QtyPrimary, li.UnitPrimary, li.QtySecondary, li.UnitSecondary)
	}
	view.Total = totals.String()

	return s.renderInvoice(ctx, view, fmt.Sprintf("purchase_%s.pdf", view.Number))
}

func (s *exportService) SaleInvoicePDF(ctx context.Context, actor model.Actor, id uuid.UUID) (*ExportFile, error) {
	if !actor.Can("export:run") {
		return nil, ErrPermissionDenied
	}
	sale, err := s.tradeRepo.GetSale(id)
	if err != nil {
		return nil, err
	}

	view := &printing.InvoiceView{
		Company:    companyName(),
		Title:      "Sale Invoice",
		Number:     shortID(sale.ID),
		Date:       sale.CreatedAt,
		PartyLabel: "Customer",
		PartyName:  deref(sale.CustomerName),
		Notes:      deref(sale.Notes),
		Cancelled:  sale.Status == model.TxCancelled,
	}
	if sale.Location != nil {
		view.Location = sale.Location.Name
	}
	var totals invoiceTotals
	for _, li := range sale.Items {
		view.Rows = append(view.Rows, invoiceRow(li.Item, li.QtyPrimary.StringFixed(3), li.UnitPrimary, li.QtySecondary, li.UnitSecondary))
		totals.add(li.QtyPrimary, li.UnitPrimary, li.QtySecondary, li.UnitSecondary)
	}
	view.Total = totals.String()

	return s.renderInvoice(ctx, view, fmt.Sprintf("sale_%s.pdf", view.Number))
}

// invoiceTotals accumulates line quantities per unit so mixed-category
// invoices (slab + block lines) total each unit separately.
type invoiceTotals struct {
	units  []string
	sums   map[string]decimal.Decimal
	counts map[string]int
}

func (t *invoiceTotals) add(qty decimal.Decimal, unit string, secondary *int, secondaryUnit *string) {
	if t.sums == nil {
		t.sums = map[string]decimal.Decimal{}
		t.counts = map[string]int{}
	}
	if _, ok := t.sums[unit]; !ok {
		t.units = append(t.units, unit)
	}
	t.sums[unit] = t.sums[unit].Add(qty)
	if secondary != nil && secondaryUnit != nil {
		if _, ok := t.counts[*secondaryUnit]; !ok {
			t.units = append(t.units, *secondaryUnit)
		}
		t.counts[*secondaryUnit] += *secondary
	}
}

func (t *invoiceTotals) String() string {
	parts := make([]string, 0, len(t.units))
	for _, unit := range t.units {
		if sum, ok := t.sums[unit]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", sum.StringFixed(3), unit))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d %s", t.counts[unit], unit))
	}
	return strings.Join(parts, " / ")
}

func invoiceRow(item *model.Item, qty, unit string, secondary *int, secondaryUnit *string) printing.InvoiceRow {
	row := printing.InvoiceRow{
		QtyPrimary:   fmt.Sprintf("%s %s", qty, unit),
		QtySecondary: "-",
	}
	if item != nil {
		row.SKU = item.SKU
		row.Name = item.Name
	}
	if secondary != nil && secondaryUnit != nil {
		row.QtySecondary = fmt.Sprintf("%d %s", *secondary, *secondaryUnit)
	}
	return row
}

func (s *exportService) renderInvoice(ctx context.Context, view *printing.InvoiceView, filename string) (*ExportFile, error) {
	html, err := printing.RenderInvoiceHTML(view)
	if err != nil {
		return nil, err
	}
	data, err := s.pdf.Render(ctx, html, false)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    filename,
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
