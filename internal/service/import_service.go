package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
)

// importColumns is the expected header set, in canonical order. Column order
// in the file does not matter; matching is by name, case-insensitive.
var importColumns = []string{
	"sku", "name", "category",
	"unit_primary", "unit_secondary", "sqft_per_unit",
	"material", "thickness", "finish",
}

type RowError struct {
	Row     int    `json:"row"`
	SKU     string `json:"sku,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	Total    int        `json:"total"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

type ImportStatus struct {
	Running   bool          `json:"running"`
	Filename  string        `json:"filename,omitempty"`
	Processed int           `json:"processed"`
	Total     int           `json:"total"`
	Result    *ImportResult `json:"result,omitempty"`
}

// ImportService runs catalog bulk imports from CSV or XLSX files. One import
// runs at a time, on its own goroutine; progress streams over the websocket
// hub and the latest result stays queryable until the next run.
type ImportService interface {
	Start(actor model.Actor, filename string, data []byte) error
	// Run executes synchronously and returns the result. Start wraps it.
	Run(actor model.Actor, filename string, data []byte) (*ImportResult, error)
	Status() ImportStatus
	Stop(actor model.Actor) error
}

type importService struct {
	db       *gorm.DB
	itemRepo repository.ItemRepository
	wsHub    *ws.Hub

	mu       sync.Mutex
	running  bool
	stopFlag bool
	status   ImportStatus
}

func NewImportService(db *gorm.DB, itemRepo repository.ItemRepository, wsHub *ws.Hub) ImportService {
	return &importService{db: db, itemRepo: itemRepo, wsHub: wsHub}
}

// importRow is one parsed data row, keyed by canonical column name.
type importRow struct {
	line   int
	fields map[string]string
}

func (s *importService) Start(actor model.Actor, filename string, data []byte) error {
	if !actor.Can("import:run") {
		return ErrPermissionDenied
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrImportRunning
	}
	s.running = true
	s.stopFlag = false
	s.status = ImportStatus{Running: true, Filename: filename}
	s.mu.Unlock()

	go func() {
		result, err := s.run(actor, filename, data)
		if err != nil {
			log.Printf("import: %s failed: %v", filename, err)
			result = &ImportResult{Errors: []RowError{{Message: err.Error()}}}
		}
		s.mu.Lock()
		s.running = false
		s.status.Running = false
		s.status.Result = result
		s.mu.Unlock()
		s.wsHub.PublishImportProgress(result.Total, result.Total, result.Inserted, result.Updated, result.Skipped, true)
	}()
	return nil
}

func (s *importService) Run(actor model.Actor, filename string, data []byte) (*ImportResult, error) {
	if !actor.Can("import:run") {
		return nil, ErrPermissionDenied
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrImportRunning
	}
	s.running = true
	s.stopFlag = false
	s.status = ImportStatus{Running: true, Filename: filename}
	s.mu.Unlock()

	result, err := s.run(actor, filename, data)

	s.mu.Lock()
	s.running = false
	s.status.Running = false
	s.status.Result = result
	s.mu.Unlock()
	return result, err
}

func (s *importService) Status() ImportStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *importService) Stop(actor model.Actor) error {
	if !actor.Can("import:run") {
		return ErrPermissionDenied
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return fmt.Errorf("no import is running")
	}
	s.stopFlag = true
	return nil
}

func (s *importService) run(actor model.Actor, filename string, data []byte) (*ImportResult, error) {
	var rows []importRow
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = parseCSV(data)
	case ".xlsx":
		rows, err = parseXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q: use .csv or .xlsx", filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNothingToImport
	}

	result := &ImportResult{Total: len(rows)}
	seen := map[string]int{} // upper SKU -> first row line

	for i, row := range rows {
		s.mu.Lock()
		stopped := s.stopFlag
		s.status.Processed = i
		s.status.Total = len(rows)
		s.mu.Unlock()
		if stopped {
			result.Errors = append(result.Errors, RowError{Message: fmt.Sprintf("import stopped after %d rows", i)})
			result.Skipped += len(rows) - i
			break
		}

		item, rowErr := buildItem(row)
		if rowErr != nil {
			result.Skipped++
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		// In-file duplicates: the first occurrence wins, the rest error out.
		if first, dup := seen[item.SKU]; dup {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{
				Row:     row.line,
				SKU:     item.SKU,
				Message: fmt.Sprintf("duplicate SKU in file (first seen on row %d)", first),
			})
			continue
		}
		seen[item.SKU] = row.line

		item.CreatedBy = actor.Username
		item.UpdatedBy = actor.Username

		var outcome string
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var err error
			outcome, err = s.itemRepo.UpsertBySKU(tx, item)
			return err
		})
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Row: row.line, SKU: item.SKU, Message: err.Error()})
			continue
		}
		if outcome == "inserted" {
			result.Inserted++
		} else {
			result.Updated++
		}

		if (i+1)%25 == 0 {
			s.wsHub.PublishImportProgress(i+1, len(rows), result.Inserted, result.Updated, result.Skipped, false)
		}
	}

	return result, nil
}

// buildItem validates one parsed row and shapes it into an Item ready for
// upsert. Category unit rules apply here, before the repository normalizes
// again on write.
func buildItem(row importRow) (*model.Item, *RowError) {
	sku := strings.ToUpper(strings.TrimSpace(row.fields["sku"]))
	name := strings.TrimSpace(row.fields["name"])
	category := model.Category(strings.ToUpper(strings.TrimSpace(row.fields["category"])))

	if sku == "" {
		return nil, &RowError{Row: row.line, Message: "sku is required"}
	}
	if name == "" {
		return nil, &RowError{Row: row.line, SKU: sku, Message: "name is required"}
	}
	if !category.Valid() {
		return nil, &RowError{Row: row.line, SKU: sku, Message: fmt.Sprintf("invalid category %q", row.fields["category"])}
	}

	item := &model.Item{SKU: sku, Name: name, Category: category, IsActive: true}
	item.UnitPrimary = strings.TrimSpace(row.fields["unit_primary"])
	if v := strings.TrimSpace(row.fields["unit_secondary"]); v != "" {
		item.UnitSecondary = &v
	}
	if v := strings.TrimSpace(row.fields["sqft_per_unit"]); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, &RowError{Row: row.line, SKU: sku, Message: fmt.Sprintf("invalid sqft_per_unit %q", v)}
		}
		item.SqftPerUnit = &d
	}
	if v := strings.TrimSpace(row.fields["material"]); v != "" {
		item.Material = &v
	}
	if v := strings.TrimSpace(row.fields["thickness"]); v != "" {
		item.Thickness = &v
	}
	if v := strings.TrimSpace(row.fields["finish"]); v != "" {
		item.Finish = &v
	}
	item.NormalizeUnits()
	return item, nil
}

func parseCSV(data []byte) ([]importRow, error) {
	// Excel writes a UTF-8 BOM; strip it so the first header parses.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []importRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, rowFromRecord(line, record, index))
	}
	return rows, nil
}

func parseXLSX(data []byte) ([]importRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNothingToImport
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNothingToImport
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rows []importRow
	for i, record := range records[1:] {
		if recordEmpty(record) {
			continue
		}
		rows = append(rows, rowFromRecord(i+2, record, index))
	}
	return rows, nil
}

// headerIndex maps canonical column names onto their positions in the file's
// header. sku, name and category are mandatory columns.
func headerIndex(header []string) (map[string]int, error) {
	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "name", "category"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return index, nil
}

func rowFromRecord(line int, record []string, index map[string]int) importRow {
	fields := make(map[string]string, len(importColumns))
	for _, col := range importColumns {
		pos, ok := index[col]
		if !ok || pos >= len(record) {
			continue
		}
		fields[col] = record[pos]
	}
	return importRow{line: line, fields: fields}
}

func recordEmpty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
