package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-stonestock-ws/internal/model"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/ws"
	"go-stonestock-ws/pkg/database"
)

type testEnv struct {
	db *gorm.DB

	itemRepo   repository.ItemRepository
	ledgerRepo repository.LedgerRepository
	snapRepo   repository.SnapshotRepository
	tradeRepo  repository.TradeRepository
	reportRepo repository.ReportRepository
	userRepo   repository.UserRepository

	items   ItemService
	trade   TradeService
	adjust  AdjustmentService
	stock   StockService
	reports ReportService
	imports ImportService
	exports ExportService
	auth    AuthService
	users   UserService

	showroom  uuid.UUID
	warehouse uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedLocations(db))

	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	require.NoError(t, privilegeRepo.SeedDefaults())
	require.NoError(t, roleRepo.SeedDefaults())

	hub := ws.NewHub()
	go hub.Run()

	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	snapRepo := repository.NewSnapshotRepo(db)
	tradeRepo := repository.NewTradeRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)

	env := &testEnv{
		db:         db,
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
		snapRepo:   snapRepo,
		tradeRepo:  tradeRepo,
		reportRepo: reportRepo,
		userRepo:   userRepo,
		items:      NewItemService(itemRepo, hub),
		trade:      NewTradeService(db, itemRepo, locationRepo, ledgerRepo, snapRepo, tradeRepo, hub),
		adjust:     NewAdjustmentService(db, itemRepo, locationRepo, ledgerRepo, snapRepo, hub),
		stock:      NewStockService(db, itemRepo, locationRepo, ledgerRepo, snapRepo, hub),
		reports:    NewReportService(reportRepo, ledgerRepo),
		imports:    NewImportService(db, itemRepo, hub),
		exports:    NewExportService(reportRepo, locationRepo, tradeRepo, nil),
		auth:       NewAuthService(userRepo, roleRepo, hub),
		users:      NewUserService(userRepo, roleRepo, privilegeRepo),
	}

	showroom, err := locationRepo.FindByName("Showroom")
	require.NoError(t, err)
	warehouse, err := locationRepo.FindByName("Warehouse")
	require.NoError(t, err)
	env.showroom = showroom.ID
	env.warehouse = warehouse.ID

	return env
}

func adminActor() model.Actor {
	codes := make([]string, len(model.DefaultPrivileges))
	for i, p := range model.DefaultPrivileges {
		codes[i] = p.Code
	}
	return model.Actor{
		UserID:     uuid.New(),
		Username:   "tester",
		RoleCode:   model.RoleAdmin,
		Privileges: codes,
	}
}

func viewerActor() model.Actor {
	return model.Actor{
		UserID:     uuid.New(),
		Username:   "viewer",
		RoleCode:   model.RoleViewer,
		Privileges: []string{"item:view", "transaction:view", "report:view", "user:view"},
	}
}

func (e *testEnv) createSlab(t *testing.T, sku, name string) *model.Item {
	t.Helper()
	item := &model.Item{SKU: sku, Name: name, Category: model.CategorySlab}
	require.NoError(t, e.items.Create(adminActor(), item))
	return item
}

func (e *testEnv) createBlock(t *testing.T, sku, name string) *model.Item {
	t.Helper()
	item := &model.Item{SKU: sku, Name: name, Category: model.CategoryBlock}
	require.NoError(t, e.items.Create(adminActor(), item))
	return item
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}
