package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

// sqlRecorder collects every statement gorm builds, so tests can assert on the
// generated SQL without a live database.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) statementAgainst(t *testing.T, table string) string {
	t.Helper()
	for _, stmt := range r.statements {
		if strings.Contains(stmt, "FROM `"+table+"`") {
			return stmt
		}
	}
	t.Fatalf("no statement against %q recorded in %v", table, r.statements)
	return ""
}

// The availability checks rely on the item and header rows staying put until
// the surrounding transaction commits, so every ForUpdate reader must carry a
// row lock in the SQL it emits. SQLite drops the clause (its transactions lock
// the whole database), so this builds the statements on a dialect that keeps it.
func TestForUpdateReadersEmitRowLocks(t *testing.T) {
	rec := &sqlRecorder{}
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, Logger: rec})
	require.NoError(t, err)

	items := NewItemRepo(db)
	trades := NewTradeRepo(db)
	id := uuid.New()

	_, _ = items.FindByIDForUpdate(db, id)
	_, _ = trades.GetSaleForUpdate(db, id)
	_, _ = trades.GetPurchaseForUpdate(db, id)
	_, _ = trades.GetSaleReturnForUpdate(db, id)
	_, _ = trades.GetPurchaseReturnForUpdate(db, id)

	for _, table := range []string{"items", "sales", "purchases", "sale_returns", "purchase_returns"} {
		assert.Contains(t, rec.statementAgainst(t, table), "FOR UPDATE", table)
	}
}

func TestPlainReadersStayUnlocked(t *testing.T) {
	rec := &sqlRecorder{}
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true, Logger: rec})
	require.NoError(t, err)

	items := NewItemRepo(db)
	_, _ = items.FindByID(uuid.New())

	assert.NotContains(t, rec.statementAgainst(t, "items"), "FOR UPDATE")
}
