package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"erp-pdv-api/internal/model"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/database"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tester = model.Actor{UserID: 1, Name: "tester", Email: "tester@example.com"}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(event interface{}) {
	m.Called(event)
}

// actions returns the actions of every StockEvent published so far.
func (m *mockPublisher) actions() []string {
	var out []string
	for _, call := range m.Calls {
		if ev, ok := call.Arguments.Get(0).(StockEvent); ok {
			out = append(out, ev.Action)
		}
	}
	return out
}

// memCache is an in-process Cache keeping JSON like the redis one does.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deletes++
	return nil
}

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	moves     repository.StockMoveRepository
	sales     repository.SaleRepository
	suppliers repository.SupplierRepository
	audits    repository.AuditRepository
	publisher *mockPublisher
	cache     *memCache

	inventory   InventoryService
	saleSvc     SaleService
	supplierSvc SupplierService
	reports     ReportService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	env := &testEnv{
		db:        db,
		products:  repository.NewProductRepo(db),
		moves:     repository.NewStockMoveRepo(db),
		sales:     repository.NewSaleRepo(db),
		suppliers: repository.NewSupplierRepo(db),
		audits:    repository.NewAuditRepo(db),
		publisher: new(mockPublisher),
		cache:     newMemCache(),
	}
	env.publisher.On("Publish", mock.Anything).Return()

	env.inventory = NewInventoryService(db, env.products, env.moves, env.suppliers, env.audits, env.publisher, env.cache)
	env.saleSvc = NewSaleService(db, env.products, env.moves, env.sales, env.audits, env.publisher, env.cache)
	env.supplierSvc = NewSupplierService(db, env.suppliers, env.products, env.audits)
	env.reports = NewReportService(env.products, env.moves, env.cache, ReportOptions{LowStockThreshold: 5})
	return env
}

// newProduct creates a product through the service so its initial stock is
// recorded in the ledger.
func (e *testEnv) newProduct(t *testing.T, name string, stock int, price int64) *model.Product {
	t.Helper()
	p, err := e.inventory.CreateProduct(context.Background(), tester, &ProductRequest{
		Name:         name,
		Price:        price,
		InitialStock: stock,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) stockOf(t *testing.T, id uint) int {
	t.Helper()
	var p model.Product
	require.NoError(t, e.db.Unscoped().First(&p, id).Error)
	return p.StockQty
}

func (e *testEnv) countMoves(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.StockMove{}).Count(&n).Error)
	return n
}

// requireLedgerConsistent checks stock_qty == sum(delta) for every product.
func (e *testEnv) requireLedgerConsistent(t *testing.T) {
	t.Helper()
	mismatches, err := e.moves.FindLedgerMismatches(context.Background())
	require.NoError(t, err)
	require.Empty(t, mismatches)
}
