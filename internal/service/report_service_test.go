package service

import (
	"context"
	"testing"
	"time"

	"erp-pdv-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedMoveAt(t *testing.T, env *testEnv, productID uint, delta int, at time.Time) {
	t.Helper()
	require.NoError(t, env.db.Create(&model.StockMove{
		ProductID: productID,
		Delta:     delta,
		Reason:    "seed",
		CreatedAt: at.UTC(),
	}).Error)
}

func TestReportService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	summary, err := env.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Summary{LowStockThreshold: 5}, summary)

	env.newProduct(t, "A", 0, 100)
	env.newProduct(t, "B", 5, 100)
	env.newProduct(t, "C", 6, 100)
	gone := env.newProduct(t, "D", 2, 100)
	require.NoError(t, env.inventory.DeleteProduct(ctx, tester, gone.ID))

	summary, err = env.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalProducts)
	assert.Equal(t, int64(11), summary.TotalStock)
	assert.Equal(t, int64(2), summary.LowStock)
}

func TestReportService_SummaryIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.newProduct(t, "A", 3, 100)

	_, err := env.reports.Summary(ctx)
	require.NoError(t, err)

	// a write that bypasses the services is not seen until invalidation
	require.NoError(t, env.db.Model(&model.Product{}).Where("name = ?", "A").Update("stock_qty", 50).Error)
	summary, err := env.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalStock)

	require.NoError(t, env.cache.Delete(ctx, summaryCacheKey))
	summary, err = env.reports.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), summary.TotalStock)
}

func TestReportService_SummaryWithoutCache(t *testing.T) {
	env := newTestEnv(t)
	reports := NewReportService(env.products, env.moves, nil, ReportOptions{LowStockThreshold: 10})
	env.newProduct(t, "A", 7, 100)

	summary, err := reports.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.LowStock)
	assert.Equal(t, 10, summary.LowStockThreshold)
}

func TestReportService_StockMovesWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	brt := time.FixedZone("BRT", -3*3600)
	svc := NewReportService(env.products, env.moves, nil, ReportOptions{Location: brt}).(*reportService)
	svc.now = func() time.Time { return time.Date(2026, 5, 20, 1, 30, 0, 0, time.UTC) } // 19 May 22:30 BRT

	var p model.Product
	require.NoError(t, env.db.Create(&model.Product{Name: "A", Unit: model.DefaultUnit}).Error)
	require.NoError(t, env.db.First(&p).Error)

	seedMoveAt(t, env, p.ID, 4, time.Date(2026, 5, 19, 12, 0, 0, 0, brt))
	seedMoveAt(t, env, p.ID, -1, time.Date(2026, 5, 19, 23, 59, 0, 0, brt))
	seedMoveAt(t, env, p.ID, 2, time.Date(2026, 5, 15, 0, 0, 0, 0, brt))
	seedMoveAt(t, env, p.ID, 9, time.Date(2026, 5, 12, 23, 59, 0, 0, brt)) // outside

	window, err := svc.StockMovesWindow(ctx, 7)
	require.NoError(t, err)
	require.Len(t, window, 7)
	assert.Equal(t, "2026-05-13", window[0].Day)
	assert.Equal(t, "2026-05-19", window[6].Day)
	for i := 1; i < len(window); i++ {
		assert.Less(t, window[i-1].Day, window[i].Day)
	}

	net := map[string]int{}
	for _, d := range window {
		net[d.Day] = d.Net
	}
	assert.Equal(t, 3, net["2026-05-19"])
	assert.Equal(t, 2, net["2026-05-15"])
	assert.Equal(t, 0, net["2026-05-13"])
	assert.Equal(t, 0, net["2026-05-16"])

	one, err := svc.StockMovesWindow(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []DayNet{{Day: "2026-05-19", Net: 3}}, one)
}

func TestReportService_StockMovesWindowEmptyAndInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	window, err := env.reports.StockMovesWindow(ctx, 30)
	require.NoError(t, err)
	require.Len(t, window, 30)
	for _, d := range window {
		assert.Zero(t, d.Net)
	}

	_, err = env.reports.StockMovesWindow(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = env.reports.StockMovesWindow(ctx, maxWindowDays+1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestReportService_StockMovesRange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.newProduct(t, "A", 0, 100)

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedMoveAt(t, env, p.ID, 1, base.Add(-time.Minute))
	seedMoveAt(t, env, p.ID, 2, base)
	seedMoveAt(t, env, p.ID, 3, base.Add(23*time.Hour))
	seedMoveAt(t, env, p.ID, 4, base.Add(24*time.Hour))

	start, end, err := env.reports.DayRange("2026-03-10", "2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	rows, err := env.reports.StockMovesRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 3, rows[0].Delta)
	assert.Equal(t, 2, rows[1].Delta)
	assert.Equal(t, "A", rows[0].ProductName)

	_, err = env.reports.StockMovesRange(ctx, end, start)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, _, err = env.reports.DayRange("2026-03-10", "2026-03-09")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, _, err = env.reports.DayRange("10/03/2026", "2026-03-09")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestReportService_StockMovesRangeIsCapped(t *testing.T) {
	env := newTestEnv(t)
	reports := NewReportService(env.products, env.moves, nil, ReportOptions{RangeLimit: 3})
	p := env.newProduct(t, "A", 0, 100)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedMoveAt(t, env, p.ID, i+1, base.Add(time.Duration(i)*time.Hour))
	}

	rows, err := reports.StockMovesRange(context.Background(), base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 5, rows[0].Delta)
}

func TestReportService_LedgerCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.newProduct(t, "A", 4, 100)
	env.newProduct(t, "B", 2, 100)

	mismatches, err := env.reports.LedgerCheck(ctx)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", a.ID).Update("stock_qty", 9).Error)
	mismatches, err = env.reports.LedgerCheck(ctx)
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, a.ID, mismatches[0].ProductID)
	assert.Equal(t, 9, mismatches[0].StockQty)
	assert.Equal(t, 4, mismatches[0].LedgerSum)

	job := NewReconcileJob(env.reports, "")
	assert.Equal(t, 1, job.Run(ctx))
}

func TestReportService_InventoryWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p, err := env.inventory.CreateProduct(ctx, tester, &ProductRequest{
		Name: "Coffee", SKU: strPtr("CAF"), Price: 1990, InitialStock: 2,
	})
	require.NoError(t, err)

	buf, err := env.reports.InventoryWorkbook(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(inventorySheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Coffee", rows[1][1])
	assert.Equal(t, "CAF", rows[1][2])
	assert.Equal(t, "2", rows[1][5])
	assert.Equal(t, "19.9", rows[1][6])
	assert.Equal(t, "yes", rows[1][8])
	assert.NotZero(t, p.ID)
}

func TestReportService_StockMovesWorkbook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.newProduct(t, "Tea", 0, 100)
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	seedMoveAt(t, env, p.ID, 6, base)

	buf, err := env.reports.StockMovesWorkbook(ctx, base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(movesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-02-01 10:00:00", rows[1][1])
	assert.Equal(t, "Tea", rows[1][3])
	assert.Equal(t, "6", rows[1][4])

	_, err = env.reports.StockMovesWorkbook(ctx, base, base)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
