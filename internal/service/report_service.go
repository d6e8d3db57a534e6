package service

import (
	"bytes"
	"context"
	"time"

	"erp-pdv-api/internal/repository"
	"erp-pdv-api/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const (
	dayLayout      = "2006-01-02"
	maxWindowDays  = 366
	summaryFlightK = "summary"
)

type ReportService interface {
	Summary(ctx context.Context) (*Summary, error)
	StockMovesWindow(ctx context.Context, days int) ([]DayNet, error)
	StockMovesRange(ctx context.Context, start, end time.Time) ([]repository.StockMoveRow, error)
	DayRange(startDay, endDay string) (time.Time, time.Time, error)
	LedgerCheck(ctx context.Context) ([]repository.LedgerMismatch, error)
	InventoryWorkbook(ctx context.Context) (*bytes.Buffer, error)
	StockMovesWorkbook(ctx context.Context, start, end time.Time) (*bytes.Buffer, error)
}

type Summary struct {
	TotalProducts     int64 `json:"total_products"`
	TotalStock        int64 `json:"total_stock"`
	LowStock          int64 `json:"low_stock"`
	LowStockThreshold int   `json:"low_stock_threshold"`
}

// DayNet is the net stock change of one calendar day.
type DayNet struct {
	Day string `json:"day"`
	Net int    `json:"net"`
}

type ReportOptions struct {
	LowStockThreshold int
	Location          *time.Location
	RangeLimit        int
}

type reportService struct {
	productRepo repository.ProductRepository
	moveRepo    repository.StockMoveRepository
	cache       Cache
	opts        ReportOptions
	sfGroup     singleflight.Group
	now         func() time.Time
}

func NewReportService(
	productRepo repository.ProductRepository,
	moveRepo repository.StockMoveRepository,
	cache Cache,
	opts ReportOptions,
) ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.RangeLimit <= 0 {
		opts.RangeLimit = 500
	}
	return &reportService{
		productRepo: productRepo,
		moveRepo:    moveRepo,
		cache:       cache,
		opts:        opts,
		now:         time.Now,
	}
}

// Summary is served cache-aside. Concurrent misses share one query.
func (s *reportService) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		found, err := s.cache.Get(ctx, summaryCacheKey, &cached)
		if err != nil {
			logger.Warn("summary cache read failed: %v", err)
		}
		if found {
			return &cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(summaryFlightK, func() (interface{}, error) {
		stats, err := s.productRepo.GetStats(ctx, s.opts.LowStockThreshold)
		if err != nil {
			return nil, err
		}
		return &Summary{
			TotalProducts:     stats.TotalProducts,
			TotalStock:        stats.TotalStock,
			LowStock:          stats.LowStock,
			LowStockThreshold: s.opts.LowStockThreshold,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	summary := val.(*Summary)

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey, summary); err != nil {
			logger.Warn("summary cache write failed: %v", err)
		}
	}
	return summary, nil
}

// StockMovesWindow returns exactly days entries, oldest first, ending today in
// the report location.
func (s *reportService) StockMovesWindow(ctx context.Context, days int) ([]DayNet, error) {
	if days <= 0 || days > maxWindowDays {
		return nil, newError(ErrInvalidRequest, "days must be between 1 and %d", maxWindowDays)
	}

	loc := s.opts.Location
	today := s.now().In(loc)
	first := time.Date(today.Year(), today.Month(), today.Day()-(days-1), 0, 0, 0, 0, loc)
	end := first.AddDate(0, 0, days)

	points, err := s.moveRepo.FindDeltasBetween(ctx, first.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	net := make(map[string]int, days)
	for _, p := range points {
		net[p.CreatedAt.In(loc).Format(dayLayout)] += p.Delta
	}

	window := make([]DayNet, days)
	for i := range window {
		day := first.AddDate(0, 0, i).Format(dayLayout)
		window[i] = DayNet{Day: day, Net: net[day]}
	}
	return window, nil
}

func (s *reportService) StockMovesRange(ctx context.Context, start, end time.Time) ([]repository.StockMoveRow, error) {
	if !end.After(start) {
		return nil, newError(ErrInvalidRequest, "end must be after start")
	}
	return s.moveRepo.FindBetween(ctx, start.UTC(), end.UTC(), s.opts.RangeLimit)
}

// DayRange turns two inclusive YYYY-MM-DD dates into the half-open interval
// [start 00:00, end+1 00:00) in the report location.
func (s *reportService) DayRange(startDay, endDay string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dayLayout, startDay, s.opts.Location)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrInvalidRequest, "start must be a YYYY-MM-DD date")
	}
	end, err := time.ParseInLocation(dayLayout, endDay, s.opts.Location)
	if err != nil {
		return time.Time{}, time.Time{}, newError(ErrInvalidRequest, "end must be a YYYY-MM-DD date")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, newError(ErrInvalidRequest, "end must not be before start")
	}
	return start, end.AddDate(0, 0, 1), nil
}

func (s *reportService) LedgerCheck(ctx context.Context) ([]repository.LedgerMismatch, error) {
	return s.moveRepo.FindLedgerMismatches(ctx)
}
