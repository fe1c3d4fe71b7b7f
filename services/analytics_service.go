package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/truong-nd12/milktea-order-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PeakHourNone is reported when there are no orders in range
const PeakHourNone = "none"

// DefaultTopSellingLimit bounds topSellingItems when the caller gives none
const DefaultTopSellingLimit = 10

// DailyBucket summarizes one calendar date (UTC)
type DailyBucket struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// HourlyBucket summarizes one hour-of-day across the whole range
type HourlyBucket struct {
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// StatusBreakdownEntry reports one observed status with its share of orders
type StatusBreakdownEntry struct {
	Status     models.OrderStatus `json:"status"`
	Count      int                `json:"count"`
	Percentage float64            `json:"percentage"`
}

// TopSellingEntry aggregates one product's sales over the filtered range
type TopSellingEntry struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// Report is the full analytics payload. All values degrade to zero or the
// "none" sentinel on empty input; aggregation never fails for lack of data.
type Report struct {
	TotalOrders       int                    `json:"total_orders"`
	TotalRevenue      float64                `json:"total_revenue"`
	AverageOrderValue float64                `json:"average_order_value"`
	OrdersByDay       []DailyBucket          `json:"orders_by_day"`
	OrdersByHour      []HourlyBucket         `json:"orders_by_hour"`
	PeakHour          string                 `json:"peak_hour"`
	StatusBreakdown   []StatusBreakdownEntry `json:"status_breakdown"`
	TopSellingItems   []TopSellingEntry      `json:"top_selling_items"`
}

// AnalyticsService aggregates the order history into business statistics.
// Reads are snapshot-based: orders committed while a report runs may be
// missing from it, which is acceptable.
type AnalyticsService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalyticsService creates an aggregator on the given database
func NewAnalyticsService(db *gorm.DB, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// GetReport aggregates all orders whose creation time falls within
// [start, end], both endpoints inclusive. Nil bounds are open.
func (s *AnalyticsService) GetReport(start, end *time.Time) (*Report, error) {
	orders, err := s.ordersInRange(start, end)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TotalOrders:     len(orders),
		PeakHour:        PeakHourNone,
		OrdersByDay:     []DailyBucket{},
		OrdersByHour:    []HourlyBucket{},
		StatusBreakdown: []StatusBreakdownEntry{},
		TopSellingItems: []TopSellingEntry{},
	}

	dayBuckets := make(map[string]*DailyBucket)
	hourCounts := make(map[int]int)
	statusCounts := make(map[models.OrderStatus]int)

	for _, order := range orders {
		report.TotalRevenue += order.FinalAmount

		created := order.CreatedAt.UTC()
		day := created.Format("2006-01-02")
		if bucket, ok := dayBuckets[day]; ok {
			bucket.Count++
			bucket.Revenue += order.FinalAmount
		} else {
			dayBuckets[day] = &DailyBucket{Date: day, Count: 1, Revenue: order.FinalAmount}
		}

		hourCounts[created.Hour()]++
		statusCounts[order.Status]++
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalRevenue / float64(report.TotalOrders)
	}

	for _, bucket := range dayBuckets {
		report.OrdersByDay = append(report.OrdersByDay, *bucket)
	}
	sort.Slice(report.OrdersByDay, func(i, j int) bool {
		return report.OrdersByDay[i].Date < report.OrdersByDay[j].Date
	})

	for hour, count := range hourCounts {
		report.OrdersByHour = append(report.OrdersByHour, HourlyBucket{Hour: hour, Count: count})
	}
	sort.Slice(report.OrdersByHour, func(i, j int) bool {
		return report.OrdersByHour[i].Hour < report.OrdersByHour[j].Hour
	})

	// Peak hour: highest count wins, lowest hour breaks ties. Buckets are
	// already sorted ascending by hour, so a strict > keeps the earliest.
	peakCount := 0
	for _, bucket := range report.OrdersByHour {
		if bucket.Count > peakCount {
			peakCount = bucket.Count
			report.PeakHour = fmt.Sprintf("%d:00", bucket.Hour)
		}
	}

	for status, count := range statusCounts {
		report.StatusBreakdown = append(report.StatusBreakdown, StatusBreakdownEntry{
			Status:     status,
			Count:      count,
			Percentage: float64(count) / float64(report.TotalOrders) * 100,
		})
	}
	sort.Slice(report.StatusBreakdown, func(i, j int) bool {
		a, b := report.StatusBreakdown[i], report.StatusBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Status < b.Status
	})

	topSelling, err := s.topSellingForOrders(orders, DefaultTopSellingLimit)
	if err != nil {
		return nil, err
	}
	report.TopSellingItems = topSelling

	s.logger.Info("analytics report computed",
		zap.Int("total_orders", report.TotalOrders),
		zap.Float64("total_revenue", report.TotalRevenue))

	return report, nil
}

// GetTopSellingItems ranks products by quantity sold over the range.
// A limit below 1 falls back to the default of 10.
func (s *AnalyticsService) GetTopSellingItems(start, end *time.Time, limit int) ([]TopSellingEntry, error) {
	if limit < 1 {
		limit = DefaultTopSellingLimit
	}
	orders, err := s.ordersInRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.topSellingForOrders(orders, limit)
}

// ordersInRange loads the order snapshot the report is computed from
func (s *AnalyticsService) ordersInRange(start, end *time.Time) ([]models.Order, error) {
	query := s.db.Model(&models.Order{})
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at <= ?", *end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for aggregation: %w", err)
	}
	return orders, nil
}

// topSellingForOrders groups line items of the given orders by product,
// sums quantity and revenue, and ranks by quantity descending. Ties keep
// first-encountered product order (stable sort over id-ordered line items),
// so the ranking is deterministic. Each line item belongs to exactly one
// order, so nothing is counted twice.
func (s *AnalyticsService) topSellingForOrders(orders []models.Order, limit int) ([]TopSellingEntry, error) {
	if len(orders) == 0 {
		return []TopSellingEntry{}, nil
	}

	orderIDs := make([]uint, 0, len(orders))
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
	}

	var lines []models.LineItem
	err := s.db.
		Where("order_id IN ?", orderIDs).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for aggregation: %w", err)
	}

	entries := make([]*TopSellingEntry, 0)
	byProduct := make(map[uint]*TopSellingEntry)
	for _, line := range lines {
		entry, ok := byProduct[line.ProductID]
		if !ok {
			entry = &TopSellingEntry{ProductID: line.ProductID}
			byProduct[line.ProductID] = entry
			entries = append(entries, entry)
		}
		entry.Quantity += line.Quantity
		entry.Revenue += line.Subtotal()
	}

	if err := s.fillProductNames(byProduct); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Quantity > entries[j].Quantity
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	result := make([]TopSellingEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, *entry)
	}
	return result, nil
}

// fillProductNames resolves current product names for the ranked entries.
// A product deleted from the catalog simply keeps an empty name.
func (s *AnalyticsService) fillProductNames(byProduct map[uint]*TopSellingEntry) error {
	if len(byProduct) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}

	var products []models.Product
	if err := s.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return fmt.Errorf("failed to load product names: %w", err)
	}
	for _, product := range products {
		if entry, ok := byProduct[product.ID]; ok {
			entry.ProductName = product.Name
		}
	}
	return nil
}
