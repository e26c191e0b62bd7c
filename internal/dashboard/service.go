package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

const (
	recentOrdersLimit = 5
	topProductsLimit  = 5
	salesByDayWindow  = 7
)

// TopProduct is one row of the best-sellers table.
type TopProduct struct {
	ProductID uuid.UUID
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// DaySales is one day of the trailing sales chart. Days without sales are
// present with zero values.
type DaySales struct {
	Date   string
	Orders int
	Total  decimal.Decimal
}

// Overview is the full dashboard payload, recomputed on every request.
type Overview struct {
	Counts       Counts
	TotalSales   decimal.Decimal
	RecentOrders []models.Order
	TopProducts  []TopProduct
	SalesByDay   []DaySales
}

// CustomerDetail joins a customer account with its order history.
type CustomerDetail struct {
	Customer *models.User
	Orders   []models.Order
}

// Service exposes the admin dashboard reads.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	ListCustomers(ctx context.Context, params pagination.Params, search string) (*CustomerPage, error)
	GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDetail, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the dashboard service. All dependencies are required.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard: repository is required")
	}
	return &service{repo: repo, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	sales, err := s.repo.FindSalesOrders(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.FindRecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	sold, err := s.repo.FindSoldItems(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, order := range sales {
		total = total.Add(order.Total)
	}

	return &Overview{
		Counts:       *counts,
		TotalSales:   total,
		RecentOrders: recent,
		TopProducts:  topProducts(sold, topProductsLimit),
		SalesByDay:   salesByDay(sales, s.now(), salesByDayWindow),
	}, nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params, search string) (*CustomerPage, error) {
	return s.repo.ListCustomers(ctx, params, search)
}

func (s *service) GetCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerDetail, error) {
	customer, err := s.repo.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.FindCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: customer, Orders: orders}, nil
}

// topProducts ranks sold lines by units, breaking ties by revenue.
func topProducts(items []models.OrderItem, limit int) []TopProduct {
	byProduct := map[uuid.UUID]*TopProduct{}
	for _, item := range items {
		entry, ok := byProduct[item.ProductID]
		if !ok {
			entry = &TopProduct{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
			byProduct[item.ProductID] = entry
		}
		entry.Units += item.Quantity
		entry.Revenue = entry.Revenue.Add(item.Total())
	}

	ranked := make([]TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Units != ranked[j].Units {
			return ranked[i].Units > ranked[j].Units
		}
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// salesByDay buckets revenue orders into the trailing window, oldest day
// first, filling quiet days with zeros.
func salesByDay(orders []models.Order, now time.Time, window int) []DaySales {
	today := now.Truncate(24 * time.Hour)
	buckets := make([]DaySales, window)
	index := map[string]int{}
	for i := 0; i < window; i++ {
		day := today.AddDate(0, 0, i-window+1).Format("2006-01-02")
		buckets[i] = DaySales{Date: day, Total: decimal.Zero}
		index[day] = i
	}

	for _, order := range orders {
		day := order.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			continue
		}
		buckets[i].Orders++
		buckets[i].Total = buckets[i].Total.Add(order.Total)
	}
	return buckets
}
