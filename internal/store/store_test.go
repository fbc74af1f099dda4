package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/store/config"
)

func TestBuildListQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     model.ListQuery
		wantCount string
		wantPage  string
		wantArgs  []any
	}{
		{
			name:      "defaults",
			query:     model.ListQuery{},
			wantCount: "SELECT count(*) FROM sales",
			wantPage:  "SELECT id, barcode FROM sales ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2",
			wantArgs:  []any{},
		},
		{
			name:      "search reuses placeholder",
			query:     model.ListQuery{Page: 3, PerPage: 10, Search: "abc", SortBy: "date", SortDir: model.SortAsc},
			wantCount: "SELECT count(*) FROM sales WHERE (barcode ILIKE $1 OR mp_article ILIKE $1 OR name ILIKE $1 OR warehouse ILIKE $1)",
			wantPage: "SELECT id, barcode FROM sales" +
				" WHERE (barcode ILIKE $1 OR mp_article ILIKE $1 OR name ILIKE $1 OR warehouse ILIKE $1)" +
				" ORDER BY date ASC, id ASC LIMIT $2 OFFSET $3",
			wantArgs: []any{"%abc%"},
		},
		{
			name:      "all filters",
			query:     model.ListQuery{Status: model.StatusReturned, DateFrom: &from, DateTo: &to, SortBy: "payout"},
			wantCount: "SELECT count(*) FROM sales WHERE status = $1 AND date >= $2 AND date <= $3",
			wantPage: "SELECT id, barcode FROM sales WHERE status = $1 AND date >= $2 AND date <= $3" +
				" ORDER BY payout DESC, id DESC LIMIT $4 OFFSET $5",
			wantArgs: []any{model.StatusReturned, from, to},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := buildListQuery("sales", []string{"id", "barcode"}, tt.query)
			require.NoError(t, err)
			require.Equal(t, tt.wantCount, q.count)
			require.Equal(t, tt.wantPage, q.page)
			require.ElementsMatch(t, tt.wantArgs, q.countArgs)
			require.Len(t, q.pageArgs, len(tt.wantArgs)+2)
		})
	}
}

func TestBuildListQueryOffset(t *testing.T) {
	q, err := buildListQuery("orders", []string{"id"}, model.ListQuery{Page: 3, PerPage: 10})
	require.NoError(t, err)
	require.Equal(t, []any{10, 20}, q.pageArgs)
	require.Equal(t, model.Sort{By: "created_at", Dir: model.SortDesc}, q.sort)
}

func TestBuildListQuerySortColumn(t *testing.T) {
	_, err := buildListQuery("orders", []string{"id"}, model.ListQuery{SortBy: "password_hash; --"})
	require.ErrorIs(t, err, ErrSortColumn)
}

func TestPagination(t *testing.T) {
	require.Equal(t, model.Pagination{Total: 0, PerPage: 20, CurrentPage: 1, LastPage: 1}, pagination(0, 0, 0))
	require.Equal(t, model.Pagination{Total: 41, PerPage: 20, CurrentPage: 2, LastPage: 3}, pagination(41, 2, 20))
	require.Equal(t, model.Pagination{Total: 40, PerPage: 20, CurrentPage: 5, LastPage: 2}, pagination(40, 5, 20))
}

// testStore подключается к базе из DATABASE_URI; без нее тест пропускается.
func testStore(t *testing.T) Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		t.Skip("DATABASE_URI is not set")
	}
	s, err := NewStore(config.Config{DBDsn: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T {
	return &v
}

func TestStoreAuth(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	login := "user-" + uuid.NewString()

	userCode, err := s.AuthRegister(ctx, login, "hash")
	require.NoError(t, err)

	_, err = s.AuthRegister(ctx, login, "other")
	require.ErrorIs(t, err, ErrAlreadyExists)

	gotCode, hash, err := s.AuthGetUser(ctx, login)
	require.NoError(t, err)
	require.Equal(t, userCode, gotCode)
	require.Equal(t, "hash", hash)

	_, _, err = s.AuthGetUser(ctx, "missing-"+uuid.NewString())
	require.ErrorIs(t, err, ErrNoRows)
}

func TestStoreOrders(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	barcode := uuid.NewString()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	order := model.Order{
		Record: model.Record{
			Barcode:    barcode,
			MPArticle:  ptr("A-1"),
			Name:       ptr("Футболка"),
			Warehouse:  ptr("Коледино"),
			Date:       date,
			Status:     ptr(model.StatusPurchased),
			StatusDate: &date,
		},
		OrderDetails: model.OrderDetails{
			Size:  ptr("M"),
			Price: ptr(1250.5),
		},
	}

	added, err := s.OrderInsertIgnore(ctx, order)
	require.NoError(t, err)
	require.True(t, added)

	// повторная вставка не меняет заказ
	dup := order
	dup.Name = ptr("Другое")
	added, err = s.OrderInsertIgnore(ctx, dup)
	require.NoError(t, err)
	require.False(t, added)

	got, err := s.OrderGetByBarcode(ctx, barcode)
	require.NoError(t, err)
	require.Equal(t, "Футболка", *got.Name)
	require.Equal(t, 1250.5, *got.Price)
	require.Nil(t, got.Delivery)

	err = s.OrderApplySale(ctx, got.ID, model.Record{
		Barcode:  barcode,
		Delivery: ptr(100.0),
		Payout:   ptr(900.0),
		Status:   ptr(model.StatusReturned),
	})
	require.NoError(t, err)

	got, err = s.OrderGetByBarcode(ctx, barcode)
	require.NoError(t, err)
	require.Equal(t, 100.0, *got.Delivery)
	require.Equal(t, 900.0, *got.Payout)
	require.Equal(t, model.StatusReturned, *got.Status)
	require.Equal(t, "Коледино", *got.Warehouse)

	page, err := s.OrderList(ctx, model.ListQuery{Page: 1, PerPage: 5, Search: barcode})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 1, page.Pagination.Total)

	_, err = s.OrderGetByBarcode(ctx, "missing-"+uuid.NewString())
	require.ErrorIs(t, err, ErrNoRows)
}

func TestStoreSales(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	barcode := uuid.NewString()

	sale := model.Sale{Record: model.Record{
		Barcode: barcode,
		Date:    time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		Payout:  ptr(500.0),
		Status:  ptr(model.StatusSold),
	}}

	added, err := s.SaleInsertIgnore(ctx, sale)
	require.NoError(t, err)
	require.True(t, added)

	added, err = s.SaleInsertIgnore(ctx, sale)
	require.NoError(t, err)
	require.False(t, added)

	page, err := s.SaleList(ctx, model.ListQuery{Search: barcode, Status: model.StatusSold})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 500.0, *page.Items[0].Payout)

	// крупные суммы помещаются в колонку
	big := model.Sale{Record: model.Record{
		Barcode:  uuid.NewString(),
		Date:     sale.Date,
		Payout:   ptr(12345678901.25),
		Delivery: ptr(98765432109.5),
	}}
	added, err = s.SaleInsertIgnore(ctx, big)
	require.NoError(t, err)
	require.True(t, added)

	page, err = s.SaleList(ctx, model.ListQuery{Search: big.Barcode})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 12345678901.25, *page.Items[0].Payout)
	require.Equal(t, 98765432109.5, *page.Items[0].Delivery)
}
