package store

import (
	"context"
	"fmt"

	"github.com/iurnickita/wbsales/internal/model"
)

var saleColumns = []string{
	"id", "barcode", "mp_article", "name", "warehouse", "date", "status", "status_date", "delivery", "payout",
	"created_at", "updated_at",
}

func scanSale(row scanner) (model.Sale, error) {
	var s model.Sale
	err := row.Scan(&s.ID, &s.Barcode, &s.MPArticle, &s.Name, &s.Warehouse, &s.Date, &s.Status, &s.StatusDate,
		&s.Delivery, &s.Payout, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// SaleInsertIgnore записывает продажу, для которой не нашлось заказа.
// Продажа с тем же штрих-кодом, записанная раньше, не изменяется.
func (store *store) SaleInsertIgnore(ctx context.Context, sale model.Sale) (bool, error) {
	res, err := store.database.ExecContext(ctx,
		"INSERT INTO sales (barcode, mp_article, name, warehouse, date, status, status_date, delivery, payout,"+
			" created_at, updated_at)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())"+
			" ON CONFLICT (barcode) DO NOTHING",
		sale.Barcode,
		sale.MPArticle,
		sale.Name,
		sale.Warehouse,
		sale.Date,
		sale.Status,
		sale.StatusDate,
		sale.Delivery,
		sale.Payout)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (store *store) SaleList(ctx context.Context, query model.ListQuery) (model.SalePage, error) {
	q, err := buildListQuery("sales", saleColumns, query)
	if err != nil {
		return model.SalePage{}, err
	}

	var total int
	if err := store.database.QueryRowContext(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return model.SalePage{}, err
	}

	rows, err := store.database.QueryContext(ctx, q.page, q.pageArgs...)
	if err != nil {
		return model.SalePage{}, err
	}
	defer rows.Close()

	sales := []model.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return model.SalePage{}, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return model.SalePage{}, err
	}

	return model.SalePage{
		Items:      sales,
		Pagination: pagination(total, query.Page, query.PerPage),
		Sort:       q.sort,
	}, nil
}
