package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iurnickita/wbsales/internal/model"
)

var orderColumns = []string{
	"id", "barcode", "mp_article", "name", "warehouse", "date", "status", "status_date", "delivery", "payout",
	"task_number", "provider_qr", "creation_date", "scanning_date", "size", "color", "price", "currency",
	"seller_sku", "delivery_date_to_customer", "task_status", "destination", "buyers_full_name",
	"buyers_phone_number", "product_scanning_date", "acceptance_cost", "time_since_order", "legal_entity",
	"created_at", "updated_at",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.Barcode, &o.MPArticle, &o.Name, &o.Warehouse, &o.Date, &o.Status, &o.StatusDate,
		&o.Delivery, &o.Payout,
		&o.TaskNumber, &o.ProviderQR, &o.CreationDate, &o.ScanningDate, &o.Size, &o.Color, &o.Price, &o.Currency,
		&o.SellerSKU, &o.DeliveryDateToCustomer, &o.TaskStatus, &o.Destination, &o.BuyersFullName,
		&o.BuyersPhoneNumber, &o.ProductScanningDate, &o.AcceptanceCost, &o.TimeSinceOrder, &o.LegalEntity,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// OrderInsertIgnore добавляет заказ, если заказа с таким штрих-кодом еще нет.
// Существующий заказ не изменяется; false - строка не добавлена.
func (store *store) OrderInsertIgnore(ctx context.Context, order model.Order) (bool, error) {
	res, err := store.database.ExecContext(ctx,
		"INSERT INTO orders ("+strings.Join(orderColumns[1:len(orderColumns)-2], ", ")+", created_at, updated_at)"+
			" VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,"+
			" $19, $20, $21, $22, $23, $24, $25, $26, $27, now(), now())"+
			" ON CONFLICT (barcode) DO NOTHING",
		order.Barcode,
		order.MPArticle,
		order.Name,
		order.Warehouse,
		order.Date,
		order.Status,
		order.StatusDate,
		order.Delivery,
		order.Payout,
		order.TaskNumber,
		order.ProviderQR,
		order.CreationDate,
		order.ScanningDate,
		order.Size,
		order.Color,
		order.Price,
		order.Currency,
		order.SellerSKU,
		order.DeliveryDateToCustomer,
		order.TaskStatus,
		order.Destination,
		order.BuyersFullName,
		order.BuyersPhoneNumber,
		order.ProductScanningDate,
		order.AcceptanceCost,
		order.TimeSinceOrder,
		order.LegalEntity)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (store *store) OrderGetByBarcode(ctx context.Context, barcode string) (model.Order, error) {
	row := store.database.QueryRowContext(ctx,
		"SELECT "+strings.Join(orderColumns, ", ")+
			" FROM orders"+
			" WHERE barcode = $1",
		barcode)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Order{}, ErrNoRows
		}
		return model.Order{}, err
	}
	return order, nil
}

// OrderApplySale переносит в заказ данные продажи: доставку, выплату и статус.
// Остальные поля заказа не меняются.
func (store *store) OrderApplySale(ctx context.Context, id int64, rec model.Record) error {
	_, err := store.database.ExecContext(ctx,
		"UPDATE orders"+
			" SET delivery = $1,"+
			"     payout = $2,"+
			"     status = $3,"+
			"     updated_at = now()"+
			" WHERE id = $4",
		rec.Delivery,
		rec.Payout,
		rec.Status,
		id)
	return err
}

func (store *store) OrderList(ctx context.Context, query model.ListQuery) (model.OrderPage, error) {
	q, err := buildListQuery("orders", orderColumns, query)
	if err != nil {
		return model.OrderPage{}, err
	}

	var total int
	if err := store.database.QueryRowContext(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return model.OrderPage{}, err
	}

	rows, err := store.database.QueryContext(ctx, q.page, q.pageArgs...)
	if err != nil {
		return model.OrderPage{}, err
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return model.OrderPage{}, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return model.OrderPage{}, err
	}

	return model.OrderPage{
		Items:      orders,
		Pagination: pagination(total, query.Page, query.PerPage),
		Sort:       q.sort,
	}, nil
}
