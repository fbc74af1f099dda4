package store

import (
	"fmt"
	"strings"

	"github.com/iurnickita/wbsales/internal/model"
)

// SortColumns - колонки, по которым разрешена сортировка списков.
var SortColumns = map[string]bool{
	"id":          true,
	"barcode":     true,
	"mp_article":  true,
	"name":        true,
	"warehouse":   true,
	"date":        true,
	"status":      true,
	"status_date": true,
	"delivery":    true,
	"payout":      true,
	"created_at":  true,
}

// listQuery - запросы страницы списка и общего количества строк.
type listQuery struct {
	count     string
	countArgs []any
	page      string
	pageArgs  []any
	sort      model.Sort
}

func buildListQuery(table string, columns []string, q model.ListQuery) (listQuery, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	if !SortColumns[sortBy] {
		return listQuery{}, fmt.Errorf("%w: %s", ErrSortColumn, sortBy)
	}
	sortDir, dir := model.SortDesc, "DESC"
	if q.SortDir == model.SortAsc {
		sortDir, dir = model.SortAsc, "ASC"
	}

	var (
		where []string
		args  []any
	)
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(barcode ILIKE $%[1]d OR mp_article ILIKE $%[1]d OR name ILIKE $%[1]d OR warehouse ILIKE $%[1]d)", n))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.DateFrom != nil {
		args = append(args, *q.DateFrom)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if q.DateTo != nil {
		args = append(args, *q.DateTo)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	pageArgs := append(append([]any{}, args...), perPage, (page-1)*perPage)
	return listQuery{
		count:     "SELECT count(*) FROM " + table + whereSQL,
		countArgs: args,
		page: fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d",
			strings.Join(columns, ", "), table, whereSQL, sortBy, dir, dir, len(args)+1, len(args)+2),
		pageArgs: pageArgs,
		sort:     model.Sort{By: sortBy, Dir: sortDir},
	}, nil
}

func pagination(total, page, perPage int) model.Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return model.Pagination{
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    lastPage,
	}
}
