package service

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/store"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ParseListQuery разбирает параметры списка из строки запроса.
// Все ошибки собираются в один ValidationError с сообщением на каждое поле.
func ParseListQuery(values url.Values) (model.ListQuery, error) {
	query := model.ListQuery{
		Page:    1,
		PerPage: defaultPerPage,
		Search:  strings.TrimSpace(values.Get("search")),
		Status:  strings.TrimSpace(values.Get("status")),
	}
	verr := newValidationError()

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			verr.add("page", "must be an integer not less than 1")
		} else {
			query.Page = n
		}
	}

	if v := values.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPerPage {
			verr.add("per_page", "must be an integer between 1 and 100")
		} else {
			query.PerPage = n
		}
	}

	query.DateFrom = parseQueryDate(values, "date_from", verr)
	query.DateTo = parseQueryDate(values, "date_to", verr)
	if query.DateFrom != nil && query.DateTo != nil && query.DateTo.Before(*query.DateFrom) {
		verr.add("date_to", "must not be before date_from")
	}

	if v := values.Get("sort_by"); v != "" {
		if !store.SortColumns[v] {
			verr.add("sort_by", "unknown sort column")
		} else {
			query.SortBy = v
		}
	}

	switch v := strings.ToLower(values.Get("sort_dir")); v {
	case "":
	case string(model.SortAsc), string(model.SortDesc):
		query.SortDir = model.SortDir(v)
	default:
		verr.add("sort_dir", "must be asc or desc")
	}

	if verr.empty() {
		return query, nil
	}
	return query, verr
}

func parseQueryDate(values url.Values, key string, verr *ValidationError) *time.Time {
	v := values.Get(key)
	if v == "" {
		return nil
	}
	d, err := time.Parse(time.DateOnly, v)
	if err != nil {
		verr.add(key, "must be a date in YYYY-MM-DD format")
		return nil
	}
	return &d
}
