package sheet

import (
	"github.com/iurnickita/wbsales/internal/convert"
	"github.com/iurnickita/wbsales/internal/model"
)

// Extract собирает значения строки по карте колонок.
// Ячейки за концом строки считаются пустыми.
func Extract(cells []string, cols map[string]int) Row {
	row := make(Row, len(cols))
	for header, idx := range cols {
		if idx < len(cells) {
			row[header] = cells[idx]
		} else {
			row[header] = ""
		}
	}
	return row
}

// Transform превращает строку в запись.
// Возвращает false, если строка пустая или дата события не разбирается:
// такие строки пропускаются, а не считаются ошибкой файла.
// Для сборочных заданий статус и суммы не заполняются, для продаж - наименование и склад.
func (s *Schema) Transform(row Row) (*model.Order, bool) {
	empty := true
	for _, v := range row {
		if convert.Text(v) != "" {
			empty = false
			break
		}
	}
	if empty {
		return nil, false
	}

	date, ok := convert.ParseDate(row[s.DateColumn])
	if !ok {
		return nil, false
	}

	order := &model.Order{}
	order.Date = date
	statusDate := date
	order.StatusDate = &statusDate

	for _, c := range s.Columns {
		if c.assign == nil {
			continue
		}
		c.assign(order, row[c.Header])
	}
	return order, true
}
