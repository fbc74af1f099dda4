package sheet

import (
	"errors"
	"fmt"

	"github.com/iurnickita/wbsales/internal/model"
)

// ErrMissingColumn - общая ошибка для MissingColumnError.
var ErrMissingColumn = errors.New("missing column")

// MissingColumnError - в заголовке нет обязательной колонки.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Detect определяет тип документа по строке заголовков.
// Лишние колонки не мешают. Если не подошла ни одна схема, ошибка называет первую
// недостающую колонку той схемы, где их не хватает меньше (при равенстве - сборочных заданий).
func Detect(headers []string) (model.DocType, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var closest []string
	for i, s := range schemas {
		var missing []string
		for _, h := range s.RequiredHeaders() {
			if !present[h] {
				missing = append(missing, h)
			}
		}
		if len(missing) == 0 {
			return s.Type, nil
		}
		if i == 0 || len(missing) < len(closest) {
			closest = missing
		}
	}
	return "", &MissingColumnError{Column: closest[0]}
}

// ColumnMap сопоставляет заголовки схемы номерам колонок (с нуля).
// Если заголовок повторяется, берется первое вхождение. Необязательные колонки,
// которых нет в файле, в карту не попадают.
func (s *Schema) ColumnMap(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i := len(headers) - 1; i >= 0; i-- {
		index[headers[i]] = i
	}

	cols := make(map[string]int, len(s.Columns))
	for _, c := range s.Columns {
		idx, ok := index[c.Header]
		if !ok {
			if c.Required {
				return nil, &MissingColumnError{Column: c.Header}
			}
			continue
		}
		cols[c.Header] = idx
	}
	return cols, nil
}
