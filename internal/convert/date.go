// Package convert приводит значения ячеек выгрузок к типизированным значениям.
package convert

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Начало отсчета серийных дат Excel. Смещение на 30.12.1899 учитывает
// несуществующее 29.02.1900, так что даты совпадают с тем, что показывает Excel.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// 31.12.9999 - последняя дата, которую умеет Excel
const maxSerial = 2958465

// Форматы проверяются по порядку: ISO, д.м.г, д/м/г, м/д/г, д-м-г, г.м.д
var dateLayouts = []string{
	"2006-1-2",
	"2.1.2006",
	"2/1/2006",
	"1/2/2006",
	"2-1-2006",
	"2006.1.2",
}

var numericRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Последняя попытка - свободный разбор. К стандартным форматам jinzhu/now
// добавлены даты со временем в русской записи.
var freeText = &now.Config{
	WeekStartDay: time.Monday,
	TimeLocation: time.UTC,
	TimeFormats: append(append([]string{}, now.TimeFormats...),
		"2.1.2006 15:4:5",
		"2.1.2006 15:4",
		"2006-1-2T15:4:5",
		"2.1.2006, 15:4:5",
	),
}

// ParseDate возвращает дату без времени (UTC).
// Принимает time.Time, числа и числовые строки (серийные даты Excel) и текст.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return truncate(val), !val.IsZero()
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return truncate(*val), !val.IsZero()
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	}

	s := strings.TrimSpace(Text(v))
	if s == "" {
		return time.Time{}, false
	}
	if isNumeric(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, false
		}
		return fromSerial(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncate(t), true
		}
	}
	t, err := freeText.Parse(s)
	if err != nil {
		return time.Time{}, false
	}
	return truncate(t), true
}

// fromSerial отбрасывает дробную часть (время суток).
func fromSerial(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxSerial {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(f)), true
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func isNumeric(s string) bool {
	return numericRe.MatchString(s)
}
