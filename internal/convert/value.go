package convert

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iurnickita/wbsales/internal/model"
)

// Варианты минуса и тире, которые встречаются в денежных колонках
var minusReplacer = strings.NewReplacer(
	",", ".",
	"−", "-", // минус
	"‒", "-",
	"–", "-",
	"—", "-",
	"―", "-",
	"﹣", "-",
	"－", "-",
)

// Ключевые слова статусов. Проверяются по порядку, ищется вхождение подстроки
var statusKeywords = []struct {
	keyword string
	status  string
}{
	{"выкуп", model.StatusPurchased},
	{"возврат", model.StatusReturned},
	{"реализация", model.StatusSold},
}

var (
	trueWords  = map[string]bool{"да": true, "yes": true, "true": true, "1": true, "+": true}
	falseWords = map[string]bool{"нет": true, "no": true, "false": true, "0": true, "-": true}
)

// Text приводит значение ячейки к строке без обрезки пробелов.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "1"
		}
		return ""
	case time.Time:
		return val.Format(time.DateOnly)
	default:
		return ""
	}
}

// ParseDecimal разбирает денежное значение: "1 234,56" -> 1234.56.
func ParseDecimal(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	}

	s := Text(v)
	if s == "" {
		return 0, false
	}
	if trimmed := strings.TrimSpace(s); isNumeric(trimmed) {
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = minusReplacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if !isNumeric(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NormalizeStatus сводит обоснование оплаты к purchased/returned/sold.
// Незнакомый статус возвращается без изменений, пустой - не возвращается.
func NormalizeStatus(status string) (string, bool) {
	s := strings.TrimSpace(cases.Lower(language.Russian).String(status))
	if s == "" {
		return "", false
	}
	for _, kw := range statusKeywords {
		if strings.Contains(s, kw.keyword) {
			return kw.status, true
		}
	}
	return status, true
}

// ParseBool понимает да/нет, yes/no, true/false, 1/0, +/-.
func ParseBool(v any) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	s := strings.TrimSpace(cases.Lower(language.Russian).String(Text(v)))
	switch {
	case trueWords[s]:
		return true, true
	case falseWords[s]:
		return false, true
	}
	return false, false
}
