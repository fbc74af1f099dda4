// Package sheet описывает колонки выгрузок маркетплейса: определяет тип
// документа по заголовкам и превращает строку таблицы в запись.
package sheet

import (
	"strings"

	"github.com/iurnickita/wbsales/internal/convert"
	"github.com/iurnickita/wbsales/internal/model"
)

// Row - значения одной строки по названию колонки.
type Row map[string]any

type assignFunc func(o *model.Order, v any)

// Column - колонка выгрузки: заголовок, обязательность и поле записи, куда пишется значение.
type Column struct {
	Header   string
	Required bool
	assign   assignFunc
}

// Schema - набор колонок одного типа документа.
type Schema struct {
	Type model.DocType
	// колонка с датой события; строка без разбираемой даты пропускается
	DateColumn string
	Columns    []Column
}

// Сборочные задания
var Orders = &Schema{
	Type:       model.DocTypeOrders,
	DateColumn: "Дата создания",
	Columns: []Column{
		{Header: "Дата создания", Required: true, assign: textField(func(o *model.Order) **string { return &o.CreationDate })},
		{Header: "Артикул Wildberries", Required: true, assign: textField(func(o *model.Order) **string { return &o.MPArticle })},
		{Header: "Наименование", Required: true, assign: textField(func(o *model.Order) **string { return &o.Name })},
		{Header: "Стикер", Required: true, assign: barcodeField},
		{Header: "Склад продавца", Required: true, assign: textField(func(o *model.Order) **string { return &o.Warehouse })},

		{Header: "№ задания", assign: textField(func(o *model.Order) **string { return &o.TaskNumber })},
		{Header: "QR-код поставщика", assign: textField(func(o *model.Order) **string { return &o.ProviderQR })},
		{Header: "Дата сканирования", assign: textField(func(o *model.Order) **string { return &o.ScanningDate })},
		{Header: "Размер", assign: textField(func(o *model.Order) **string { return &o.Size })},
		{Header: "Цвет", assign: textField(func(o *model.Order) **string { return &o.Color })},
		{Header: "Цена", assign: decimalField(func(o *model.Order) **float64 { return &o.Price })},
		{Header: "Валюта", assign: textField(func(o *model.Order) **string { return &o.Currency })},
		{Header: "Артикул продавца", assign: textField(func(o *model.Order) **string { return &o.SellerSKU })},
		{Header: "Дата доставки покупателю", assign: textField(func(o *model.Order) **string { return &o.DeliveryDateToCustomer })},
		{Header: "Статус задания", assign: textField(func(o *model.Order) **string { return &o.TaskStatus })},
		{Header: "Пункт назначения", assign: textField(func(o *model.Order) **string { return &o.Destination })},
		{Header: "ФИО покупателя", assign: textField(func(o *model.Order) **string { return &o.BuyersFullName })},
		{Header: "Телефон покупателя", assign: textField(func(o *model.Order) **string { return &o.BuyersPhoneNumber })},
		{Header: "Дата сканирования товара", assign: textField(func(o *model.Order) **string { return &o.ProductScanningDate })},
		{Header: "Стоимость приемки", assign: decimalField(func(o *model.Order) **float64 { return &o.AcceptanceCost })},
		{Header: "Время с момента заказа", assign: textField(func(o *model.Order) **string { return &o.TimeSinceOrder })},
		{Header: "Юр. лицо", assign: boolField(func(o *model.Order) **bool { return &o.LegalEntity })},
	},
}

// Отчет о реализации
var Sales = &Schema{
	Type:       model.DocTypeSales,
	DateColumn: "Дата продажи",
	Columns: []Column{
		{Header: "Дата продажи", Required: true},
		{Header: "ШК", Required: true, assign: barcodeField},
		{Header: "Код номенклатуры", Required: true, assign: textField(func(o *model.Order) **string { return &o.MPArticle })},
		{Header: "К перечислению Продавцу за реализованный Товар", Required: true, assign: decimalField(func(o *model.Order) **float64 { return &o.Payout })},
		{Header: "Услуги по доставке товара покупателю", Required: true, assign: decimalField(func(o *model.Order) **float64 { return &o.Delivery })},
		{Header: "Обоснование для оплаты", Required: true, assign: statusField},
	},
}

// Порядок важен: при определении типа сборочные задания проверяются первыми
var schemas = []*Schema{Orders, Sales}

// Lookup возвращает схему по типу документа.
func Lookup(docType model.DocType) (*Schema, bool) {
	for _, s := range schemas {
		if s.Type == docType {
			return s, true
		}
	}
	return nil, false
}

// RequiredHeaders - обязательные заголовки в порядке объявления.
func (s *Schema) RequiredHeaders() []string {
	var headers []string
	for _, c := range s.Columns {
		if c.Required {
			headers = append(headers, c.Header)
		}
	}
	return headers
}

func barcodeField(o *model.Order, v any) {
	o.Barcode = strings.TrimSpace(convert.Text(v))
}

func statusField(o *model.Order, v any) {
	if s, ok := convert.NormalizeStatus(convert.Text(v)); ok {
		o.Status = &s
	}
}

func textField(field func(o *model.Order) **string) assignFunc {
	return func(o *model.Order, v any) {
		if s := strings.TrimSpace(convert.Text(v)); s != "" {
			*field(o) = &s
		}
	}
}

func decimalField(field func(o *model.Order) **float64) assignFunc {
	return func(o *model.Order, v any) {
		if f, ok := convert.ParseDecimal(v); ok {
			*field(o) = &f
		}
	}
}

func boolField(field func(o *model.Order) **bool) assignFunc {
	return func(o *model.Order, v any) {
		if b, ok := convert.ParseBool(v); ok {
			*field(o) = &b
		}
	}
}
