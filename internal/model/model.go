package model

import "time"

// Тип загружаемого документа

type DocType string

const (
	DocTypeOrders DocType = "orders"
	DocTypeSales  DocType = "sales"
)

// Статусы после нормализации. Неизвестные статусы сохраняются как есть

const (
	StatusPurchased = "purchased"
	StatusReturned  = "returned"
	StatusSold      = "sold"
)

// Barcode-заглушка, которую маркетплейс ставит вместо пустого значения
const BarcodePlaceholder = "-"

// Заказы и продажи

// Record - общая часть заказа и продажи.
type Record struct {
	Barcode    string     `json:"barcode"`
	MPArticle  *string    `json:"mp_article"`
	Name       *string    `json:"name"`
	Warehouse  *string    `json:"warehouse"`
	Date       time.Time  `json:"date"`
	Status     *string    `json:"status"`
	StatusDate *time.Time `json:"status_date"`
	Delivery   *float64   `json:"delivery"`
	Payout     *float64   `json:"payout"`
}

// ValidBarcode - штрих-код пригоден для записи.
func (r Record) ValidBarcode() bool {
	return r.Barcode != "" && r.Barcode != BarcodePlaceholder
}

// OrderDetails - описательные поля, которые есть только в выгрузке сборочных заданий.
type OrderDetails struct {
	TaskNumber             *string  `json:"task_number"`
	ProviderQR             *string  `json:"provider_qr"`
	CreationDate           *string  `json:"creation_date"`
	ScanningDate           *string  `json:"scanning_date"`
	Size                   *string  `json:"size"`
	Color                  *string  `json:"color"`
	Price                  *float64 `json:"price"`
	Currency               *string  `json:"currency"`
	SellerSKU              *string  `json:"seller_sku"`
	DeliveryDateToCustomer *string  `json:"delivery_date_to_customer"`
	TaskStatus             *string  `json:"task_status"`
	Destination            *string  `json:"destination"`
	BuyersFullName         *string  `json:"buyers_full_name"`
	BuyersPhoneNumber      *string  `json:"buyers_phone_number"`
	ProductScanningDate    *string  `json:"product_scanning_date"`
	AcceptanceCost         *float64 `json:"acceptance_cost"`
	TimeSinceOrder         *string  `json:"time_since_order"`
	LegalEntity            *bool    `json:"legal_entity"`
}

type Order struct {
	ID int64 `json:"id"`
	Record
	OrderDetails
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sale struct {
	ID int64 `json:"id"`
	Record
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Списки

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ListQuery - параметры выборки для списков заказов и продаж.
type ListQuery struct {
	Page     int
	PerPage  int
	Search   string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	SortDir  SortDir
}

type Pagination struct {
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Sort - примененная сортировка списка.
type Sort struct {
	By  string  `json:"by"`
	Dir SortDir `json:"dir"`
}

type OrderPage struct {
	Items      []Order
	Pagination Pagination
	Sort       Sort
}

type SalePage struct {
	Items      []Sale
	Pagination Pagination
	Sort       Sort
}

// Загрузка файлов

type FileStatus string

const (
	FileStatusPending    FileStatus = "pending"
	FileStatusProcessing FileStatus = "processing"
	FileStatusProcessed  FileStatus = "processed"
	FileStatusFailed     FileStatus = "failed"
)

// FileResult - итог обработки одного файла.
type FileResult struct {
	File   string     `json:"file"`
	Type   DocType    `json:"type,omitempty"`
	Status FileStatus `json:"status"`
	Rows   int        `json:"rows"`
	Error  string     `json:"error,omitempty"`
}

// ImportSummary - итог пакетной обработки.
type ImportSummary struct {
	Processed int          `json:"processed"`
	Failed    int          `json:"failed"`
	Details   []FileResult `json:"details"`
}
