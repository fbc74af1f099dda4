// Package importer загружает выгрузки маркетплейса из xlsx в базу.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/iurnickita/wbsales/internal/importer/config"
	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/sheet"
	"github.com/iurnickita/wbsales/internal/store"
)

type Importer interface {
	// ProcessAll обрабатывает все *.xlsx из каталога приема.
	// После отмены ctx новые файлы не начинаются
	ProcessAll(ctx context.Context) model.ImportSummary
	// ProcessUploads обрабатывает указанные файлы, уже лежащие в каталоге приема;
	// окончание UploadSuffix снимается перед загрузкой
	ProcessUploads(ctx context.Context, paths []string) model.ImportSummary
	// ProcessFile загружает один файл, не перемещая его
	ProcessFile(ctx context.Context, path string) (model.FileResult, error)
	ImportDir() string
}

// Store - операции хранилища, которые нужны загрузке.
type Store interface {
	OrderInsertIgnore(ctx context.Context, order model.Order) (bool, error)
	OrderGetByBarcode(ctx context.Context, barcode string) (model.Order, error)
	OrderApplySale(ctx context.Context, id int64, rec model.Record) error
	SaleInsertIgnore(ctx context.Context, sale model.Sale) (bool, error)
}

var ErrFileUnreadable = errors.New("file is not readable")

// UploadSuffix - окончание имени загруженного файла до начала его загрузки.
// ProcessAll такие файлы не берет.
const UploadSuffix = ".upload"

type importer struct {
	cfg       config.Config
	store     Store
	lifecycle *lifecycle
	zaplog    *zap.Logger
	// файлы обрабатываются строго по одному
	mu sync.Mutex
}

// NewImporter создает каталоги обработки. journal - журнал обработки файлов (logger.NewJournal).
func NewImporter(cfg config.Config, store Store, zaplog *zap.Logger, journal *zap.Logger) (Importer, error) {
	for _, dir := range []string{cfg.ImportDir, cfg.ProcessedDir, cfg.FailedDir, cfg.LogsDir} {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &importer{
		cfg:   cfg,
		store: store,
		lifecycle: &lifecycle{
			processedDir: cfg.ProcessedDir,
			failedDir:    cfg.FailedDir,
			journal:      journal,
		},
		zaplog: zaplog,
	}, nil
}

func (imp *importer) ImportDir() string {
	return imp.cfg.ImportDir
}

func (imp *importer) ProcessAll(ctx context.Context) model.ImportSummary {
	imp.mu.Lock()
	defer imp.mu.Unlock()

	files, err := filepath.Glob(filepath.Join(imp.cfg.ImportDir, "*.xlsx"))
	if err != nil {
		imp.zaplog.Error("scan import dir", zap.String("dir", imp.cfg.ImportDir), zap.Error(err))
	}
	return imp.processFiles(ctx, files, true)
}

func (imp *importer) ProcessUploads(ctx context.Context, paths []string) model.ImportSummary {
	imp.mu.Lock()
	defer imp.mu.Unlock()

	claimed := make([]string, 0, len(paths))
	for _, path := range paths {
		claimed = append(claimed, claim(path))
	}
	return imp.processFiles(ctx, claimed, false)
}

// claim снимает с загруженного файла окончание UploadSuffix.
func claim(path string) string {
	final, ok := strings.CutSuffix(path, UploadSuffix)
	if !ok {
		return path
	}
	if err := os.Rename(path, final); err != nil {
		return path
	}
	return final
}

// processFiles обрабатывает файлы по очереди. Отмена ctx останавливает очередь,
// но начатый файл доводится до конца; необработанные файлы остаются в каталоге приема.
// skipMissing пропускает файлы, которые уже забрал другой процесс.
func (imp *importer) processFiles(ctx context.Context, paths []string, skipMissing bool) model.ImportSummary {
	summary := model.ImportSummary{Details: []model.FileResult{}}
	fileCtx := context.WithoutCancel(ctx)
	for i, path := range paths {
		if ctx.Err() != nil {
			imp.zaplog.Warn("import interrupted", zap.Int("left", len(paths)-i), zap.Error(ctx.Err()))
			break
		}
		if skipMissing {
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				imp.zaplog.Info("file already taken", zap.String("file", path))
				continue
			}
		}

		res := imp.processOne(fileCtx, path)
		switch res.Status {
		case model.FileStatusProcessed:
			summary.Processed++
		case model.FileStatusFailed:
			summary.Failed++
		}
		summary.Details = append(summary.Details, res)
	}
	return summary
}

// processOne проводит файл до конечного состояния и перемещает его.
// Ошибка файла не прерывает обработку остальных.
func (imp *importer) processOne(ctx context.Context, path string) model.FileResult {
	imp.zaplog.Info("processing file", zap.String("file", path))

	res, err := imp.ProcessFile(ctx, path)
	if err != nil {
		res.Status = model.FileStatusFailed
		res.Error = err.Error()
		imp.lifecycle.failed(path, err)
		imp.zaplog.Warn("file failed", zap.String("file", path), zap.Error(err))
		return res
	}
	res.Status = model.FileStatusProcessed
	imp.lifecycle.processed(path, res.Rows)
	imp.zaplog.Info("file processed",
		zap.String("file", path),
		zap.String("type", string(res.Type)),
		zap.Int("rows", res.Rows))
	return res
}

func (imp *importer) ProcessFile(ctx context.Context, path string) (model.FileResult, error) {
	res := model.FileResult{File: filepath.Base(path), Status: model.FileStatusProcessing}

	rows, err := readSheet(path)
	if err != nil {
		return res, err
	}

	var headers []string
	if len(rows) > 0 {
		headers = make([]string, len(rows[0]))
		for i, h := range rows[0] {
			headers[i] = strings.TrimSpace(h)
		}
		rows = rows[1:]
	}

	docType, err := sheet.Detect(headers)
	if err != nil {
		return res, err
	}
	res.Type = docType

	schema, _ := sheet.Lookup(docType)
	cols, err := schema.ColumnMap(headers)
	if err != nil {
		return res, err
	}

	switch docType {
	case model.DocTypeOrders:
		res.Rows, err = imp.importOrders(ctx, rows, cols)
	case model.DocTypeSales:
		res.Rows, err = imp.importSales(ctx, rows, cols)
	}
	return res, err
}

// importOrders вставляет новые заказы и возвращает число реально добавленных строк.
// Из повторов штрих-кода внутри файла берется ПЕРВАЯ строка; заказ, который уже
// есть в базе (из прошлых файлов), не обновляется.
func (imp *importer) importOrders(ctx context.Context, rows [][]string, cols map[string]int) (int, error) {
	inserted := 0
	seen := make(map[string]bool)
	for i, cells := range rows {
		order, ok := sheet.Orders.Transform(sheet.Extract(cells, cols))
		if !ok || !order.ValidBarcode() || seen[order.Barcode] {
			continue
		}
		seen[order.Barcode] = true

		added, err := imp.store.OrderInsertIgnore(ctx, *order)
		if err != nil {
			return inserted, fmt.Errorf("row %d: %w", i+2, err)
		}
		if added {
			inserted++
		}
	}
	return inserted, nil
}

// importSales разносит продажи по заказам.
// В отличие от заказов, из повторов штрих-кода берется ПОСЛЕДНЯЯ строка файла.
// Найденному заказу обновляются только доставка, выплата и статус; если заказа нет,
// продажа пишется в отдельную таблицу. Возвращает число обработанных штрих-кодов,
// включая продажи, которые уже были в таблице.
func (imp *importer) importSales(ctx context.Context, rows [][]string, cols map[string]int) (int, error) {
	byBarcode := make(map[string]model.Record)
	var barcodes []string
	for _, cells := range rows {
		rec, ok := sheet.Sales.Transform(sheet.Extract(cells, cols))
		if !ok || !rec.ValidBarcode() {
			continue
		}
		if _, exists := byBarcode[rec.Barcode]; !exists {
			barcodes = append(barcodes, rec.Barcode)
		}
		byBarcode[rec.Barcode] = rec.Record
	}

	processed := 0
	for _, barcode := range barcodes {
		rec := byBarcode[barcode]

		order, err := imp.store.OrderGetByBarcode(ctx, barcode)
		switch {
		case err == nil:
			if err := imp.store.OrderApplySale(ctx, order.ID, rec); err != nil {
				return processed, fmt.Errorf("barcode %s: %w", barcode, err)
			}
		case errors.Is(err, store.ErrNoRows):
			if _, err := imp.store.SaleInsertIgnore(ctx, model.Sale{Record: rec}); err != nil {
				return processed, fmt.Errorf("barcode %s: %w", barcode, err)
			}
		default:
			return processed, fmt.Errorf("barcode %s: %w", barcode, err)
		}
		processed++
	}
	return processed, nil
}

// readSheet читает все строки активного листа. Даты и числа возвращаются
// без форматирования: даты приходят серийными номерами.
func readSheet(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer file.Close()

	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(wb.GetActiveSheetIndex()), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	return rows, nil
}
