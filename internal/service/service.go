package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iurnickita/wbsales/internal/importer"
	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/service/config"
)

type Service interface {
	// Upload сохраняет документы в каталог приема и сразу загружает их
	Upload(ctx context.Context, docs []Document) (model.ImportSummary, error)
	// ImportAll загружает все файлы, лежащие в каталоге приема
	ImportAll(ctx context.Context) model.ImportSummary
	ListOrders(ctx context.Context, values url.Values) (model.OrderPage, error)
	ListSales(ctx context.Context, values url.Values) (model.SalePage, error)
}

// Store - списки для просмотра.
type Store interface {
	OrderList(ctx context.Context, query model.ListQuery) (model.OrderPage, error)
	SaleList(ctx context.Context, query model.ListQuery) (model.SalePage, error)
}

// Document - загружаемый файл. Field - имя поля формы, по нему адресуются ошибки.
type Document struct {
	Field    string
	Filename string
	Content  io.Reader
}

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrValidation       = errors.New("validation failed")
)

// ValidationError - ошибки входных данных по полям.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for i, f := range fields {
		fields[i] = f + ": " + e.Fields[f]
	}
	return "validation failed: " + strings.Join(fields, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type service struct {
	cfg      config.Config
	store    Store
	importer importer.Importer
	zaplog   *zap.Logger
}

func NewService(cfg config.Config, store Store, importer importer.Importer, zaplog *zap.Logger) Service {
	return &service{
		cfg:      cfg,
		store:    store,
		importer: importer,
		zaplog:   zaplog,
	}
}

func (service *service) Upload(ctx context.Context, docs []Document) (model.ImportSummary, error) {
	if len(docs) == 0 {
		return model.ImportSummary{}, ErrInsufficientData
	}

	verr := newValidationError()
	for _, doc := range docs {
		if !strings.EqualFold(filepath.Ext(doc.Filename), ".xlsx") {
			verr.add(doc.Field, "must be an .xlsx file")
		}
	}
	if !verr.empty() {
		return model.ImportSummary{}, verr
	}

	paths := make([]string, 0, len(docs))
	for _, doc := range docs {
		path, err := service.save(doc)
		if err != nil {
			for _, p := range paths {
				os.Remove(p)
			}
			if errors.Is(err, errTooLarge) {
				verr.add(doc.Field, fmt.Sprintf("must not exceed %d bytes", service.cfg.MaxUploadSize))
				return model.ImportSummary{}, verr
			}
			return model.ImportSummary{}, err
		}
		paths = append(paths, path)
	}

	// сохраненные файлы загружаются, даже если клиент отключился
	summary := service.importer.ProcessUploads(context.WithoutCancel(ctx), paths)
	service.zaplog.Info("documents uploaded",
		zap.Int("files", len(paths)),
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

var errTooLarge = errors.New("file too large")

// save пишет документ в каталог приема под именем <uuid>_<имя файла>.upload,
// чтобы ProcessAll не забрал его раньше загрузки.
func (service *service) save(doc Document) (string, error) {
	name := filepath.Base(strings.ReplaceAll(doc.Filename, `\`, "/"))
	path := filepath.Join(service.importer.ImportDir(), uuid.NewString()+"_"+name+importer.UploadSuffix)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	content := doc.Content
	if service.cfg.MaxUploadSize > 0 {
		content = io.LimitReader(doc.Content, service.cfg.MaxUploadSize+1)
	}
	n, err := io.Copy(file, content)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil && service.cfg.MaxUploadSize > 0 && n > service.cfg.MaxUploadSize {
		err = errTooLarge
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func (service *service) ImportAll(ctx context.Context) model.ImportSummary {
	summary := service.importer.ProcessAll(ctx)
	service.zaplog.Info("import finished",
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed))
	return summary
}

func (service *service) ListOrders(ctx context.Context, values url.Values) (model.OrderPage, error) {
	query, err := ParseListQuery(values)
	if err != nil {
		return model.OrderPage{}, err
	}
	return service.store.OrderList(ctx, query)
}

func (service *service) ListSales(ctx context.Context, values url.Values) (model.SalePage, error) {
	query, err := ParseListQuery(values)
	if err != nil {
		return model.SalePage{}, err
	}
	return service.store.SaleList(ctx, query)
}
