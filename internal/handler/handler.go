package handler

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/iurnickita/wbsales/internal/auth"
	"github.com/iurnickita/wbsales/internal/gzip"
	"github.com/iurnickita/wbsales/internal/handler/config"
	"github.com/iurnickita/wbsales/internal/logger"
	"github.com/iurnickita/wbsales/internal/model"
	"github.com/iurnickita/wbsales/internal/service"
)

// Поля формы загрузки: первый документ обязателен, второй - нет
const (
	fieldDocument1 = "document1"
	fieldDocument2 = "document2"
)

// Часть формы, которая держится в памяти; остальное уходит во временные файлы
const multipartMemory = 32 << 20

func Serve(cfg config.Config, auth auth.Auth, service service.Service, zaplog *zap.Logger) error {
	h := newHandler(cfg, auth, service, zaplog)
	router := h.newRouter()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	zaplog.Info("server started", zap.String("addr", cfg.ServerAddr))
	return srv.ListenAndServe()
}

type handler struct {
	cfg     config.Config
	auth    auth.Auth
	service service.Service
	zaplog  *zap.Logger
}

func newHandler(cfg config.Config, auth auth.Auth, service service.Service, zaplog *zap.Logger) *handler {
	return &handler{
		cfg:     cfg,
		auth:    auth,
		service: service,
		zaplog:  zaplog,
	}
}

func (h *handler) newRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/test", gzip.GzipMiddleware(logger.RequestLogMdlw(h.GetTest, h.zaplog)))
	mux.HandleFunc("POST /api/user/register", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Register, h.zaplog)))
	mux.HandleFunc("POST /api/user/login", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Login, h.zaplog)))
	mux.HandleFunc("POST /api/documents", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.PostDocuments), h.zaplog)))
	mux.HandleFunc("POST /api/imports/run", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.PostImportRun), h.zaplog)))
	mux.HandleFunc("GET /api/orders", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.GetOrders), h.zaplog)))
	mux.HandleFunc("GET /api/sales", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.GetSales), h.zaplog)))

	return mux
}

// response - общий конверт ответов API.
type response struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
	Sort       *model.Sort       `json:"sort,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (h *handler) writeJSON(w http.ResponseWriter, code int, resp response) {
	responseJSON, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(responseJSON)
}

// writeError сопоставляет ошибку сервиса коду ответа.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusUnprocessableEntity, response{Message: "validation failed", Errors: verr.Fields})
	case errors.Is(err, service.ErrInsufficientData):
		h.writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
	default:
		h.zaplog.Error("request failed", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, response{Message: "internal error"})
	}
}

func (h *handler) GetTest(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, response{Success: true, Message: "API is working"})
}

func (h *handler) PostDocuments(w http.ResponseWriter, r *http.Request) {
	if h.cfg.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, response{Message: "request is too large"})
			return
		}
		h.writeJSON(w, http.StatusBadRequest, response{Message: "multipart form expected"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	var docs []service.Document
	for _, field := range []string{fieldDocument1, fieldDocument2} {
		file, header, err := r.FormFile(field)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) && field == fieldDocument2 {
				continue
			}
			h.writeJSON(w, http.StatusUnprocessableEntity, response{
				Message: "validation failed",
				Errors:  map[string]string{field: "file is required"},
			})
			closeAll(docs)
			return
		}
		docs = append(docs, service.Document{Field: field, Filename: header.Filename, Content: file})
	}
	defer closeAll(docs)

	summary, err := h.service.Upload(r.Context(), docs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response{Success: true, Message: "documents uploaded", Data: summary})
}

func closeAll(docs []service.Document) {
	for _, doc := range docs {
		if f, ok := doc.Content.(multipart.File); ok {
			f.Close()
		}
	}
}

func (h *handler) PostImportRun(w http.ResponseWriter, r *http.Request) {
	summary := h.service.ImportAll(r.Context())
	h.writeJSON(w, http.StatusOK, response{Success: true, Data: summary})
}

func (h *handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListOrders(r.Context(), r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{
		Success:    true,
		Data:       page.Items,
		Pagination: &page.Pagination,
		Sort:       &page.Sort,
	})
}

func (h *handler) GetSales(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListSales(r.Context(), r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response{
		Success:    true,
		Data:       page.Items,
		Pagination: &page.Pagination,
		Sort:       &page.Sort,
	})
}
