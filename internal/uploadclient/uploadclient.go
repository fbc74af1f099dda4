// Package uploadclient отправляет выгрузки на сервер wbsales.
package uploadclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/iurnickita/wbsales/internal/model"
)

type UploadClient interface {
	Login(ctx context.Context, login, password string) error
	// Upload отправляет один или два документа
	Upload(ctx context.Context, paths ...string) (model.ImportSummary, error)
	RunImport(ctx context.Context) (model.ImportSummary, error)
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrTooManyFiles = errors.New("one or two documents expected")
)

// answer - конверт ответа API
type answer struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    model.ImportSummary `json:"data"`
	Errors  map[string]string   `json:"errors"`
}

type uploadClient struct {
	client *resty.Client
}

func NewUploadClient(serverAddr string) UploadClient {
	if !strings.Contains(serverAddr, "://") {
		serverAddr = "http://" + serverAddr
	}
	return &uploadClient{client: resty.New().SetBaseURL(serverAddr)}
}

func (c *uploadClient) Login(ctx context.Context, login, password string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"login": login, "password": password}).
		Post("/api/user/login")
	if err != nil {
		return err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		token, ok := strings.CutPrefix(resp.Header().Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			return fmt.Errorf("%w: no token in response", ErrUnauthorized)
		}
		c.client.SetAuthToken(token)
		return nil
	case http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		return fmt.Errorf("login request status: %d", resp.StatusCode())
	}
}

func (c *uploadClient) Upload(ctx context.Context, paths ...string) (model.ImportSummary, error) {
	if len(paths) == 0 || len(paths) > 2 {
		return model.ImportSummary{}, ErrTooManyFiles
	}

	req := c.client.R().SetContext(ctx)
	for i, path := range paths {
		req.SetFile(fmt.Sprintf("document%d", i+1), path)
	}
	resp, err := req.Post("/api/documents")
	if err != nil {
		return model.ImportSummary{}, err
	}
	return summaryFrom(resp, http.StatusCreated)
}

func (c *uploadClient) RunImport(ctx context.Context) (model.ImportSummary, error) {
	resp, err := c.client.R().SetContext(ctx).Post("/api/imports/run")
	if err != nil {
		return model.ImportSummary{}, err
	}
	return summaryFrom(resp, http.StatusOK)
}

func summaryFrom(resp *resty.Response, okStatus int) (model.ImportSummary, error) {
	if resp.StatusCode() == http.StatusUnauthorized {
		return model.ImportSummary{}, ErrUnauthorized
	}

	var ans answer
	if err := json.Unmarshal(resp.Body(), &ans); err != nil {
		return model.ImportSummary{}, fmt.Errorf("request status %d: %w", resp.StatusCode(), err)
	}
	if resp.StatusCode() != okStatus {
		return model.ImportSummary{}, fmt.Errorf("request status %d: %s", resp.StatusCode(), describe(ans))
	}
	return ans.Data, nil
}

func describe(ans answer) string {
	if len(ans.Errors) == 0 {
		return ans.Message
	}
	fields := make([]string, 0, len(ans.Errors))
	for f, msg := range ans.Errors {
		fields = append(fields, f+": "+msg)
	}
	sort.Strings(fields)
	return ans.Message + " (" + strings.Join(fields, "; ") + ")"
}
