package uploadclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iurnickita/wbsales/internal/model"
)

const testToken = "token-1"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["login"] != "manager" || creds["password"] != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Authorization", "Bearer "+testToken)
	})
	mux.HandleFunc("POST /api/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(t, r.ParseMultipartForm(1<<20))
		summary := model.ImportSummary{}
		for _, field := range []string{"document1", "document2"} {
			file, header, err := r.FormFile(field)
			if err != nil {
				continue
			}
			body, _ := io.ReadAll(file)
			file.Close()
			if string(body) == "bad" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"success":false,"message":"validation failed","errors":{"` + field + `":"must be an .xlsx file"}}`))
				return
			}
			summary.Processed++
			summary.Details = append(summary.Details, model.FileResult{File: header.Filename, Status: model.FileStatusProcessed})
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": summary})
	})
	mux.HandleFunc("POST /api/imports/run", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": model.ImportSummary{Processed: 3}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	client := NewUploadClient(srv.URL)

	// без входа
	_, err := client.Upload(ctx, writeFile(t, "orders.xlsx", "x"))
	require.ErrorIs(t, err, ErrUnauthorized)

	require.ErrorIs(t, client.Login(ctx, "manager", "wrong"), ErrUnauthorized)
	require.NoError(t, client.Login(ctx, "manager", "pass"))

	summary, err := client.Upload(ctx, writeFile(t, "orders.xlsx", "x"), writeFile(t, "sales.xlsx", "y"))
	require.NoError(t, err)
	require.Equal(t, 2, summary.Processed)
	require.Equal(t, "orders.xlsx", summary.Details[0].File)
	require.Equal(t, "sales.xlsx", summary.Details[1].File)

	_, err = client.Upload(ctx, writeFile(t, "orders.xlsx", "bad"))
	require.ErrorContains(t, err, "document1: must be an .xlsx file")

	_, err = client.Upload(ctx)
	require.ErrorIs(t, err, ErrTooManyFiles)

	summary, err = client.RunImport(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Processed)
}
