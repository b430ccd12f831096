package documents_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"docuhub-backend/internal/bootstrap"
	"docuhub-backend/internal/shared/config"
)

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:              "0",
		Env:               "dev",
		JWTSecret:         "test-secret",
		UploadDir:         t.TempDir(),
		MaxFileSize:       10 << 20,
		CORSAllowOrigin:   []string{"http://localhost:3000"},
		AllowedExtensions: []string{".pdf", ".txt", ".png"},
		AllowedMimeTypes:  []string{"application/pdf", "text/plain", "image/png"},
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, mimeType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestDocumentsUploadReturnsPending(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Quarterly Report"},
		"report.txt", "text/plain", "quarterly numbers",
	)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success bool `json:"success"`
		Data    struct {
			ID     string `json:"id"`
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !created.Success {
		t.Fatalf("expected success envelope")
	}
	if created.Data.ID == "" || created.Data.Status != "pending" {
		t.Fatalf("unexpected create payload: %+v", created.Data)
	}

	// Fetch it back.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.Data.ID, nil)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respGet.Code, respGet.Body.String())
	}
}

func TestDocumentsUploadRejectsMissingTitle(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartUpload(t, nil, "report.txt", "text/plain", "content")

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}

	var failed struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&failed); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if failed.Success || failed.Error == "" {
		t.Fatalf("expected failure envelope, got %+v", failed)
	}
}

func TestDocumentsUploadRejectsDisallowedType(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Malware"},
		"setup.exe", "application/x-msdownload", "MZ...",
	)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDocumentsGetUnknownIDReturns404(t *testing.T) {
	app := newTestApp(t)

	for _, id := range []string{"b1f9c0f2-9d3a-4f25-8a44-95e0a1c64b10", "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/"+id, nil)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("id %q: expected status 404, got %d", id, resp.Code)
		}
	}
}

func TestDocumentsListPaginationEnvelope(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 3; i++ {
		body, contentType := multipartUpload(t,
			map[string]string{"title": fmt.Sprintf("Doc %d", i)},
			"doc.txt", "text/plain", "content",
		)
		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("upload %d: expected 201, got %d", i, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents?page=1&limit=2", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var listed struct {
		Success    bool              `json:"success"`
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Data) != 2 {
		t.Fatalf("expected 2 documents on the page, got %d", len(listed.Data))
	}
	if listed.Pagination.Total != 3 || listed.Pagination.Pages != 2 {
		t.Fatalf("unexpected pagination: %+v", listed.Pagination)
	}
}

func TestDocumentsDownloadStreamsFile(t *testing.T) {
	app := newTestApp(t)

	const content = "download me"
	body, contentType := multipartUpload(t,
		map[string]string{"title": "Downloadable"},
		"notes.txt", "text/plain", content,
	)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	reqDl := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.Data.ID+"/download", nil)
	respDl := httptest.NewRecorder()
	app.Router.ServeHTTP(respDl, reqDl)
	if respDl.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", respDl.Code, respDl.Body.String())
	}
	if respDl.Body.String() != content {
		t.Fatalf("unexpected download body %q", respDl.Body.String())
	}
	if cd := respDl.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("expected Content-Disposition header")
	}
}

func TestDocumentsDeleteRemovesDocument(t *testing.T) {
	app := newTestApp(t)

	body, contentType := multipartUpload(t,
		map[string]string{"title": "Temporary"},
		"tmp.txt", "text/plain", "bye",
	)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/documents/"+created.Data.ID, nil)
	respDel := httptest.NewRecorder()
	app.Router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", respDel.Code, respDel.Body.String())
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/documents/"+created.Data.ID, nil)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", respGet.Code)
	}
}
