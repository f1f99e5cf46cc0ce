package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-importer/internal/model"
	"go-csv-importer/internal/store"
	"go-csv-importer/pkg/utils"
)

type stubDispatcher struct{ jobs []int64 }

func (d *stubDispatcher) Dispatch(jobID int64) { d.jobs = append(d.jobs, jobID) }

func newHandler(t *testing.T, maxUpload int64) (*ImportHandler, *stubDispatcher) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(store.DriverSQLite, filepath.Join(dir, "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pool := &stubDispatcher{}
	return NewImportHandler(st, utils.NewUploadManager(filepath.Join(dir, "uploads")), pool, maxUpload), pool
}

func multipartUpload(t *testing.T, tableName, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("table_name", tableName))
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/imports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateAcceptsUploadAndDispatches(t *testing.T) {
	h, pool := newHandler(t, 1<<20)
	rec := httptest.NewRecorder()
	h.Create(rec, multipartUpload(t, "repayment", "batch.csv", "Employee Number,Amount Paid\nEMP001,100\n"))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.False(t, resp.Error)
	require.Len(t, pool.jobs, 1)

	job, err := h.Store.GetJob(context.Background(), pool.jobs[0])
	require.NoError(t, err)
	assert.Equal(t, model.TableRepayment, job.TableName)
	assert.Equal(t, model.StatusPending, job.Status)

	// The upload landed under the stored name recorded on the job.
	assert.FileExists(t, h.Uploads.Path(job.FileName))
}

func TestCreateRejectsUnknownTable(t *testing.T) {
	h, pool := newHandler(t, 1<<20)
	rec := httptest.NewRecorder()
	h.Create(rec, multipartUpload(t, "payroll", "batch.csv", "x\n"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, decode(t, rec).Error)
	assert.Empty(t, pool.jobs)
}

func TestCreateRejectsUnsupportedExtension(t *testing.T) {
	h, pool := newHandler(t, 1<<20)
	rec := httptest.NewRecorder()
	h.Create(rec, multipartUpload(t, "repayment", "batch.pdf", "%PDF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, pool.jobs)
}

func TestCreateRejectsOversizedBody(t *testing.T) {
	h, pool := newHandler(t, 64) // tiny limit
	rec := httptest.NewRecorder()
	h.Create(rec, multipartUpload(t, "repayment", "batch.csv", string(bytes.Repeat([]byte("a"), 4096))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, pool.jobs)
}

func TestListAndGet(t *testing.T) {
	h, _ := newHandler(t, 1<<20)
	ctx := context.Background()
	jobID, err := h.Store.CreateJob(ctx, "a.csv", model.TableLoanDetails)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var job model.ImportJob
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, jobID, job.ID)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/v1/imports/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
