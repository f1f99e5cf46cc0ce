package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-importer/internal/api/handler"
	"go-csv-importer/pkg/router"
)

func TestRegisterRoutesServesSwaggerUI(t *testing.T) {
	r := router.New()
	RegisterRoutes(r, &handler.ImportHandler{})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
