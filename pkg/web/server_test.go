package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/ecux-analyzer/pkg/logformat"
	"github.com/tosih/ecux-analyzer/pkg/models"
)

func writePull(t *testing.T, dir, name string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("TIME,RPM,Oil pressure (bar)\n")
	for i := 0; i < 11; i++ {
		oil := "4"
		if i == 3 {
			oil = "x"
		}
		fmt.Fprintf(&b, "%d,%d,%s\n", i*100, 1000+i*500, oil)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	writePull(t, dir, "a.csv")
	writePull(t, dir, "b.csv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	p := models.DefaultProfile()
	p.Filter.Enabled = false
	s, err := NewServer(dir, 0, logformat.Auto, p)
	require.NoError(t, err)
	return s, dir
}

func get(t *testing.T, s *Server, url string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestFileList(t *testing.T) {
	s, _ := newTestServer(t)

	var files []FileResponse
	require.Equal(t, http.StatusOK, get(t, s, "/api/files", &files))
	require.Len(t, files, 3)
	assert.Equal(t, "a.csv", files[0].Name)
	assert.Equal(t, "ecux", files[0].Dialect)
	assert.Equal(t, 11, files[0].Samples)
	assert.Equal(t, 1, files[0].Pulls)
	assert.Equal(t, "broken.csv", files[2].Name)
	assert.NotEmpty(t, files[2].Error)
}

func TestSignal(t *testing.T) {
	s, _ := newTestServer(t)

	var sig SignalResponse
	require.Equal(t, http.StatusOK, get(t, s, "/api/signal?file=b.csv&id=Oil+pressure", &sig))
	assert.Equal(t, "bar", sig.Unit)
	require.Len(t, sig.Data, 11)
	assert.Nil(t, sig.Data[3], "unparsable cell is null")
	assert.Equal(t, 4.0, *sig.Data[0])

	require.Equal(t, http.StatusOK, get(t, s, "/api/signal?id=Calc+Velocity&run=0", &sig))
	assert.Equal(t, "a.csv", sig.File)
	require.NotNil(t, sig.Run)
	assert.Equal(t, "m/s", sig.Unit)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/signal?id=Calc+LDR+PID", nil))
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/signal?id=RPM&run=4", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/signal?id=RPM&run=x", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/signal", nil))
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/signal?file=broken.csv&id=RPM", nil))
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/signal?file=../etc/passwd&id=RPM", nil))
}

func TestColumnsRangesAndFATS(t *testing.T) {
	s, _ := newTestServer(t)

	var cols []ColumnResponse
	require.Equal(t, http.StatusOK, get(t, s, "/api/columns?file=a.csv", &cols))
	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"TIME", "RPM", "Oil pressure"}, ids[:3])
	assert.Contains(t, ids, "Calc WHP")
	assert.NotContains(t, ids, "Calc LDR PID")

	var ranges []models.Range
	require.Equal(t, http.StatusOK, get(t, s, "/api/ranges?file=a.csv", &ranges))
	assert.Equal(t, []models.Range{{Start: 0, End: 10}}, ranges)

	var fats FATSResponse
	require.Equal(t, http.StatusOK, get(t, s, "/api/fats?file=a.csv&from=2000&to=5000", &fats))
	require.Len(t, fats.Runs, 1)
	assert.InDelta(t, 0.6, fats.Runs[0], 1e-3)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/fats?from=2000", nil))
}

func TestReloadAndDrop(t *testing.T) {
	s, dir := newTestServer(t)

	s.drop(filepath.Join(dir, "a.csv"))
	assert.Equal(t, []string{"b.csv", "broken.csv"}, s.names())

	s.reload(writePull(t, dir, "broken.csv"))
	var files []FileResponse
	require.Equal(t, http.StatusOK, get(t, s, "/api/files", &files))
	require.Len(t, files, 2)
	assert.Empty(t, files[1].Error)
	assert.Equal(t, 11, files[1].Samples)
}

func TestNewServerFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writePull(t, dir, "only.csv")
	s, err := NewServer(path, 0, logformat.Auto, models.DefaultProfile())
	require.NoError(t, err)
	assert.Equal(t, dir, s.logFolder)

	_, err = NewServer(filepath.Join(dir, "missing"), 0, logformat.Auto, models.DefaultProfile())
	assert.Error(t, err)
}
