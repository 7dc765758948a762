package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/taxdesk/internal/client/config"
	"github.com/dmitrijs2005/taxdesk/internal/client/export"
	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeServer is a minimal record store used by the CLI tests.
type storeServer struct {
	mu        sync.Mutex
	records   []models.Record
	countries []models.Country
	failPut   bool
	auth      []string
}

func newStoreServer(t *testing.T) (*storeServer, *httptest.Server) {
	t.Helper()
	s := &storeServer{
		records: []models.Record{
			{ID: "1", Name: "Bravo Ltd", Gender: "male", RequestDate: "2024-01-10", Country: "Chad", CountryID: "c1"},
			{ID: "2", Name: "Alpha LLC", Gender: "female", RequestDate: "2024-01-20", Country: "Togo", CountryID: "c2"},
			{ID: "3", Name: "Charlie", Gender: "Female", RequestDate: "2024-02-05", Country: "Chad", CountryID: "c1"},
		},
		countries: []models.Country{{ID: "c1", Name: "Chad"}, {ID: "c2", Name: "Togo"}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/records", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(s.records)
	})
	mux.HandleFunc("GET /api/countries", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(s.countries)
	})
	mux.HandleFunc("PUT /api/records/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failPut {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
			return
		}
		var rec models.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for i := range s.records {
			if s.records[i].ID == r.PathValue("id") {
				s.records[i] = rec
			}
		}
		_ = json.NewEncoder(w).Encode(rec)
	})
	mux.HandleFunc("PUT /api/countries/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		var body struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range s.countries {
			if s.countries[i].ID == r.PathValue("id") {
				s.countries[i].Name = body.Name
				_ = json.NewEncoder(w).Encode(s.countries[i])
				return
			}
		}
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return s, srv
}

func run(t *testing.T, srv *httptest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TAXDESK_CONFIG", "")
	t.Setenv("TAXDESK_ENDPOINT", "")
	t.Setenv("TAXDESK_TOKEN", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--endpoint", srv.URL + "/api"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCmd_FilterAndSort(t *testing.T) {
	_, srv := newStoreServer(t)

	out, err := run(t, srv, "", "list", "--country", "Chad", "--sort", "name:desc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Entity")
	assert.Contains(t, lines[1], "Charlie")
	assert.Contains(t, lines[2], "Bravo Ltd")
	assert.Equal(t, "2 of 3 records", lines[3])
}

func TestListCmd_JSON(t *testing.T) {
	_, srv := newStoreServer(t)

	out, err := run(t, srv, "", "-o", "json", "list", "--gender", "Female", "--from", "2024-01-15")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0]["id"])
	assert.Equal(t, "3", got[1]["id"])
}

func TestListCmd_RejectsUnsortableColumn(t *testing.T) {
	_, srv := newStoreServer(t)
	_, err := run(t, srv, "", "list", "--sort", "gender")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestEditCmd_NonInteractive(t *testing.T) {
	s, srv := newStoreServer(t)

	out, err := run(t, srv, "", "edit", "2", "--name", "  Alpha Group ", "--country-id", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Alpha Group")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "Alpha Group", s.records[1].Name)
	assert.Equal(t, "c1", s.records[1].CountryID)
	assert.Equal(t, "Chad", s.records[1].Country)
}

func TestEditCmd_RemoteFailure(t *testing.T) {
	s, srv := newStoreServer(t)
	s.failPut = true

	_, err := run(t, srv, "", "edit", "1", "--name", "X")
	var re *models.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.StatusCode)
}

func TestEditCmd_UnknownRecord(t *testing.T) {
	_, srv := newStoreServer(t)
	_, err := run(t, srv, "", "edit", "99", "--name", "X")
	var nf *models.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCountriesCmd(t *testing.T) {
	s, srv := newStoreServer(t)

	_, err := run(t, srv, "", "countries", "rename", "c1", "Republic", "of", "Chad")
	require.NoError(t, err)
	s.mu.Lock()
	assert.Equal(t, "Republic of Chad", s.countries[0].Name)
	s.mu.Unlock()

	out, err := run(t, srv, "", "countries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Republic of Chad")
}

func TestExportCmd_File(t *testing.T) {
	_, srv := newStoreServer(t)
	path := filepath.Join(t.TempDir(), "grid.csv")

	_, err := run(t, srv, "", "export", path, "--country", "Togo")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Entity,Gender,Request date,Country\nAlpha LLC,Female,\"Jan 20, 2024\",Togo\n", string(b))
}

type memorySink struct{ key, body string }

func (m *memorySink) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(body)
	m.body = buf.String()
	return "s3://exports/" + m.key, nil
}

func TestApp_ExportS3UsesConfiguredBucket(t *testing.T) {
	_, srv := newStoreServer(t)
	var out bytes.Buffer
	a := newTestApp(t, srv, "", &out)

	sink := &memorySink{}
	var gotCfg export.S3Config
	a.newS3Sink = func(ctx context.Context, cfg export.S3Config, key string) (export.Sink, error) {
		gotCfg = cfg
		sink.key = key
		return sink, nil
	}

	require.NoError(t, a.Export(context.Background(), "s3://reports/jan.csv"))
	assert.Equal(t, "reports/jan.csv", sink.key)
	assert.Equal(t, "exports", gotCfg.Bucket)
	assert.Contains(t, sink.body, "Bravo Ltd")
	assert.Contains(t, out.String(), "Exported to s3://exports/reports/jan.csv")
}

func TestExportCmd_PresignedURL(t *testing.T) {
	_, srv := newStoreServer(t)

	var uploaded string
	upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		uploaded = string(b)
	}))
	defer upload.Close()

	out, err := run(t, srv, "", "export", upload.URL+"/exports/grid.csv?X-Amz-Signature=x", "--country", "Togo")
	require.NoError(t, err)
	assert.Contains(t, uploaded, "Alpha LLC")
	assert.Contains(t, out, "Exported to "+upload.URL+"/exports/grid.csv\n")
}

func TestReplCmd_InteractiveEdit(t *testing.T) {
	s, srv := newStoreServer(t)
	captureOutput(t)

	stdin := strings.Join([]string{
		"filter country Chad",
		"edit 3",
		"Charlie & Sons",
		"c2",
		"",
		"rename-country c2 Togolese Republic",
		"exit",
	}, "\n") + "\n"

	out, err := run(t, srv, stdin, "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved record 3")
	assert.Contains(t, out, `Renamed c2 to "Togolese Republic"`)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "Charlie & Sons", s.records[2].Name)
	assert.Equal(t, "c2", s.records[2].CountryID)
}

func TestReplCmd_EditRenamesSelectedCountry(t *testing.T) {
	s, srv := newStoreServer(t)
	captureOutput(t)

	stdin := strings.Join([]string{
		"edit 2",
		"",
		"",
		"y",
		"Togolese Republic",
		"exit",
	}, "\n") + "\n"

	out, err := run(t, srv, stdin, "repl")
	require.NoError(t, err)
	assert.Contains(t, out, `Rename country "Togo"?`)
	assert.Contains(t, out, "Country: Togolese Republic (c2)")
	assert.Contains(t, out, "Saved record 2")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "Togolese Republic", s.countries[1].Name)
	assert.Equal(t, "Togolese Republic", s.records[1].Country)
	assert.Equal(t, "c2", s.records[1].CountryID)
}

func TestReplCmd_ValidationErrorKeepsFormOpen(t *testing.T) {
	s, srv := newStoreServer(t)
	captureOutput(t)

	stdin := strings.Join([]string{
		"edit 1",
		"-",
		"",
		"",
		"y",
		"Bravo Holdings",
		"",
		"n",
		"exit",
	}, "\n") + "\n"

	out, err := run(t, srv, stdin, "repl")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: name required")
	assert.Contains(t, out, "Saved record 1")

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, "Bravo Holdings", s.records[0].Name)
}

func TestRootCmd_TokenAndConfigPrecedence(t *testing.T) {
	s, srv := newStoreServer(t)
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("endpoint: http://127.0.0.1:1/api\ntoken: from-file\n"), 0o600))

	_, err := run(t, srv, "", "--config", cfgPath, "--token", "from-flag", "list")
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.auth)
	assert.Equal(t, "Bearer from-flag", s.auth[len(s.auth)-1])
}

func TestRootCmd_InvalidOutput(t *testing.T) {
	_, srv := newStoreServer(t)
	_, err := run(t, srv, "", "-o", "xml", "list")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Build version: N/A")
}

func newTestApp(t *testing.T, srv *httptest.Server, stdin string, out *bytes.Buffer) *App {
	t.Helper()
	t.Setenv("TAXDESK_ENDPOINT", "")
	t.Setenv("TAXDESK_TOKEN", "")
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Endpoint = srv.URL + "/api"
	a, err := NewApp(cfg, logging.Discard(), strings.NewReader(stdin), out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}
