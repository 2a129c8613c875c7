package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type fakeGoogle struct {
	driveStatus int
	files       []map[string]string
	values      [][]string
	appended    [][]interface{}
	appendQuery string
}

func (f *fakeGoogle) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/files"):
			if f.driveStatus != 0 {
				w.WriteHeader(f.driveStatus)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"The caller does not have permission"}}`)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"files": f.files})

		case strings.HasSuffix(r.URL.Path, ":append"):
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode append body: %v", err)
			}
			f.appended = append(f.appended, body.Values...)
			f.appendQuery = r.URL.RawQuery
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)

		case strings.Contains(r.URL.Path, "/values/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"range": "Feuille 1!A1:F10", "values": f.values})

		case strings.HasSuffix(r.URL.Path, "/spreadsheets/sheet-1"):
			_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1","sheets":[{"properties":{"title":"Feuille 1"}}]}`)

		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":{"code":404,"message":"not found"}}`)
		}
	})
}

func newTestGoogleGateway(t *testing.T, f *fakeGoogle) *GoogleGateway {
	t.Helper()

	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	ctx := context.Background()
	opts := []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	}

	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	require.NoError(t, err)
	driveSvc, err := drive.NewService(ctx, opts...)
	require.NoError(t, err)

	return &GoogleGateway{sheets: sheetsSvc, drive: driveSvc, account: "svc@proj.iam.gserviceaccount.com"}
}

func TestGoogleGateway_OpenReadAppend(t *testing.T) {
	f := &fakeGoogle{
		files: []map[string]string{{"id": "sheet-1", "name": "Utilisateurs"}},
		values: [][]string{
			{"Email", "Mot_de_Passe_Haché", "Date_Inscription"},
			{"a@x.com", "$2a$10$abc", "2024-01-01"},
		},
	}
	g := newTestGoogleGateway(t, f)
	ctx := context.Background()

	tbl, err := g.Open(ctx, "Utilisateurs")
	require.NoError(t, err)
	assert.Equal(t, "Utilisateurs", tbl.Name())

	rec, err := tbl.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rec.Rows, 1)
	assert.Equal(t, "$2a$10$abc", rec.Rows[0]["Mot_de_Passe_Haché"])

	require.NoError(t, tbl.AppendRow(ctx, []string{"b@x.com", "$2a$10$def", "2025-03-05"}))
	require.Len(t, f.appended, 1)
	assert.Equal(t, []interface{}{"b@x.com", "$2a$10$def", "2025-03-05"}, f.appended[0])
	assert.Contains(t, f.appendQuery, "valueInputOption=RAW")
}

func TestGoogleGateway_OpenNotFound(t *testing.T) {
	g := newTestGoogleGateway(t, &fakeGoogle{})

	_, err := g.Open(context.Background(), "Absent")

	assert.ErrorIs(t, err, ErrTableNotFound)
	var oe *OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "svc@proj.iam.gserviceaccount.com", oe.Account)
}

func TestGoogleGateway_OpenPermissionDenied(t *testing.T) {
	g := newTestGoogleGateway(t, &fakeGoogle{driveStatus: http.StatusForbidden})

	_, err := g.Open(context.Background(), "Utilisateurs")

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ErrTableNotFound, classify(&googleapi.Error{Code: http.StatusNotFound}))
	assert.Equal(t, ErrPermissionDenied, classify(&googleapi.Error{Code: http.StatusForbidden}))
	assert.Equal(t, ErrPermissionDenied, classify(&googleapi.Error{Code: http.StatusUnauthorized}))
	assert.Equal(t, ErrUnavailable, classify(&googleapi.Error{Code: http.StatusServiceUnavailable}))
	assert.Equal(t, ErrUnavailable, classify(io.ErrUnexpectedEOF))
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `'Feuille d''été'`, quoteSheet("Feuille d'été"))
	assert.Equal(t, `Carême d\'Ars`, escapeQuery("Carême d'Ars"))
}
