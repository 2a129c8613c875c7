package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Scopes requested for the service account: read/write on sheets, and
// metadata read on Drive to find a workbook by its title.
var Scopes = []string{
	gsheets.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

type GoogleGateway struct {
	sheets  *gsheets.Service
	drive   *drive.Service
	account string
}

// NewGoogleGateway builds the Sheets and Drive clients from a service account
// JSON bundle. This is the expensive step, see CachedGateway.
func NewGoogleGateway(ctx context.Context, credentialsJSON []byte, opts ...option.ClientOption) (*GoogleGateway, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	var sa struct {
		ClientEmail string `json:"client_email"`
	}
	_ = json.Unmarshal(credentialsJSON, &sa)

	opts = append([]option.ClientOption{option.WithCredentials(creds)}, opts...)

	sheetsSvc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &GoogleGateway{sheets: sheetsSvc, drive: driveSvc, account: sa.ClientEmail}, nil
}

// ServiceAccount is the address workbooks must be shared with.
func (g *GoogleGateway) ServiceAccount() string {
	return g.account
}

func (g *GoogleGateway) Open(ctx context.Context, name string) (Table, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), spreadsheetMimeType)

	files, err := g.drive.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.openError(name, err)
	}

	// Drive only lists what is shared with the account, so an unshared
	// workbook looks exactly like a missing one.
	if len(files.Files) == 0 {
		return nil, &OpenError{Table: name, Account: g.account, Err: ErrTableNotFound}
	}

	id := files.Files[0].Id

	ss, err := g.sheets.Spreadsheets.Get(id).
		Fields("spreadsheetId,sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, g.openError(name, err)
	}

	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, &OpenError{Table: name, Account: g.account, Err: ErrTableNotFound}
	}

	return &googleTable{
		svc:   g.sheets,
		id:    id,
		name:  name,
		sheet: ss.Sheets[0].Properties.Title,
	}, nil
}

func (g *GoogleGateway) openError(name string, err error) error {
	return &OpenError{Table: name, Account: g.account, Err: classify(err), Cause: err}
}

type googleTable struct {
	svc   *gsheets.Service
	id    string
	name  string
	sheet string
}

func (t *googleTable) Name() string {
	return t.name
}

func (t *googleTable) ReadAll(ctx context.Context) (Records, error) {
	resp, err := t.svc.Spreadsheets.Values.Get(t.id, quoteSheet(t.sheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return Records{}, fmt.Errorf("read %q: %w: %v", t.name, classify(err), err)
	}

	return RecordsFromValues(stringGrid(resp.Values)), nil
}

func (t *googleTable) AppendRow(ctx context.Context, values []string) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	_, err := t.svc.Spreadsheets.Values.Append(t.id, quoteSheet(t.sheet), &gsheets.ValueRange{
		Values: [][]interface{}{cells},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append to %q: %w: %v", t.name, classify(err), err)
	}

	return nil
}

// classify maps an API error onto one of the package sentinels.
func classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return ErrTableNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrPermissionDenied
		}
	}

	return ErrUnavailable
}

func stringGrid(values [][]interface{}) [][]string {
	grid := make([][]string, len(values))
	for i, row := range values {
		grid[i] = make([]string, len(row))
		for j, cell := range row {
			if cell == nil {
				continue
			}
			grid[i][j] = fmt.Sprint(cell)
		}
	}

	return grid
}

func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
