// Package sheet appends run records to the brand's Google Sheet.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const appendRange = "A:C"

// Logger appends one row per run: timestamp, prompt, published media URL.
type Logger struct {
	service *sheets.Service
	sheetID string
	now     func() time.Time
}

// NewLogger builds a sheet logger from a service-account credentials file and
// the target spreadsheet ID.
func NewLogger(ctx context.Context, credentialsPath, sheetID string) (*Logger, error) {
	if credentialsPath == "" || sheetID == "" {
		return nil, errors.New("sheet logging requires GOOGLE_SHEETS_CREDENTIALS_PATH and SHEET_ID")
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Logger{service: service, sheetID: sheetID, now: time.Now}, nil
}

// Append records one run. Failures are the caller's to downgrade; a missed
// log entry should never sink a post.
func (l *Logger) Append(ctx context.Context, prompt, mediaURL string) error {
	row := []interface{}{l.now().UTC().Format(time.RFC3339), prompt, mediaURL}
	values := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := l.service.Spreadsheets.Values.Append(l.sheetID, appendRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}
	return nil
}
