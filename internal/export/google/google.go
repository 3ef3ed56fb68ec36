// Package google mirrors expenses into a Google Sheets spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"gastos/internal/config"
	"gastos/internal/core"
	"gastos/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.ExpenseExporter = (*Client)(nil)

// New creates a Sheets exporter from the application configuration.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.SheetsExportEnabled() {
		return nil, errors.New("sheets export not configured")
	}

	credentialsJSON := []byte(cfg.GoogleCredentialsJSON)
	if len(credentialsJSON) == 0 {
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetName:     cfg.GoogleSheetName,
	}, nil
}

// Upsert writes the expense into the row keyed by its ID in column A,
// appending a new row when the ID is not present yet.
func (c *Client) Upsert(ctx context.Context, e core.Expense) (string, error) {
	row, err := c.findRow(ctx, e.ID)
	if err != nil {
		return "", err
	}

	values := [][]any{{
		e.ID,
		e.Date.String(),
		e.Concept,
		core.FormatCents(e.Amount.Cents),
		string(e.Currency),
		string(e.Category),
	}}

	if row == 0 {
		rng := fmt.Sprintf("%s!A:F", c.sheetName)
		resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng,
			&gsheet.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("append row to sheet %s: %w", c.sheetName, err)
		}
		return resp.Updates.UpdatedRange, nil
	}

	rng := fmt.Sprintf("%s!A%d:F%d", c.sheetName, row, row)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng,
		&gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update row in sheet %s: %w", c.sheetName, err)
	}
	return rng, nil
}

// Delete clears the row keyed by the expense ID. Missing IDs are a no-op.
func (c *Client) Delete(ctx context.Context, id string) error {
	row, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	if row == 0 {
		return nil
	}

	rng := fmt.Sprintf("%s!A%d:F%d", c.sheetName, row, row)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng,
		&gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear row in sheet %s: %w", c.sheetName, err)
	}
	return nil
}

// findRow returns the 1-based row holding the given ID, or 0 when absent.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read ID column of sheet %s: %w", c.sheetName, err)
	}
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			return i + 1, nil
		}
	}
	return 0, nil
}
