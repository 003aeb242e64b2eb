package sheetsclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jakechorley/shift-planner/internal/config"
	"github.com/jakechorley/shift-planner/pkg/utils"
)

// Client wraps the Google Sheets API client
type Client struct {
	service *sheets.Service
	token   *oauth2.Token
	logger  *zap.Logger
}

// NewClient creates a Sheets client, running the OAuth flow if no stored token is usable.
// Tokens are persisted per environment.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, env string, logger *zap.Logger) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	store, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig, store, env, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		token:   token,
		logger:  logger,
	}, nil
}

// GetValues reads values from a spreadsheet range
func (c *Client) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values: %w", err)
	}

	return resp.Values, nil
}

// BatchGetValues reads several ranges in one request, in the order given
func (c *Client) BatchGetValues(spreadsheetID string, ranges []string) ([][][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.BatchGet(spreadsheetID).Ranges(ranges...).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to batch get values: %w", err)
	}
	if len(resp.ValueRanges) != len(ranges) {
		return nil, fmt.Errorf("asked for %d ranges, got %d", len(ranges), len(resp.ValueRanges))
	}

	out := make([][][]interface{}, len(resp.ValueRanges))
	for i, vr := range resp.ValueRanges {
		out[i] = vr.Values
	}
	return out, nil
}

// BatchClearValues empties several ranges in one request, keeping formatting
func (c *Client) BatchClearValues(spreadsheetID string, ranges []string) error {
	if len(ranges) == 0 {
		return nil
	}

	_, err := c.service.Spreadsheets.Values.BatchClear(spreadsheetID, &sheets.BatchClearValuesRequest{
		Ranges: ranges,
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to batch clear values: %w", err)
	}
	return nil
}

// BatchUpdateValues writes several ranges in one request. Values are written as
// entered, so names are never parsed as dates or formulas.
func (c *Client) BatchUpdateValues(spreadsheetID string, data []*sheets.ValueRange) error {
	if len(data) == 0 {
		return nil
	}

	resp, err := c.service.Spreadsheets.Values.BatchUpdate(spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to batch update values: %w", err)
	}

	c.logger.Debug("Updated values",
		zap.Int("ranges", len(data)),
		zap.Int64("cells", resp.TotalUpdatedCells))
	return nil
}

// TabTitles lists the titles of every tab in the spreadsheet
func (c *Client) TabTitles(spreadsheetID string) ([]string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

// AddTabs creates one tab per title in a single request
func (c *Client) AddTabs(spreadsheetID string, titles []string) error {
	if len(titles) == 0 {
		return nil
	}

	requests := make([]*sheets.Request, 0, len(titles))
	for _, title := range titles {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		})
	}

	resp, err := c.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to add tabs: %w", err)
	}
	if len(resp.Replies) != len(titles) {
		return fmt.Errorf("expected %d add tab replies, got %d", len(titles), len(resp.Replies))
	}

	return nil
}
