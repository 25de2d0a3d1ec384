// ABOUTME: MCP tool implementations for blood-pressure readings.
// ABOUTME: Provides add, list, delete, stats, and classify tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/models"
	"github.com/harperreed/bp/internal/parser"
	"github.com/harperreed/bp/internal/stats"
	"github.com/harperreed/bp/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_reading",
		Description: "Record a blood-pressure reading from shorthand like 120/80 or 120/80/72",
	}, s.handleAddReading)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_readings",
		Description: "List readings newest first, optionally limited to the last N days",
	}, s.handleListReadings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_reading",
		Description: "Delete a reading by ID",
	}, s.handleDeleteReading)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Summarize readings: averages, date range, categories, and systolic trend",
	}, s.handleGetStats)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "classify_reading",
		Description: "Classify a systolic/diastolic pair into a blood-pressure category",
	}, s.handleClassifyReading)
}

// Tool input/output types

type addReadingInput struct {
	Input      string `json:"input" jsonschema:"Reading as systolic/diastolic or systolic/diastolic/heartRate"`
	Notes      string `json:"notes,omitempty" jsonschema:"Optional notes"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
}

type readingOutput struct {
	ID        int64             `json:"id"`
	Systolic  int               `json:"systolic"`
	Diastolic int               `json:"diastolic"`
	HeartRate *int              `json:"heart_rate,omitempty"`
	Category  classify.Category `json:"category"`
	Message   string            `json:"message"`
}

type listReadingsInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"Max results (default 20, max 1000)"`
	Offset int `json:"offset,omitempty" jsonschema:"Number of readings to skip"`
	Days   int `json:"days,omitempty" jsonschema:"Only readings from the last N days"`
}

type deleteReadingInput struct {
	ID int64 `json:"id" jsonschema:"Reading ID"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type getStatsInput struct {
	Days int `json:"days,omitempty" jsonschema:"Only readings from the last N days"`
}

type classifyInput struct {
	Systolic  int `json:"systolic" jsonschema:"Systolic pressure in mmHg"`
	Diastolic int `json:"diastolic" jsonschema:"Diastolic pressure in mmHg"`
}

type classifyOutput struct {
	Category classify.Category `json:"category"`
	Label    string            `json:"label"`
	Color    string            `json:"color"`
}

// Tool handlers

func (s *Server) handleAddReading(ctx context.Context, req *mcp.CallToolRequest, input addReadingInput) (*mcp.CallToolResult, readingOutput, error) {
	values, err := parser.Parse(input.Input)
	if err != nil {
		var verr *parser.ValidationError
		if errors.As(err, &verr) {
			return nil, readingOutput{}, fmt.Errorf("invalid reading: %s", strings.Join(verr.Messages(), "; "))
		}
		return nil, readingOutput{}, err
	}

	r := models.NewReading(values.Systolic, values.Diastolic)
	r.HeartRate = values.HeartRate

	if input.RecordedAt != "" {
		t, err := models.ParseTimestamp(input.RecordedAt)
		if err != nil {
			return nil, readingOutput{}, fmt.Errorf("invalid recorded_at %q: use ISO 8601", input.RecordedAt)
		}
		r.WithRecordedAt(t)
	}
	if input.Notes != "" {
		r.WithNotes(input.Notes)
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return nil, readingOutput{}, fmt.Errorf("failed to create reading: %w", err)
	}

	category := classify.Classify(created.Systolic, created.Diastolic)
	msg := fmt.Sprintf("Added %d/%d", created.Systolic, created.Diastolic)
	if created.HeartRate != nil {
		msg += fmt.Sprintf(" (%d bpm)", *created.HeartRate)
	}
	msg += fmt.Sprintf(": %s (ID: %d)", category.Label(), created.ID)

	return nil, readingOutput{
		ID:        created.ID,
		Systolic:  created.Systolic,
		Diastolic: created.Diastolic,
		HeartRate: created.HeartRate,
		Category:  category,
		Message:   msg,
	}, nil
}

func (s *Server) handleListReadings(ctx context.Context, req *mcp.CallToolRequest, input listReadingsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit == 0 {
		input.Limit = defaultListLimit
	}

	opts := storage.QueryOptions{Limit: &input.Limit, Offset: input.Offset}
	if input.Days != 0 {
		opts.SinceDays = &input.Days
	}

	result, err := s.repo.Query(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list readings: %w", err)
	}

	if len(result.Records) == 0 {
		return nil, map[string]any{"message": "No readings found.", "total": result.Total}, nil
	}

	return nil, result, nil
}

func (s *Server) handleDeleteReading(ctx context.Context, req *mcp.CallToolRequest, input deleteReadingInput) (*mcp.CallToolResult, simpleOutput, error) {
	removed, err := s.repo.Delete(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete reading: %w", err)
	}
	if !removed {
		return nil, simpleOutput{}, fmt.Errorf("reading not found: %d", input.ID)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted reading: %d", input.ID),
	}, nil
}

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input getStatsInput) (*mcp.CallToolResult, any, error) {
	readings, err := s.readingsSince(ctx, input.Days)
	if err != nil {
		return nil, nil, err
	}
	return nil, stats.Summarize(readings), nil
}

func (s *Server) handleClassifyReading(ctx context.Context, req *mcp.CallToolRequest, input classifyInput) (*mcp.CallToolResult, classifyOutput, error) {
	c := classify.Classify(input.Systolic, input.Diastolic)
	return nil, classifyOutput{
		Category: c,
		Label:    c.Label(),
		Color:    c.Color(),
	}, nil
}

// readingsSince returns readings from the last days days, newest first, or
// every reading when days is zero.
func (s *Server) readingsSince(ctx context.Context, days int) ([]*models.Reading, error) {
	if days < 0 {
		return nil, &storage.ParameterError{Param: "days", Reason: "must be a positive integer"}
	}

	var since *time.Time
	if days > 0 {
		t := storage.DaysAgo(s.now(), days)
		since = &t
	}

	readings, err := s.repo.Range(ctx, since, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}
	return readings, nil
}
