// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, resource handlers, and a client round trip.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bp/internal/models"
	"github.com/harperreed/bp/internal/stats"
	"github.com/harperreed/bp/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bp.db")
	db, err := storage.Open(dbPath, storage.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db := setupTestDB(t)
	server, err := NewServer(db)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	server.now = func() time.Time { return testNow }
	return server, db
}

func addReading(t *testing.T, db *storage.DB, r *models.Reading) *models.Reading {
	t.Helper()
	created, err := db.Create(context.Background(), r)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return created
}

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestHandleAddReading(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addReadingInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "without heart rate",
			input: addReadingInput{Input: "118/76"},
		},
		{
			name:  "with heart rate and notes",
			input: addReadingInput{Input: "135/85/72", Notes: "after walk"},
		},
		{
			name:  "with timestamp",
			input: addReadingInput{Input: "120/80", RecordedAt: "2024-05-31T08:00:00Z"},
		},
		{
			name:      "out of range values",
			input:     addReadingInput{Input: "10/20/30"},
			wantErr:   true,
			errSubstr: "Systolic must be between 60 and 250; Diastolic must be between 40 and 150",
		},
		{
			name:      "bad format",
			input:     addReadingInput{Input: "120"},
			wantErr:   true,
			errSubstr: "Invalid format",
		},
		{
			name:      "bad timestamp",
			input:     addReadingInput{Input: "120/80", RecordedAt: "tomorrow"},
			wantErr:   true,
			errSubstr: "invalid recorded_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleAddReading(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if output.ID <= 0 {
				t.Error("Expected positive ID")
			}
			if output.Message == "" {
				t.Error("Expected non-empty message")
			}
		})
	}
}

func TestHandleAddReadingClassifies(t *testing.T) {
	server, db := setupTestServer(t)

	_, output, err := server.handleAddReading(context.Background(), &mcp.CallToolRequest{}, addReadingInput{Input: "185/95/90"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if output.Category != "crisis" {
		t.Errorf("Category = %s, want crisis", output.Category)
	}
	if output.HeartRate == nil || *output.HeartRate != 90 {
		t.Errorf("HeartRate = %v, want 90", output.HeartRate)
	}
	if !strings.Contains(output.Message, "Hypertensive Crisis") {
		t.Errorf("Message %q should name the category", output.Message)
	}

	stored, err := db.GetByID(context.Background(), output.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !stored.RecordedAt.Equal(testNow) {
		t.Errorf("RecordedAt = %v, want store clock %v", stored.RecordedAt, testNow)
	}
}

func TestHandleListReadings(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		addReading(t, db, models.NewReading(120+i, 80).WithRecordedAt(testNow.Add(-time.Duration(i)*time.Hour)))
	}
	addReading(t, db, models.NewReading(150, 95).WithRecordedAt(testNow.Add(-10*24*time.Hour)))

	_, output, err := server.handleListReadings(ctx, &mcp.CallToolRequest{}, listReadingsInput{Days: 7})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	result, ok := output.(*storage.QueryResult)
	if !ok {
		t.Fatalf("Expected *storage.QueryResult, got %T", output)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.Limit != defaultListLimit {
		t.Errorf("Limit = %d, want %d", result.Limit, defaultListLimit)
	}
	if result.Records[0].Systolic != 120 {
		t.Errorf("Expected newest first, got %d", result.Records[0].Systolic)
	}
}

func TestHandleListReadingsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	_, output, err := server.handleListReadings(context.Background(), &mcp.CallToolRequest{}, listReadingsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m, ok := output.(map[string]any)
	if !ok {
		t.Fatalf("Expected map output, got %T", output)
	}
	if m["message"] != "No readings found." {
		t.Errorf("message = %v", m["message"])
	}
}

func TestHandleListReadingsInvalidLimit(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		name  string
		input listReadingsInput
		param string
	}{
		{"above maximum", listReadingsInput{Limit: 5000}, "limit"},
		{"negative limit", listReadingsInput{Limit: -1}, "limit"},
		{"negative offset", listReadingsInput{Offset: -1}, "offset"},
		{"negative days", listReadingsInput{Days: -2}, "days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := server.handleListReadings(context.Background(), &mcp.CallToolRequest{}, tt.input)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !errors.Is(err, storage.ErrInvalidParameter) {
				t.Errorf("errors.Is(err, ErrInvalidParameter) = false for %v", err)
			}
			if !strings.Contains(err.Error(), tt.param) {
				t.Errorf("Error %q should name the %s parameter", err.Error(), tt.param)
			}
		})
	}
}

func TestHandleDeleteReading(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	r := addReading(t, db, models.NewReading(120, 80))

	_, output, err := server.handleDeleteReading(ctx, &mcp.CallToolRequest{}, deleteReadingInput{ID: r.ID})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(output.Message, "Deleted reading") {
		t.Errorf("Message = %q", output.Message)
	}

	_, _, err = server.handleDeleteReading(ctx, &mcp.CallToolRequest{}, deleteReadingInput{ID: r.ID})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestHandleGetStats(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	systolics := []int{120, 122, 121, 135, 136, 134}
	for i, sys := range systolics {
		addReading(t, db, models.NewReading(sys, 80).WithRecordedAt(testNow.Add(-time.Duration(i)*time.Hour)))
	}

	_, output, err := server.handleGetStats(ctx, &mcp.CallToolRequest{}, getStatsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	summary, ok := output.(stats.Summary)
	if !ok {
		t.Fatalf("Expected stats.Summary, got %T", output)
	}
	if summary.Count != 6 {
		t.Errorf("Count = %d, want 6", summary.Count)
	}
	if summary.Trend != stats.Improving {
		t.Errorf("Trend = %s, want improving", summary.Trend)
	}

	if _, _, err := server.handleGetStats(ctx, &mcp.CallToolRequest{}, getStatsInput{Days: -1}); err == nil {
		t.Error("Expected error for negative days")
	}
}

func TestHandleClassifyReading(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		sys, dia int
		want     string
	}{
		{185, 95, "crisis"},
		{120, 85, "high_stage_1"},
		{118, 76, "normal"},
		{125, 75, "elevated"},
		{145, 70, "high_stage_2"},
	}

	for _, tt := range tests {
		_, output, err := server.handleClassifyReading(context.Background(), &mcp.CallToolRequest{}, classifyInput{Systolic: tt.sys, Diastolic: tt.dia})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(output.Category) != tt.want {
			t.Errorf("classify(%d, %d) = %s, want %s", tt.sys, tt.dia, output.Category, tt.want)
		}
		if output.Label == "" || output.Color == "" {
			t.Errorf("classify(%d, %d) missing label or color", tt.sys, tt.dia)
		}
	}
}

func TestHandleRecentResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		addReading(t, db, models.NewReading(120, 80).WithRecordedAt(testNow.Add(-time.Duration(i)*time.Hour)))
	}

	result, err := server.handleRecentResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "bp://recent" {
		t.Errorf("URI = %s, want bp://recent", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}

	var body struct {
		Readings []recentEntry `json:"readings"`
		Total    int           `json:"total"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Readings) != 10 {
		t.Errorf("got %d readings, want 10", len(body.Readings))
	}
	if body.Total != 12 {
		t.Errorf("Total = %d, want 12", body.Total)
	}
	if body.Readings[0].Reading != "120/80" {
		t.Errorf("Reading = %q, want 120/80", body.Readings[0].Reading)
	}
}

func TestHandleSummaryResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()

	addReading(t, db, models.NewReading(120, 80).WithHeartRate(70).WithRecordedAt(testNow.Add(-24*time.Hour)))
	addReading(t, db, models.NewReading(160, 100).WithRecordedAt(testNow.Add(-60*24*time.Hour)))

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "bp://summary" {
		t.Errorf("URI = %s, want bp://summary", result.Contents[0].URI)
	}

	var body struct {
		TotalReadings int           `json:"total_readings"`
		Stats         stats.Summary `json:"stats"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.TotalReadings != 2 {
		t.Errorf("TotalReadings = %d, want 2", body.TotalReadings)
	}
	if body.Stats.Count != 1 {
		t.Errorf("Stats.Count = %d, want 1 within the window", body.Stats.Count)
	}
}

func TestHandleSummaryResourceEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	result, err := server.handleSummaryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"trend": "stable"`) {
		t.Errorf("Expected stable trend in empty summary: %s", result.Contents[0].Text)
	}
}

func TestClientRoundTrip(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server Connect failed: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client Connect failed: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"add_reading", "list_readings", "delete_reading", "get_stats", "classify_reading"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "add_reading",
		Arguments: map[string]any{"input": "128/78/64"},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("add_reading returned tool error: %+v", res.Content)
	}

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "bp://recent"})
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}
	if !strings.Contains(read.Contents[0].Text, "128/78") {
		t.Errorf("recent resource missing new reading: %s", read.Contents[0].Text)
	}
}
