// ABOUTME: MCP resource implementations for blood-pressure readings.
// ABOUTME: Provides bp://recent and bp://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/bp/internal/classify"
	"github.com/harperreed/bp/internal/stats"
	"github.com/harperreed/bp/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentURI     = "bp://recent"
	summaryURI    = "bp://summary"
	recentCount   = 10
	summaryWindow = 30
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Readings",
		Description: "Last 10 blood-pressure readings with their categories",
		MIMEType:    "application/json",
	}, s.handleRecentResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Blood Pressure Summary",
		Description: "Statistics for the last 30 days plus all-time totals",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

type recentEntry struct {
	ID         int64             `json:"id"`
	Reading    string            `json:"reading"`
	HeartRate  *int              `json:"heart_rate,omitempty"`
	Category   classify.Category `json:"category"`
	RecordedAt string            `json:"recorded_at"`
	Notes      *string           `json:"notes,omitempty"`
}

// Resource handlers

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	limit := recentCount
	result, err := s.repo.Query(ctx, storage.QueryOptions{Limit: &limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}

	entries := make([]recentEntry, 0, len(result.Records))
	for _, r := range result.Records {
		entries = append(entries, recentEntry{
			ID:         r.ID,
			Reading:    fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic),
			HeartRate:  r.HeartRate,
			Category:   classify.Classify(r.Systolic, r.Diastolic),
			RecordedAt: r.RecordedAtString(),
			Notes:      r.Notes,
		})
	}

	return jsonResource(recentURI, map[string]any{
		"readings": entries,
		"total":    result.Total,
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	recent, err := s.readingsSince(ctx, summaryWindow)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count readings: %w", err)
	}

	return jsonResource(summaryURI, map[string]any{
		"generated_at":   s.now().UTC().Format(time.RFC3339),
		"window_days":    summaryWindow,
		"stats":          stats.Summarize(recent),
		"total_readings": total,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
