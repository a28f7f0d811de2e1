package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/vitalfuse/internal/metrics"
	"github.com/claude/vitalfuse/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) todaySnapshot(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	day := metrics.DayOf(time.Now())
	next := day.AddDate(0, 0, 1)

	snaps, err := h.ds.History(ctx, day, next)
	if err != nil {
		return nil, err
	}
	series, err := h.ds.CanonicalSamples(ctx, day, next)
	if err != nil {
		h.log.Warn("today_snapshot: sample query failed", "error", err)
	}
	profile, err := h.ds.Profile(ctx)
	if err != nil {
		h.log.Warn("today_snapshot: profile query failed", "error", err)
	}

	var snap models.DailySnapshot
	if len(snaps) > 0 {
		snap = snaps[0]
	} else {
		snap = metrics.Compute(series, nil, profile, day)
	}

	data, err := json.Marshal(metrics.Flat(snap, series, profile))
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	now := time.Now()
	workouts, err := h.ds.Workouts(ctx, now.AddDate(0, 0, -14), now)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]any{
		"window_days": 14,
		"workouts":    workouts,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
