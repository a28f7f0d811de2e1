package mcp

import (
	"context"
	"time"

	"github.com/claude/vitalfuse/internal/advisor"
	"github.com/claude/vitalfuse/internal/metrics"
	"github.com/claude/vitalfuse/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetDailyMetrics = mcp.NewTool("get_daily_metrics",
	mcp.WithDescription("Get the full derived metrics mapping for one day: HRV, resting HR, strain, recovery, sleep breakdown, stress, readiness, heart rate zones, calories."),
	mcp.WithString("date", mcp.Description("Day to query (YYYY-MM-DD). Defaults to today.")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve daily snapshots over a time range. Each snapshot carries HRV, resting HR, strain, recovery, sleep, stress, readiness, and steps."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetWeeklySummary = mcp.NewTool("get_weekly_summary",
	mcp.WithDescription("Summarize the trailing 7 days: totals, averages, best and worst day, and week-over-week changes."),
)

var toolGetMonthlyInsights = mcp.NewTool("get_monthly_insights",
	mcp.WithDescription("Summarize the trailing 30 days with month-over-month comparisons and trend messages."),
)

var toolGetOvertrainingRisk = mcp.NewTool("get_overtraining_risk",
	mcp.WithDescription("Assess overtraining risk from recent strain, recovery, HRV, and resting HR trends."),
	mcp.WithString("policy", mcp.Description("Assessment policy: 'simple' (7-day window) or 'extended' (14-day window). Defaults to 'simple'."), mcp.Enum("simple", "extended")),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List detected workout segments over a time range with duration, average and peak heart rate, intensity, strain, and zone minutes."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetRecoveryForecast = mcp.NewTool("get_recovery_forecast",
	mcp.WithDescription("Predict tomorrow's recovery score from recent HRV, resting HR, and strain trends."),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Get all-time personal records (highest HRV, lowest resting HR, best recovery, most steps) and earned achievements."),
)

// --- Tool handlers ---

func (h *handlers) getDailyMetrics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := metrics.DayOf(time.Now())
	if dateStr := req.GetString("date", ""); dateStr != "" {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		day = t
	}
	next := day.AddDate(0, 0, 1)

	snaps, err := h.ds.History(ctx, day, next)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	series, err := h.ds.CanonicalSamples(ctx, day, next)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	profile, err := h.ds.Profile(ctx)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var snap models.DailySnapshot
	if len(snaps) > 0 {
		snap = snaps[0]
	} else {
		snap = metrics.Compute(series, nil, profile, day)
	}

	result, err := mcp.NewToolResultJSON(metrics.Flat(snap, series, profile))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	history, err := h.ds.History(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklySummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	history, err := h.ds.History(ctx, now.AddDate(0, 0, -15), now)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	summary := advisor.Weekly(history, now)
	if summary == nil {
		return mcp.NewToolResultError("no snapshots in the last 7 days"), nil
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMonthlyInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	history, err := h.ds.History(ctx, now.AddDate(0, 0, -61), now)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(advisor.Monthly(history, now))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getOvertrainingRisk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	policy := advisor.PolicyByName(req.GetString("policy", "simple"))

	now := time.Now()
	history, err := h.ds.History(ctx, now.AddDate(0, 0, -15), now)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(policy.Assess(history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.Workouts(ctx, start, end)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryForecast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	history, err := h.ds.History(ctx, now.AddDate(0, 0, -8), now)
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	forecast := advisor.ForecastRecovery(history)
	if forecast == nil {
		return mcp.NewToolResultError("need at least 3 days of data to forecast"), nil
	}

	result, err := mcp.NewToolResultJSON(forecast)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.ds.History(ctx, time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(advisor.Records(history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
