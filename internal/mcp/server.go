// Package mcp exposes the derived metrics over the Model Context Protocol
// so LLM clients can query snapshots, trends, and workouts directly.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/vitalfuse/internal/models"
	"github.com/claude/vitalfuse/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	History(ctx context.Context, from, to time.Time) ([]models.DailySnapshot, error)
	Workouts(ctx context.Context, from, to time.Time) ([]models.WorkoutSegment, error)
	CanonicalSamples(ctx context.Context, from, to time.Time) ([]models.Sample, error)
	Profile(ctx context.Context) (*models.UserProfile, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("VitalFuse", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("VitalFuse biometric server. Query daily physiological snapshots (HRV, resting HR, strain, recovery, sleep), detected workouts, and trend advisories derived from fused wearable data."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDailyMetrics, Handler: h.getDailyMetrics},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetWeeklySummary, Handler: h.getWeeklySummary},
		server.ServerTool{Tool: toolGetMonthlyInsights, Handler: h.getMonthlyInsights},
		server.ServerTool{Tool: toolGetOvertrainingRisk, Handler: h.getOvertrainingRisk},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetRecoveryForecast, Handler: h.getRecoveryForecast},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTodaySnapshot, Handler: h.todaySnapshot},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resTodaySnapshot = mcp.NewResource(
	"vitalfuse://today_snapshot",
	"Today's Snapshot",
	mcp.WithResourceDescription("Today's full derived metrics mapping: HRV, resting HR, strain, recovery, sleep, stress, readiness, zones"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"vitalfuse://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Detected workout segments from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
