package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	insightrpc "fivepillars/internal/modules/insight/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

const lowScore = 30

type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *insightrpc.Empty) (*insightrpc.Metadata, error) {
	return &insightrpc.Metadata{
		Name:        "reference",
		Version:     "1.0.0",
		Description: "Rule-based insights from pillar scores, trends and goals",
	}, nil
}

// GenerateInsights is deterministic: the same snapshot always yields the same
// insights in the same order, weakest pillar first.
func (s *server) GenerateInsights(_ context.Context, in *insightrpc.GenerateRequest) (*insightrpc.GenerateResponse, error) {
	out := []insightrpc.Insight{}

	pillars := append([]insightrpc.PillarStatus(nil), in.Pillars...)
	sort.SliceStable(pillars, func(i, j int) bool { return pillars[i].Score < pillars[j].Score })
	if len(pillars) > 0 {
		weakest := pillars[0]
		priority := "medium"
		if weakest.Score < lowScore {
			priority = "high"
		}
		out = append(out, insightrpc.Insight{
			Title:       fmt.Sprintf("Give %s some attention", weakest.Pillar),
			Description: fmt.Sprintf("%s is your lowest pillar at %d. A short session today will move it the most.", title(weakest.Pillar), weakest.Score),
			Pillar:      weakest.Pillar,
			Confidence:  0.8,
			Priority:    priority,
		})
	}

	for _, p := range in.Pillars {
		if p.Trend != "declining" {
			continue
		}
		out = append(out, insightrpc.Insight{
			Title:       fmt.Sprintf("%s is slipping", title(p.Pillar)),
			Description: "Recent sessions added less than earlier ones. Try a longer or higher quality session.",
			Pillar:      p.Pillar,
			Confidence:  0.6,
			Priority:    "medium",
		})
	}

	switch {
	case in.CurrentStreak == 0:
		out = append(out, insightrpc.Insight{
			Title:       "Start a new streak",
			Description: "Any session today starts your streak again.",
			Pillar:      "overall",
			Confidence:  0.9,
			Priority:    "low",
		})
	case in.CurrentStreak >= 7:
		out = append(out, insightrpc.Insight{
			Title:       "Keep the streak alive",
			Description: fmt.Sprintf("You are on a %d day streak.", in.CurrentStreak),
			Pillar:      "overall",
			Confidence:  0.9,
			Priority:    "low",
		})
	}

	if in.WeeklyGoal > 0 && in.WeekSessions < in.WeeklyGoal {
		out = append(out, insightrpc.Insight{
			Title:       "Weekly goal in reach",
			Description: fmt.Sprintf("%d more sessions this week reach your goal of %d.", in.WeeklyGoal-in.WeekSessions, in.WeeklyGoal),
			Pillar:      "overall",
			Confidence:  0.7,
			Priority:    "low",
		})
	}
	return &insightrpc.GenerateResponse{Insights: out}, nil
}

func title(pillar string) string {
	if pillar == "" {
		return pillar
	}
	return strings.ToUpper(pillar[:1]) + pillar[1:]
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: insightrpc.HandshakeConfig,
		Plugins:         insightrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
