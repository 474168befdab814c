package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	insightrpc "fivepillars/internal/modules/insight/adapter/out/rpc"
	"fivepillars/internal/modules/insight/domain"
	insightout "fivepillars/internal/modules/insight/port/out"
	apperrors "fivepillars/internal/platform/errors"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

type GRPCHost struct {
	startTimeout time.Duration
	callTimeout  time.Duration
}

func NewGRPCHost() insightout.Host {
	return &GRPCHost{startTimeout: defaultStartTimeout, callTimeout: defaultCallTimeout}
}

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, h.callError(callCtx, manifest, "get metadata", err)
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Description: meta.Description}, nil
}

func (h *GRPCHost) Generate(ctx context.Context, manifest domain.Manifest, snapshot domain.Snapshot) ([]domain.Suggestion, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := h.callContext(ctx)
	defer cancel()
	response, err := client.GenerateInsights(callCtx, toRequest(snapshot))
	if err != nil {
		return nil, h.callError(callCtx, manifest, "generate insights", err)
	}
	out := make([]domain.Suggestion, 0, len(response.Insights))
	for _, insight := range response.Insights {
		out = append(out, domain.Suggestion{
			ID:          insight.ID,
			Title:       insight.Title,
			Description: insight.Description,
			Pillar:      insight.Pillar,
			Confidence:  insight.Confidence,
			Priority:    insight.Priority,
		})
	}
	return out, nil
}

func toRequest(s domain.Snapshot) *insightrpc.GenerateRequest {
	pillars := make([]insightrpc.PillarStatus, 0, len(s.Pillars))
	for _, p := range s.Pillars {
		pillars = append(pillars, insightrpc.PillarStatus{
			Pillar:   p.Pillar,
			Score:    int32(p.Score),
			Trend:    p.Trend,
			Sessions: int32(p.Sessions),
		})
	}
	return &insightrpc.GenerateRequest{
		Pillars:          pillars,
		OverallScore:     s.OverallScore,
		CurrentStreak:    int32(s.CurrentStreak),
		LongestStreak:    int32(s.LongestStreak),
		TodaySessions:    int32(s.TodaySessions),
		TodayMinutes:     int32(s.TodayMinutes),
		DailySessionGoal: int32(s.DailySessionGoal),
		DailyMinuteGoal:  int32(s.DailyMinuteGoal),
		WeekSessions:     int32(s.WeekSessions),
		WeeklyGoal:       int32(s.WeeklyGoal),
		TotalSessions:    int32(s.TotalSessions),
		UnreadInsights:   int32(s.UnreadInsights),
		GeneratedAtUnix:  s.GeneratedAt.Unix(),
	}
}

func (h *GRPCHost) connect(manifest domain.Manifest) (insightrpc.InsightProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  insightrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          insightrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     h.startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(insightrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(insightrpc.InsightProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// callContext keeps a caller deadline and otherwise bounds the call.
func (h *GRPCHost) callContext(parent context.Context) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.callTimeout)
}

func (h *GRPCHost) callError(callCtx context.Context, manifest domain.Manifest, op string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrProviderTimeout, manifest.Name, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
