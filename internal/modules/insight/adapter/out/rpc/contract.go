package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey           = "insight"
	serviceName            = "fivepillars.insight.v1.InsightProvider"
	jsonCodecName          = "json"
	methodGetMetadata      = "/" + serviceName + "/GetMetadata"
	methodGenerateInsights = "/" + serviceName + "/GenerateInsights"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FIVEPILLARS_PROVIDER",
	MagicCookieValue: "fivepillars",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

type PillarStatus struct {
	Pillar   string `json:"pillar"`
	Score    int32  `json:"score"`
	Trend    string `json:"trend"`
	Sessions int32  `json:"sessions"`
}

type GenerateRequest struct {
	Pillars          []PillarStatus `json:"pillars"`
	OverallScore     float64        `json:"overall_score"`
	CurrentStreak    int32          `json:"current_streak"`
	LongestStreak    int32          `json:"longest_streak"`
	TodaySessions    int32          `json:"today_sessions"`
	TodayMinutes     int32          `json:"today_minutes"`
	DailySessionGoal int32          `json:"daily_session_goal"`
	DailyMinuteGoal  int32          `json:"daily_minute_goal"`
	WeekSessions     int32          `json:"week_sessions"`
	WeeklyGoal       int32          `json:"weekly_goal"`
	TotalSessions    int32          `json:"total_sessions"`
	UnreadInsights   int32          `json:"unread_insights"`
	GeneratedAtUnix  int64          `json:"generated_at_unix"`
}

type Insight struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Pillar      string  `json:"pillar"`
	Confidence  float64 `json:"confidence"`
	Priority    string  `json:"priority"`
}

type GenerateResponse struct {
	Insights []Insight `json:"insights"`
}

type InsightProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	GenerateInsights(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type InsightProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	GenerateInsights(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type insightProviderClient struct {
	conn *grpc.ClientConn
}

func NewInsightProviderClient(conn *grpc.ClientConn) InsightProviderClient {
	return &insightProviderClient{conn: conn}
}

func (c *insightProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *insightProviderClient) GenerateInsights(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error) {
	out := &GenerateResponse{}
	if err := c.conn.Invoke(ctx, methodGenerateInsights, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterInsightProviderServer(server grpc.ServiceRegistrar, impl InsightProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*InsightProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "GenerateInsights",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &GenerateRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GenerateInsights(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGenerateInsights}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*GenerateRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GenerateInsights(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "insight-provider-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl InsightProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterInsightProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewInsightProviderClient(conn), nil
}

func PluginMap(impl InsightProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
