package handler

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const DefaultHealthInterval = 15 * time.Second

// HealthServer exposes the standard gRPC health service. Its status follows
// the same pingers as the HTTP health endpoint.
type HealthServer struct {
	server   *health.Server
	pingers  map[string]Pinger
	interval time.Duration
	logger   *zap.Logger
}

func NewHealthServer(pingers map[string]Pinger, interval time.Duration, logger *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	return &HealthServer{
		server:   health.NewServer(),
		pingers:  pingers,
		interval: interval,
		logger:   logger,
	}
}

func (h *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Refresh pings every store once and publishes the overall status.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("Health probe failed", zap.String("store", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.server.SetServingStatus("", status)
	return status
}

// Run refreshes the status on every tick until ctx is done.
func (h *HealthServer) Run(ctx context.Context) {
	h.Refresh(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}
