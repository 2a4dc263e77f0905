package grpcapi

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check name reported alongside the overall ("")
// status.
const ServiceName = "settlement.SettlementService"

type Pinger func(ctx context.Context) error

// HealthChecker flips the gRPC health status according to a database ping.
// It starts NOT_SERVING and only reports SERVING after the first good ping.
type HealthChecker struct {
	server  *health.Server
	ping    Pinger
	serving bool
}

func NewHealthChecker(ping Pinger) *HealthChecker {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthChecker{server: srv, ping: ping}
}

func (h *HealthChecker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.server)
}

// Probe pings once and updates the reported status. It returns the ping
// error, if any.
func (h *HealthChecker) Probe(ctx context.Context) error {
	err := h.ping(ctx)
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	if (err == nil) != h.serving {
		slog.Info("health status changed", "status", status.String(), "error", err)
	}
	h.serving = err == nil
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return err
}

// Shutdown reports NOT_SERVING to all watchers and ignores later updates.
func (h *HealthChecker) Shutdown() {
	h.server.Shutdown()
}
