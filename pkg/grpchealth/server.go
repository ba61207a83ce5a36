package grpchealth

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tair/qr-order/pkg/logger"
)

// CheckFunc reports whether a dependency is usable
type CheckFunc func(ctx context.Context) error

// Server exposes the standard gRPC health service for orchestrators
type Server struct {
	GRPC   *grpc.Server
	health *health.Server
	name   string
}

// NewServer creates a gRPC server with logging and tracing interceptors
func NewServer(serviceName string) *Server {
	hs := health.NewServer()
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(LoggingInterceptor),
	)
	healthpb.RegisterHealthServer(srv, hs)

	hs.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{GRPC: srv, health: hs, name: serviceName}
}

// Watch runs check every interval and flips the serving status until ctx ends
func (s *Server) Watch(ctx context.Context, interval time.Duration, check CheckFunc) {
	s.apply(ctx, check)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.apply(ctx, check)
		}
	}
}

func (s *Server) apply(ctx context.Context, check CheckFunc) {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := check(checkCtx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		logger.Logger.Warn().Err(err).Str("service", s.name).Msg("Health check failed")
	}
	s.health.SetServingStatus(s.name, status)
	s.health.SetServingStatus("", status)
}

// LoggingInterceptor logs unary gRPC calls
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	event := logger.Debug(ctx)
	if err != nil {
		event = logger.Error(ctx).Err(err)
	}
	event.
		Str("method", info.FullMethod).
		Dur("duration", time.Since(start)).
		Msg("gRPC request")

	return resp, err
}
