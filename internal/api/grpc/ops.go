// Package grpc serves the operational gRPC endpoint: standard health checks
// backed by a database ping, plus server reflection for grpcurl.
package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/javicara/beonbike-sub000/internal/api/grpc/interceptor"
	"github.com/javicara/beonbike-sub000/internal/logger"
)

// ServiceName is the health service name reported alongside the overall "" status.
const ServiceName = "beonbikes"

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type OpsServer struct {
	server   *grpc.Server
	health   *health.Server
	db       Pinger
	interval time.Duration
}

func NewOpsServer(db Pinger, interval time.Duration) *OpsServer {
	logging := interceptor.NewLoggingInterceptor()
	s := &OpsServer{
		server:   grpc.NewServer(grpc.UnaryInterceptor(logging.Unary())),
		health:   health.NewServer(),
		db:       db,
		interval: interval,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

func (s *OpsServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Check pings the database once and updates the reported status.
func (s *OpsServer) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		logger.Warn("Health check failed", "error", err)
		s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	s.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Watch runs Check every interval until ctx is cancelled.
func (s *OpsServer) Watch(ctx context.Context) {
	s.Check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

func (s *OpsServer) Serve(lis net.Listener) error {
	logger.Info("Ops gRPC server listening", "address", lis.Addr().String())
	return s.server.Serve(lis)
}

// Stop reports NOT_SERVING to watchers and drains in-flight calls.
func (s *OpsServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
