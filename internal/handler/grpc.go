package handler

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"lastday/internal/log"
)

const gameService = "lastday.Game"

// StartGRPC serves the standard health service so orchestrators can probe
// the game server.
func StartGRPC(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	log.Info("gRPC listening", "port", port)
	return ServeGRPC(lis)
}

func ServeGRPC(lis net.Listener) error {
	s := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus(gameService, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	return s.Serve(lis)
}

// CheckHealth asks the game server at addr whether it is serving.
func CheckHealth(ctx context.Context, addr string) error {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: gameService})
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("game service is %s", resp.GetStatus())
	}
	return nil
}
