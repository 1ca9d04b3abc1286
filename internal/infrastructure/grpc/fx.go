package grpc

import (
	"context"
	"net"
	"time"

	"github.com/radu-bors/Clique-backend/config"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

const probeInterval = 10 * time.Second

var Module = fx.Module(
	"grpc",
	fx.Provide(NewGRPCServer),
	fx.Invoke(registerGRPCServer),
)

type GRPCServerResult struct {
	fx.Out
	Server *grpc.Server
	Health *health.Server
}

func NewGRPCServer() GRPCServerResult {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)

	return GRPCServerResult{
		Server: server,
		Health: healthServer,
	}
}

type serverParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.ServiceConfig
	Server    *grpc.Server
	Health    *health.Server
	AppDB     *gorm.DB
	AuthDB    *gorm.DB `name:"auth"`
	Logger    zerolog.Logger
}

func registerGRPCServer(p serverParams) error {
	log := p.Logger
	prober := NewProber(p.Health, p.Config.Name, map[string]*gorm.DB{"app_db": p.AppDB, "auth_db": p.AuthDB}, log)
	stopProbe := make(chan struct{})

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			lis, err := net.Listen("tcp", ":"+p.Config.GRPCPort)
			if err != nil {
				log.Error().Err(err).Str("port", p.Config.GRPCPort).Msg("failed to listen for gRPC")
				return err
			}

			prober.Probe(ctx)
			go prober.Run(stopProbe, probeInterval)

			go func() {
				log.Info().Str("port", p.Config.GRPCPort).Msg("gRPC server started")
				if err := p.Server.Serve(lis); err != nil {
					log.Error().Err(err).Msg("gRPC server failed")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping gRPC server...")
			close(stopProbe)
			p.Health.Shutdown()
			p.Server.GracefulStop()
			log.Info().Msg("gRPC server stopped")
			return nil
		},
	})

	return nil
}

// Prober mirrors database availability into the gRPC health service. Each
// store is reported under its own name and the service is serving only while
// every store answers.
type Prober struct {
	health  *health.Server
	service string
	dbs     map[string]*gorm.DB
	ping    func(ctx context.Context, db *gorm.DB) error
	logger  zerolog.Logger
}

func NewProber(h *health.Server, service string, dbs map[string]*gorm.DB, logger zerolog.Logger) *Prober {
	return &Prober{health: h, service: service, dbs: dbs, ping: database.Ping, logger: logger}
}

func (p *Prober) Probe(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for name, db := range p.dbs {
		status := healthpb.HealthCheckResponse_SERVING
		if err := p.ping(ctx, db); err != nil {
			p.logger.Warn().Err(err).Str("database", name).Msg("health probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = status
		}
		p.health.SetServingStatus(name, status)
	}
	p.health.SetServingStatus("", overall)
	p.health.SetServingStatus(p.service, overall)
}

func (p *Prober) Run(stop <-chan struct{}, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Probe(context.Background())
		}
	}
}
