package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/kodex/internal/logging"
	"github.com/dmitrijs2005/kodex/internal/rpc"
	"github.com/dmitrijs2005/kodex/internal/server/metrics"
	"github.com/dmitrijs2005/kodex/internal/server/models"
	"github.com/dmitrijs2005/kodex/internal/server/services"
	"google.golang.org/grpc"
)

// HistoryService is the business logic behind the RPC handlers.
type HistoryService interface {
	Push(ctx context.Context, ownerID string, recs []*models.Record) ([]string, error)
	List(ctx context.Context, ownerID string) ([]*models.Record, error)
	Publish(ctx context.Context, ownerID, id string) (*services.PublishResult, error)
}

type GRPCServer struct {
	address   string
	history   HistoryService
	logger    logging.Logger
	jwtSecret []byte
	metrics   metrics.Metrics
}

var _ rpc.HistoryServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, hs HistoryService, secretKey string, m metrics.Metrics) (*GRPCServer, error) {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		history:   hs,
		jwtSecret: []byte(secretKey),
		metrics:   m,
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	rpc.RegisterHistoryServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
