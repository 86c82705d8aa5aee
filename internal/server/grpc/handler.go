package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/rpc"
	"github.com/dmitrijs2005/kodex/internal/server/models"
	"github.com/dmitrijs2005/kodex/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Push(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	in, err := rpc.RecordsFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	recs := make([]*models.Record, 0, len(in))
	for _, r := range in {
		recs = append(recs, &models.Record{
			ID:        r.ID,
			Content:   r.Content,
			Direction: r.Direction,
			Kind:      r.Kind,
			CreatedAt: time.UnixMilli(r.Timestamp).UTC(),
			Deleted:   r.Deleted,
		})
	}

	accepted, err := s.history.Push(ctx, ownerID, recs)
	if err != nil {
		return nil, s.toStatus(ctx, "push", err)
	}
	if skipped := len(recs) - len(accepted); skipped > 0 {
		s.logger.Warn(ctx, "Records owned by another account skipped", "owner", ownerID, "skipped", skipped)
	}
	s.metrics.IncPushedRecords(len(accepted))
	s.logger.Debug(ctx, "Push", "owner", ownerID, "received", len(recs), "accepted", len(accepted))

	return rpc.AcceptedToStruct(accepted)
}

func (s *GRPCServer) List(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	recs, err := s.history.List(ctx, ownerID)
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}

	out := make([]rpc.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, rpc.Record{
			ID:        r.ID,
			Content:   r.Content,
			Direction: r.Direction,
			Kind:      r.Kind,
			Timestamp: r.CreatedAt.UnixMilli(),
			Deleted:   r.Deleted,
		})
	}
	return rpc.RecordsToStruct(out)
}

func (s *GRPCServer) Publish(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	ownerID, ok := ownerFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "record id is required")
	}

	res, err := s.history.Publish(ctx, ownerID, req.GetValue())
	if err != nil {
		return nil, s.toStatus(ctx, "publish", err)
	}
	s.logger.Info(ctx, "Published", "owner", ownerID, "id", req.GetValue(), "key", res.Key)

	return rpc.PublishToStruct(rpc.PublishResult{Key: res.Key, PutURL: res.PutURL, GetURL: res.GetURL})
}

func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, services.ErrInvalidRecord):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
