package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DefaultCallTimeout bounds every RPC unless SetTimeout overrides it.
const DefaultCallTimeout = 15 * time.Second

type GRPCClient struct {
	endpointURL string
	accessToken string
	conn        *grpc.ClientConn
	client      rpc.HistoryClient
	timeout     time.Duration
}

// NewGRPCClient prepares a lazy connection to endpointURL. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken, timeout: DefaultCallTimeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewHistoryClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withAccessToken(ctx, c.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// SetTimeout changes the per-call deadline. Non-positive values are ignored.
func (c *GRPCClient) SetTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.client.Ping(ctx, &emptypb.Empty{})
	return mapError(err)
}

func (c *GRPCClient) Push(ctx context.Context, recs []rpc.Record) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	in, err := rpc.RecordsToStruct(recs)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	out, err := c.client.Push(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}
	return rpc.AcceptedFromStruct(out), nil
}

func (c *GRPCClient) List(ctx context.Context) ([]rpc.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.List(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return rpc.RecordsFromStruct(out)
}

func (c *GRPCClient) Publish(ctx context.Context, id string) (rpc.PublishResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.client.Publish(ctx, wrapperspb.String(id))
	if err != nil {
		return rpc.PublishResult{}, mapError(err)
	}
	return rpc.PublishFromStruct(out)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
