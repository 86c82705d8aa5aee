package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/kodex/internal/common"
	"github.com/dmitrijs2005/kodex/internal/rpc"
	"github.com/dmitrijs2005/kodex/internal/server/auth"
	"github.com/dmitrijs2005/kodex/internal/server/models"
	"github.com/dmitrijs2005/kodex/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fakeHistory struct {
	owner    string
	pushed   []*models.Record
	accepted []string
	pushErr  error
	list     []*models.Record
	publish  *services.PublishResult
	pubErr   error
}

func (f *fakeHistory) Push(ctx context.Context, ownerID string, recs []*models.Record) ([]string, error) {
	f.owner, f.pushed = ownerID, recs
	return f.accepted, f.pushErr
}

func (f *fakeHistory) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	f.owner = ownerID
	return f.list, nil
}

func (f *fakeHistory) Publish(ctx context.Context, ownerID, id string) (*services.PublishResult, error) {
	f.owner = ownerID
	return f.publish, f.pubErr
}

const testSecret = "secret"

func startBufServer(t *testing.T, hs HistoryService) rpc.HistoryClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := newTestServer(testSecret, hs)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return rpc.NewHistoryClient(conn)
}

func authed(t *testing.T, owner string) context.Context {
	t.Helper()
	tok, err := auth.GenerateToken(owner, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, tok)
}

func TestRoundTrip_Ping(t *testing.T) {
	c := startBufServer(t, &fakeHistory{})
	_, err := c.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
}

func TestRoundTrip_PushRequiresToken(t *testing.T) {
	c := startBufServer(t, &fakeHistory{})
	in, err := rpc.RecordsToStruct(nil)
	require.NoError(t, err)

	_, err = c.Push(context.Background(), in)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRoundTrip_Push(t *testing.T) {
	fh := &fakeHistory{accepted: []string{"a"}}
	c := startBufServer(t, fh)

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in, err := rpc.RecordsToStruct([]rpc.Record{
		{ID: "a", Content: "hello", Direction: "generated", Kind: "plain", Timestamp: ts.UnixMilli()},
		{ID: "b", Deleted: true},
	})
	require.NoError(t, err)

	out, err := c.Push(authed(t, "owner-1"), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, rpc.AcceptedFromStruct(out))
	assert.Equal(t, "owner-1", fh.owner)
	require.Len(t, fh.pushed, 2)
	assert.True(t, fh.pushed[0].CreatedAt.Equal(ts))
	assert.Equal(t, "plain", fh.pushed[0].Kind)
	assert.True(t, fh.pushed[1].Deleted)
}

func TestRoundTrip_PushErrors(t *testing.T) {
	fh := &fakeHistory{pushErr: errors.New("db down")}
	c := startBufServer(t, fh)
	in, err := rpc.RecordsToStruct([]rpc.Record{{ID: "a"}})
	require.NoError(t, err)

	_, err = c.Push(authed(t, "o"), in)
	assert.Equal(t, codes.Internal, status.Code(err))

	fh.pushErr = services.ErrInvalidRecord
	_, err = c.Push(authed(t, "o"), in)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestRoundTrip_List(t *testing.T) {
	ts := time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)
	fh := &fakeHistory{list: []*models.Record{{ID: "a", Content: "x", Kind: "url", Direction: "scanned", CreatedAt: ts}}}
	c := startBufServer(t, fh)

	out, err := c.List(authed(t, "owner-2"), &emptypb.Empty{})
	require.NoError(t, err)

	recs, err := rpc.RecordsFromStruct(out)
	require.NoError(t, err)
	assert.Equal(t, []rpc.Record{{ID: "a", Content: "x", Kind: "url", Direction: "scanned", Timestamp: ts.UnixMilli()}}, recs)
	assert.Equal(t, "owner-2", fh.owner)
}

func TestRoundTrip_Publish(t *testing.T) {
	fh := &fakeHistory{publish: &services.PublishResult{Key: "k", PutURL: "https://put", GetURL: "https://get"}}
	c := startBufServer(t, fh)

	out, err := c.Publish(authed(t, "o"), wrapperspb.String("a"))
	require.NoError(t, err)
	res, err := rpc.PublishFromStruct(out)
	require.NoError(t, err)
	assert.Equal(t, rpc.PublishResult{Key: "k", PutURL: "https://put", GetURL: "https://get"}, res)

	_, err = c.Publish(authed(t, "o"), wrapperspb.String(""))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	fh.pubErr = common.ErrorNotFound
	_, err = c.Publish(authed(t, "o"), wrapperspb.String("missing"))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret", &fakeHistory{})
	srv.address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := newTestServer("secret", &fakeHistory{})
	srv.address = "127.0.0.1:99999"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}
