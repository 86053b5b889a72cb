package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/ele/internal/api"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/auth"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeUsers{}, &fakeDocs{}, &fakeBlobs{}, "secret", 5, 10)

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

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeUsers{}, &fakeDocs{}, &fakeBlobs{}, "secret", 5, 10)

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// dialBuf serves s over an in-memory listener and returns a client.
func dialBuf(t *testing.T, s *GRPCServer) api.AccountServiceClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := s.newServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return api.NewAccountServiceClient(conn)
}

func TestEndToEnd_DocumentRoundTrip(t *testing.T) {
	docs := &fakeDocs{store: map[string]map[string]any{}}
	s := NewGRPCServer("", nopLogger{}, &fakeUsers{}, docs, &fakeBlobs{}, "secret", 0, 0)
	c := dialBuf(t, s)

	token, err := auth.GenerateToken("u1", []byte("secret"), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)

	fields, _ := api.NewFields(map[string]any{"firstName": "Ann", "gender": "female"})
	if _, err := c.SetDocument(ctx, &api.SetDocumentRequest{Collection: common.UsersCollection, ID: "u1", Fields: fields}); err != nil {
		t.Fatalf("SetDocument: %v", err)
	}

	resp, err := c.GetDocument(ctx, &api.GetDocumentRequest{Collection: common.UsersCollection, ID: "u1"})
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if !resp.Found || resp.Fields.AsMap()["firstName"] != "Ann" {
		t.Fatalf("unexpected document: %+v", resp.Fields.AsMap())
	}

	_, err = c.GetDocument(context.Background(), &api.GetDocumentRequest{Collection: common.UsersCollection, ID: "u1"})
	if got := api.FromStatus(err); got != common.ErrorUnauthorized {
		t.Fatalf("want unauthorized without token, got %v", err)
	}
}
