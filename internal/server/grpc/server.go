// Package grpc exposes the account, document and blob services over gRPC.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/ele/internal/api"
	"github.com/dmitrijs2005/ele/internal/logging"
	"github.com/dmitrijs2005/ele/internal/server/services"
)

type userSvc interface {
	CreateUser(ctx context.Context, email, password string) (*services.TokenPair, error)
	SignInWithPassword(ctx context.Context, email, password string) (*services.TokenPair, error)
	SignInWithFederatedToken(ctx context.Context, provider, idToken string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type documentSvc interface {
	GetDocument(ctx context.Context, userID, collection, id string) (map[string]any, bool, error)
	SetDocument(ctx context.Context, userID, collection, id string, fields map[string]any, merge bool) error
}

type blobSvc interface {
	GetUploadURL(ctx context.Context, userID, path, contentType string) (string, error)
	GetDownloadURL(ctx context.Context, userID, path string) (string, error)
}

type GRPCServer struct {
	api.UnimplementedAccountServiceServer
	address   string
	users     userSvc
	documents documentSvc
	blobs     blobSvc
	limiter   *peerLimiter
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer wires the services. rate and burst bound credential-bearing
// calls per peer address.
func NewGRPCServer(a string, l logging.Logger, us userSvc, ds documentSvc, bs blobSvc,
	secretKey string, rate float64, burst int) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		documents: ds,
		blobs:     bs,
		limiter:   newPeerLimiter(rate, burst),
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.rateLimitInterceptor, s.accessTokenInterceptor))
	api.RegisterAccountServiceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
