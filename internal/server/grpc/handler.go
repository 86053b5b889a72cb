package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/ele/internal/api"
	"github.com/dmitrijs2005/ele/internal/server/services"
)

// fail logs unexpected errors and converts err to a status.
func (s *GRPCServer) fail(ctx context.Context, op string, err error) error {
	st := api.ToStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, op+" failed", "error", err)
	} else {
		s.logger.Debug(ctx, op+" rejected", "error", err)
	}
	return st
}

func authResponse(p *services.TokenPair) *api.AuthResponse {
	return &api.AuthResponse{UserID: p.UserID, AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.AuthResponse, error) {
	s.logger.Info(ctx, "Registration request")

	pair, err := s.users.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "CreateUser", err)
	}

	s.logger.Info(ctx, "Registered", "uid", pair.UserID)
	return authResponse(pair), nil
}

func (s *GRPCServer) SignInWithPassword(ctx context.Context, req *api.SignInWithPasswordRequest) (*api.AuthResponse, error) {
	pair, err := s.users.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, "SignInWithPassword", err)
	}
	return authResponse(pair), nil
}

func (s *GRPCServer) SignInWithFederatedToken(ctx context.Context, req *api.SignInWithFederatedTokenRequest) (*api.AuthResponse, error) {
	pair, err := s.users.SignInWithFederatedToken(ctx, req.Provider, req.IDToken)
	if err != nil {
		return nil, s.fail(ctx, "SignInWithFederatedToken", err)
	}
	s.logger.Info(ctx, "Federated sign-in", "provider", req.Provider, "uid", pair.UserID)
	return authResponse(pair), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.AuthResponse, error) {
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "RefreshToken", err)
	}
	return authResponse(pair), nil
}

func (s *GRPCServer) SendPasswordReset(ctx context.Context, req *api.SendPasswordResetRequest) (*api.SendPasswordResetResponse, error) {
	if err := s.users.SendPasswordReset(ctx, req.Email); err != nil {
		return nil, s.fail(ctx, "SendPasswordReset", err)
	}
	return &api.SendPasswordResetResponse{}, nil
}

func (s *GRPCServer) ConfirmPasswordReset(ctx context.Context, req *api.ConfirmPasswordResetRequest) (*api.ConfirmPasswordResetResponse, error) {
	if err := s.users.ConfirmPasswordReset(ctx, req.Token, req.NewPassword); err != nil {
		return nil, s.fail(ctx, "ConfirmPasswordReset", err)
	}
	return &api.ConfirmPasswordResetResponse{}, nil
}

func (s *GRPCServer) GetDocument(ctx context.Context, req *api.GetDocumentRequest) (*api.GetDocumentResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	fields, found, err := s.documents.GetDocument(ctx, userID, req.Collection, req.ID)
	if err != nil {
		return nil, s.fail(ctx, "GetDocument", err)
	}
	if !found {
		return &api.GetDocumentResponse{}, nil
	}

	f, err := api.NewFields(fields)
	if err != nil {
		return nil, s.fail(ctx, "GetDocument", err)
	}
	return &api.GetDocumentResponse{Found: true, Fields: f}, nil
}

func (s *GRPCServer) SetDocument(ctx context.Context, req *api.SetDocumentRequest) (*api.SetDocumentResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	if err := s.documents.SetDocument(ctx, userID, req.Collection, req.ID, req.Fields.AsMap(), req.Merge); err != nil {
		return nil, s.fail(ctx, "SetDocument", err)
	}
	return &api.SetDocumentResponse{}, nil
}

func (s *GRPCServer) GetUploadURL(ctx context.Context, req *api.GetUploadURLRequest) (*api.GetUploadURLResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	url, err := s.blobs.GetUploadURL(ctx, userID, req.Path, req.ContentType)
	if err != nil {
		return nil, s.fail(ctx, "GetUploadURL", err)
	}
	return &api.GetUploadURLResponse{URL: url}, nil
}

func (s *GRPCServer) GetDownloadURL(ctx context.Context, req *api.GetDownloadURLRequest) (*api.GetDownloadURLResponse, error) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	url, err := s.blobs.GetDownloadURL(ctx, userID, req.Path)
	if err != nil {
		return nil, s.fail(ctx, "GetDownloadURL", err)
	}
	return &api.GetDownloadURLResponse{URL: url}, nil
}
