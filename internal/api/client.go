package api

import (
	"context"

	"google.golang.org/grpc"
)

// AccountServiceClient is the client side of AccountServiceServer.
type AccountServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignInWithPassword(ctx context.Context, in *SignInWithPasswordRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SignInWithFederatedToken(ctx context.Context, in *SignInWithFederatedTokenRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	SendPasswordReset(ctx context.Context, in *SendPasswordResetRequest, opts ...grpc.CallOption) (*SendPasswordResetResponse, error)
	ConfirmPasswordReset(ctx context.Context, in *ConfirmPasswordResetRequest, opts ...grpc.CallOption) (*ConfirmPasswordResetResponse, error)
	GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error)
	SetDocument(ctx context.Context, in *SetDocumentRequest, opts ...grpc.CallOption) (*SetDocumentResponse, error)
	GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error)
	GetDownloadURL(ctx context.Context, in *GetDownloadURLRequest, opts ...grpc.CallOption) (*GetDownloadURLResponse, error)
}

type accountServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountServiceClient returns a stub that always selects the JSON codec.
func NewAccountServiceClient(cc grpc.ClientConnInterface) AccountServiceClient {
	return &accountServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, PingFullMethod, in, opts)
}

func (c *accountServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, CreateUserFullMethod, in, opts)
}

func (c *accountServiceClient) SignInWithPassword(ctx context.Context, in *SignInWithPasswordRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, SignInWithPasswordFullMethod, in, opts)
}

func (c *accountServiceClient) SignInWithFederatedToken(ctx context.Context, in *SignInWithFederatedTokenRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, SignInWithFederatedTokenFullMethod, in, opts)
}

func (c *accountServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, RefreshTokenFullMethod, in, opts)
}

func (c *accountServiceClient) SendPasswordReset(ctx context.Context, in *SendPasswordResetRequest, opts ...grpc.CallOption) (*SendPasswordResetResponse, error) {
	return invoke[SendPasswordResetResponse](ctx, c.cc, SendPasswordResetFullMethod, in, opts)
}

func (c *accountServiceClient) ConfirmPasswordReset(ctx context.Context, in *ConfirmPasswordResetRequest, opts ...grpc.CallOption) (*ConfirmPasswordResetResponse, error) {
	return invoke[ConfirmPasswordResetResponse](ctx, c.cc, ConfirmPasswordResetFullMethod, in, opts)
}

func (c *accountServiceClient) GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error) {
	return invoke[GetDocumentResponse](ctx, c.cc, GetDocumentFullMethod, in, opts)
}

func (c *accountServiceClient) SetDocument(ctx context.Context, in *SetDocumentRequest, opts ...grpc.CallOption) (*SetDocumentResponse, error) {
	return invoke[SetDocumentResponse](ctx, c.cc, SetDocumentFullMethod, in, opts)
}

func (c *accountServiceClient) GetUploadURL(ctx context.Context, in *GetUploadURLRequest, opts ...grpc.CallOption) (*GetUploadURLResponse, error) {
	return invoke[GetUploadURLResponse](ctx, c.cc, GetUploadURLFullMethod, in, opts)
}

func (c *accountServiceClient) GetDownloadURL(ctx context.Context, in *GetDownloadURLRequest, opts ...grpc.CallOption) (*GetDownloadURLResponse, error) {
	return invoke[GetDownloadURLResponse](ctx, c.cc, GetDownloadURLFullMethod, in, opts)
}
