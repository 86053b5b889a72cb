package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "ele.v1.AccountService"

// Full method names, as seen by interceptors in UnaryServerInfo.FullMethod.
const (
	PingFullMethod                     = "/" + ServiceName + "/Ping"
	CreateUserFullMethod               = "/" + ServiceName + "/CreateUser"
	SignInWithPasswordFullMethod       = "/" + ServiceName + "/SignInWithPassword"
	SignInWithFederatedTokenFullMethod = "/" + ServiceName + "/SignInWithFederatedToken"
	RefreshTokenFullMethod             = "/" + ServiceName + "/RefreshToken"
	SendPasswordResetFullMethod        = "/" + ServiceName + "/SendPasswordReset"
	ConfirmPasswordResetFullMethod     = "/" + ServiceName + "/ConfirmPasswordReset"
	GetDocumentFullMethod              = "/" + ServiceName + "/GetDocument"
	SetDocumentFullMethod              = "/" + ServiceName + "/SetDocument"
	GetUploadURLFullMethod             = "/" + ServiceName + "/GetUploadURL"
	GetDownloadURLFullMethod           = "/" + ServiceName + "/GetDownloadURL"
)

// AccountServiceServer is implemented by the server transport.
type AccountServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*AuthResponse, error)
	SignInWithPassword(context.Context, *SignInWithPasswordRequest) (*AuthResponse, error)
	SignInWithFederatedToken(context.Context, *SignInWithFederatedTokenRequest) (*AuthResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*AuthResponse, error)
	SendPasswordReset(context.Context, *SendPasswordResetRequest) (*SendPasswordResetResponse, error)
	ConfirmPasswordReset(context.Context, *ConfirmPasswordResetRequest) (*ConfirmPasswordResetResponse, error)
	GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error)
	SetDocument(context.Context, *SetDocumentRequest) (*SetDocumentResponse, error)
	GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error)
	GetDownloadURL(context.Context, *GetDownloadURLRequest) (*GetDownloadURLResponse, error)
}

// UnimplementedAccountServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedAccountServiceServer struct{}

func (UnimplementedAccountServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedAccountServiceServer) CreateUser(context.Context, *CreateUserRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateUser not implemented")
}

func (UnimplementedAccountServiceServer) SignInWithPassword(context.Context, *SignInWithPasswordRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignInWithPassword not implemented")
}

func (UnimplementedAccountServiceServer) SignInWithFederatedToken(context.Context, *SignInWithFederatedTokenRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SignInWithFederatedToken not implemented")
}

func (UnimplementedAccountServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}

func (UnimplementedAccountServiceServer) SendPasswordReset(context.Context, *SendPasswordResetRequest) (*SendPasswordResetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SendPasswordReset not implemented")
}

func (UnimplementedAccountServiceServer) ConfirmPasswordReset(context.Context, *ConfirmPasswordResetRequest) (*ConfirmPasswordResetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ConfirmPasswordReset not implemented")
}

func (UnimplementedAccountServiceServer) GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDocument not implemented")
}

func (UnimplementedAccountServiceServer) SetDocument(context.Context, *SetDocumentRequest) (*SetDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetDocument not implemented")
}

func (UnimplementedAccountServiceServer) GetUploadURL(context.Context, *GetUploadURLRequest) (*GetUploadURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUploadURL not implemented")
}

func (UnimplementedAccountServiceServer) GetDownloadURL(context.Context, *GetDownloadURLRequest) (*GetDownloadURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDownloadURL not implemented")
}

// RegisterAccountServiceServer attaches srv to s.
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// unary adapts a typed method to a grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(PingFullMethod, AccountServiceServer.Ping)},
		{MethodName: "CreateUser", Handler: unary(CreateUserFullMethod, AccountServiceServer.CreateUser)},
		{MethodName: "SignInWithPassword", Handler: unary(SignInWithPasswordFullMethod, AccountServiceServer.SignInWithPassword)},
		{MethodName: "SignInWithFederatedToken", Handler: unary(SignInWithFederatedTokenFullMethod, AccountServiceServer.SignInWithFederatedToken)},
		{MethodName: "RefreshToken", Handler: unary(RefreshTokenFullMethod, AccountServiceServer.RefreshToken)},
		{MethodName: "SendPasswordReset", Handler: unary(SendPasswordResetFullMethod, AccountServiceServer.SendPasswordReset)},
		{MethodName: "ConfirmPasswordReset", Handler: unary(ConfirmPasswordResetFullMethod, AccountServiceServer.ConfirmPasswordReset)},
		{MethodName: "GetDocument", Handler: unary(GetDocumentFullMethod, AccountServiceServer.GetDocument)},
		{MethodName: "SetDocument", Handler: unary(SetDocumentFullMethod, AccountServiceServer.SetDocument)},
		{MethodName: "GetUploadURL", Handler: unary(GetUploadURLFullMethod, AccountServiceServer.GetUploadURL)},
		{MethodName: "GetDownloadURL", Handler: unary(GetDownloadURLFullMethod, AccountServiceServer.GetDownloadURL)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ele/v1/account.proto",
}
