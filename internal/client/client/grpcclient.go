package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrijs2005/ele/internal/api"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/netx"
)

type GRPCClient struct {
	endpointURL string
	pingTimeout time.Duration
	conn        *grpc.ClientConn
	client      api.AccountServiceClient
	httpClient  *http.Client

	mu           sync.Mutex
	userID       string
	accessToken  string
	refreshToken string
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

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setSession(r *api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.UserID != "" {
		s.userID = r.UserID
	}
	s.accessToken = r.AccessToken
	s.refreshToken = r.RefreshToken
}

// accessTokenInterceptor retries a call once with fresh tokens when the
// server reports the access token as expired.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.tokens()
	if access == "" || method == api.RefreshTokenFullMethod {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || refresh == "" || !errors.Is(api.FromStatus(err), common.ErrTokenExpired) {
		return err
	}

	resp, rerr := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}
	s.setSession(resp)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazy connection; nothing is dialled until the
// first call.
func NewGRPCClient(endpointURL string, pingTimeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, pingTimeout: pingTimeout, httpClient: &http.Client{}}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	if s.pingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pingTimeout)
		defer cancel()
	}

	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return api.FromStatus(err)
	}
	if resp.Status != "OK" {
		return common.ErrorUnavailable
	}
	return nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.CreateUser(ctx, &api.CreateUserRequest{Email: email, Password: password})
	if err != nil {
		return "", api.FromStatus(err)
	}
	s.setSession(resp)
	return resp.UserID, nil
}

func (s *GRPCClient) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.SignInWithPassword(ctx, &api.SignInWithPasswordRequest{Email: email, Password: password})
	if err != nil {
		return "", api.FromStatus(err)
	}
	s.setSession(resp)
	return resp.UserID, nil
}

func (s *GRPCClient) SignInWithFederatedToken(ctx context.Context, provider, idToken string) (string, error) {
	resp, err := s.client.SignInWithFederatedToken(ctx, &api.SignInWithFederatedTokenRequest{Provider: provider, IDToken: idToken})
	if err != nil {
		return "", api.FromStatus(err)
	}
	s.setSession(resp)
	return resp.UserID, nil
}

func (s *GRPCClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := s.client.SendPasswordReset(ctx, &api.SendPasswordResetRequest{Email: email})
	return api.FromStatus(err)
}

func (s *GRPCClient) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	_, err := s.client.ConfirmPasswordReset(ctx, &api.ConfirmPasswordResetRequest{Token: token, NewPassword: newPassword})
	return api.FromStatus(err)
}

// CurrentUserID is empty when signed out.
func (s *GRPCClient) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// SignOut forgets the session. Tokens are not revoked server-side.
func (s *GRPCClient) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID, s.accessToken, s.refreshToken = "", "", ""
}

func (s *GRPCClient) GetDocument(ctx context.Context, collection, id string) (map[string]any, bool, error) {
	resp, err := s.client.GetDocument(ctx, &api.GetDocumentRequest{Collection: collection, ID: id})
	if err != nil {
		return nil, false, api.FromStatus(err)
	}
	if !resp.Found {
		return nil, false, nil
	}
	return resp.Fields.AsMap(), true, nil
}

func (s *GRPCClient) SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	f, err := api.NewFields(fields)
	if err != nil {
		return err
	}
	_, err = s.client.SetDocument(ctx, &api.SetDocumentRequest{Collection: collection, ID: id, Fields: f, Merge: merge})
	return api.FromStatus(err)
}

// PutObject uploads data to path through a presigned URL.
func (s *GRPCClient) PutObject(ctx context.Context, path string, data []byte, contentType string) error {
	resp, err := s.client.GetUploadURL(ctx, &api.GetUploadURLRequest{Path: path, ContentType: contentType})
	if err != nil {
		return api.FromStatus(err)
	}
	return netx.UploadToPresignedURL(ctx, s.httpClient, resp.URL, data, contentType)
}

func (s *GRPCClient) DownloadURL(ctx context.Context, path string) (string, error) {
	resp, err := s.client.GetDownloadURL(ctx, &api.GetDownloadURLRequest{Path: path})
	if err != nil {
		return "", api.FromStatus(err)
	}
	return resp.URL, nil
}
