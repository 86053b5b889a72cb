package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/ele/internal/api"
	"github.com/dmitrijs2005/ele/internal/common"
	"github.com/dmitrijs2005/ele/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// protectedMethods require a valid access token.
var protectedMethods = map[string]bool{
	api.GetDocumentFullMethod:    true,
	api.SetDocumentFullMethod:    true,
	api.GetUploadURLFullMethod:   true,
	api.GetDownloadURLFullMethod: true,
}

// limitedMethods carry credentials and are rate limited per peer.
var limitedMethods = map[string]bool{
	api.CreateUserFullMethod:               true,
	api.SignInWithPasswordFullMethod:       true,
	api.SignInWithFederatedTokenFullMethod: true,
	api.SendPasswordResetFullMethod:        true,
	api.ConfirmPasswordResetFullMethod:     true,
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, api.ToStatus(common.ErrTokenExpired)
		}
		return nil, api.ToStatus(common.ErrInvalidToken)
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

const limiterCleanupInterval = 5 * time.Minute

// peerLimiter keeps one token bucket per remote address. Buckets that have
// refilled completely are dropped every limiterCleanupInterval.
type peerLimiter struct {
	rate    rate.Limit
	burst   int
	buckets sync.Map

	mu          sync.Mutex
	lastCleanup time.Time
	now         func() time.Time
}

func newPeerLimiter(r float64, burst int) *peerLimiter {
	return &peerLimiter{rate: rate.Limit(r), burst: burst, lastCleanup: time.Now(), now: time.Now}
}

func (p *peerLimiter) allow(key string) bool {
	if p.rate <= 0 {
		return true
	}
	p.maybeCleanup()
	l, _ := p.buckets.LoadOrStore(key, rate.NewLimiter(p.rate, p.burst))
	return l.(*rate.Limiter).Allow()
}

func (p *peerLimiter) maybeCleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastCleanup) < limiterCleanupInterval {
		return
	}
	p.lastCleanup = now

	p.buckets.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(p.burst) {
			p.buckets.Delete(key)
		}
		return true
	})
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if limitedMethods[info.FullMethod] && !s.limiter.allow(peerKey(ctx)) {
		s.logger.Warn(ctx, "rate limited", "method", info.FullMethod, "peer", peerKey(ctx))
		return nil, api.ToStatus(common.ErrorRateLimited)
	}
	return handler(ctx, req)
}
