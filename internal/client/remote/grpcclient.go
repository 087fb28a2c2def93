package remote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var _ Client = (*GRPCClient)(nil)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	dialOpts    []grpc.DialOption

	conn   *grpc.ClientConn
	client deckrpc.RemoteStoreClient
	health healthpb.HealthClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(Tokens)

	refreshMu sync.Mutex
}

type Option func(*GRPCClient)

// WithTimeout bounds every call that arrives without a deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.timeout = d }
}

// WithDialOptions appends dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

// WithRefreshHook registers fn to be called with the new pair after the
// interceptor refreshed the tokens.
func WithRefreshHook(fn func(Tokens)) Option {
	return func(c *GRPCClient) { c.onRefresh = fn }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	for _, o := range opts {
		o(c)
	}
	if err := c.dial(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *GRPCClient) dial() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.authorize),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(c.endpointURL, opts...)
	if err != nil {
		return err
	}
	c.conn = conn
	c.client = deckrpc.NewRemoteStoreClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// SetTokens installs a token pair, e.g. one restored from a saved session.
func (c *GRPCClient) SetTokens(t Tokens) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = t.AccessToken
	c.refreshToken = t.RefreshToken
}

func (c *GRPCClient) tokens() Tokens {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tokens{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

// withAccessToken replaces any access token already in the outgoing
// metadata. An empty token leaves the header out.
func withAccessToken(ctx context.Context, token string) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	delete(md, common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// isTokenExpired reports whether the server rejected the call only because
// the access token ran out.
func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// authorize attaches the access token to every call. When the server
// answers that the token expired, it refreshes the pair once and retries.
// A failed refresh surfaces the original error.
func (c *GRPCClient) authorize(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if _, ok := ctx.Deadline(); !ok && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	sent := c.tokens()
	err := invoker(withAccessToken(ctx, sent.AccessToken), method, req, reply, cc, opts...)
	if !isTokenExpired(err) || method == deckrpc.FullMethod(deckrpc.MethodRefreshToken) {
		return err
	}

	fresh, rerr := c.refresh(ctx, sent)
	if rerr != nil {
		return err
	}
	return invoker(withAccessToken(ctx, fresh.AccessToken), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token for a new pair. Concurrent callers
// that failed with the same access token share one refresh.
func (c *GRPCClient) refresh(ctx context.Context, used Tokens) (Tokens, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current := c.tokens()
	if current.AccessToken != used.AccessToken {
		return current, nil
	}
	if current.RefreshToken == "" {
		return Tokens{}, ErrUnauthorized
	}

	resp, err := c.client.RefreshToken(ctx, &deckrpc.RefreshTokenRequest{RefreshToken: current.RefreshToken})
	if err != nil {
		return Tokens{}, err
	}

	fresh := Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetTokens(fresh)
	if c.onRefresh != nil {
		c.onRefresh(fresh)
	}
	return fresh, nil
}

func (c *GRPCClient) mapError(err error) error {
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
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorAlreadyExists)
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w", st.Message(), common.ErrorValidation)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// Ping asks the server's health service whether the RemoteStore service is
// serving.
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: deckrpc.ServiceName})
	if err != nil {
		return c.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}

	return nil
}

func (c *GRPCClient) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := c.client.Register(ctx, &deckrpc.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", c.mapError(err)
	}
	return resp.UserID, nil
}

// Login authenticates and installs the returned tokens on the client.
func (c *GRPCClient) Login(ctx context.Context, username, password string) (LoginResult, error) {
	resp, err := c.client.Login(ctx, &deckrpc.LoginRequest{Username: username, Password: password})
	if err != nil {
		return LoginResult{}, c.mapError(err)
	}

	tokens := Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.SetTokens(tokens)

	return LoginResult{Tokens: tokens, UserID: resp.UserID}, nil
}

func (c *GRPCClient) CreateSourceUpload(ctx context.Context, deckID, fileName, contentType string) (SourceUpload, error) {
	resp, err := c.client.CreateSourceUpload(ctx, &deckrpc.CreateSourceUploadRequest{
		DeckID:      deckID,
		FileName:    fileName,
		ContentType: contentType,
	})
	if err != nil {
		return SourceUpload{}, c.mapError(err)
	}
	return SourceUpload{Key: resp.Key, URL: resp.URL}, nil
}
