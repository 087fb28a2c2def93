package deckrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "studydeck.RemoteStore"

// Method names of the RemoteStore service.
const (
	MethodRegister             = "Register"
	MethodLogin                = "Login"
	MethodRefreshToken         = "RefreshToken"
	MethodCreateDeck           = "CreateDeck"
	MethodGetDeck              = "GetDeck"
	MethodListDecks            = "ListDecks"
	MethodUpdateDeck           = "UpdateDeck"
	MethodDeleteDeck           = "DeleteDeck"
	MethodCreateFlashcard      = "CreateFlashcard"
	MethodCreateFlashcards     = "CreateFlashcards"
	MethodListFlashcards       = "ListFlashcards"
	MethodUpdateFlashcard      = "UpdateFlashcard"
	MethodDeleteFlashcard      = "DeleteFlashcard"
	MethodDeleteDeckFlashcards = "DeleteDeckFlashcards"
	MethodReplaceFlashcards    = "ReplaceFlashcards"
	MethodCreateThread         = "CreateThread"
	MethodListThreads          = "ListThreads"
	MethodGetThread            = "GetThread"
	MethodDeleteThread         = "DeleteThread"
	MethodCreateMessage        = "CreateMessage"
	MethodListMessages         = "ListMessages"
	MethodDeleteMessage        = "DeleteMessage"
	MethodCreateSourceUpload   = "CreateSourceUpload"
)

// FullMethod returns the "/service/method" path used on the wire and in
// grpc.UnaryServerInfo.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// RemoteStoreClient is the client API for the RemoteStore service.
type RemoteStoreClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	CreateDeck(ctx context.Context, in *CreateDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error)
	GetDeck(ctx context.Context, in *GetDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error)
	ListDecks(ctx context.Context, in *ListDecksRequest, opts ...grpc.CallOption) (*ListDecksResponse, error)
	UpdateDeck(ctx context.Context, in *UpdateDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error)
	DeleteDeck(ctx context.Context, in *DeleteDeckRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateFlashcard(ctx context.Context, in *CreateFlashcardRequest, opts ...grpc.CallOption) (*FlashcardResponse, error)
	CreateFlashcards(ctx context.Context, in *CreateFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error)
	ListFlashcards(ctx context.Context, in *ListFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error)
	UpdateFlashcard(ctx context.Context, in *UpdateFlashcardRequest, opts ...grpc.CallOption) (*FlashcardResponse, error)
	DeleteFlashcard(ctx context.Context, in *DeleteFlashcardRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteDeckFlashcards(ctx context.Context, in *DeleteDeckFlashcardsRequest, opts ...grpc.CallOption) (*Empty, error)
	ReplaceFlashcards(ctx context.Context, in *ReplaceFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error)
	CreateThread(ctx context.Context, in *CreateThreadRequest, opts ...grpc.CallOption) (*CreateThreadResponse, error)
	ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error)
	GetThread(ctx context.Context, in *GetThreadRequest, opts ...grpc.CallOption) (*ThreadResponse, error)
	DeleteThread(ctx context.Context, in *DeleteThreadRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateMessage(ctx context.Context, in *CreateMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error)
	DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateSourceUpload(ctx context.Context, in *CreateSourceUploadRequest, opts ...grpc.CallOption) (*CreateSourceUploadResponse, error)
}

type remoteStoreClient struct {
	cc grpc.ClientConnInterface
}

// NewRemoteStoreClient binds the RemoteStore API to a connection. Every call
// is sent with the JSON content-subtype.
func NewRemoteStoreClient(cc grpc.ClientConnInterface) RemoteStoreClient {
	return &remoteStoreClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *remoteStoreClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *remoteStoreClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *remoteStoreClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *remoteStoreClient) CreateDeck(ctx context.Context, in *CreateDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error) {
	return invoke[DeckResponse](ctx, c.cc, MethodCreateDeck, in, opts)
}

func (c *remoteStoreClient) GetDeck(ctx context.Context, in *GetDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error) {
	return invoke[DeckResponse](ctx, c.cc, MethodGetDeck, in, opts)
}

func (c *remoteStoreClient) ListDecks(ctx context.Context, in *ListDecksRequest, opts ...grpc.CallOption) (*ListDecksResponse, error) {
	return invoke[ListDecksResponse](ctx, c.cc, MethodListDecks, in, opts)
}

func (c *remoteStoreClient) UpdateDeck(ctx context.Context, in *UpdateDeckRequest, opts ...grpc.CallOption) (*DeckResponse, error) {
	return invoke[DeckResponse](ctx, c.cc, MethodUpdateDeck, in, opts)
}

func (c *remoteStoreClient) DeleteDeck(ctx context.Context, in *DeleteDeckRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteDeck, in, opts)
}

func (c *remoteStoreClient) CreateFlashcard(ctx context.Context, in *CreateFlashcardRequest, opts ...grpc.CallOption) (*FlashcardResponse, error) {
	return invoke[FlashcardResponse](ctx, c.cc, MethodCreateFlashcard, in, opts)
}

func (c *remoteStoreClient) CreateFlashcards(ctx context.Context, in *CreateFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error) {
	return invoke[ListFlashcardsResponse](ctx, c.cc, MethodCreateFlashcards, in, opts)
}

func (c *remoteStoreClient) ListFlashcards(ctx context.Context, in *ListFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error) {
	return invoke[ListFlashcardsResponse](ctx, c.cc, MethodListFlashcards, in, opts)
}

func (c *remoteStoreClient) UpdateFlashcard(ctx context.Context, in *UpdateFlashcardRequest, opts ...grpc.CallOption) (*FlashcardResponse, error) {
	return invoke[FlashcardResponse](ctx, c.cc, MethodUpdateFlashcard, in, opts)
}

func (c *remoteStoreClient) DeleteFlashcard(ctx context.Context, in *DeleteFlashcardRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteFlashcard, in, opts)
}

func (c *remoteStoreClient) DeleteDeckFlashcards(ctx context.Context, in *DeleteDeckFlashcardsRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteDeckFlashcards, in, opts)
}

func (c *remoteStoreClient) ReplaceFlashcards(ctx context.Context, in *ReplaceFlashcardsRequest, opts ...grpc.CallOption) (*ListFlashcardsResponse, error) {
	return invoke[ListFlashcardsResponse](ctx, c.cc, MethodReplaceFlashcards, in, opts)
}

func (c *remoteStoreClient) CreateThread(ctx context.Context, in *CreateThreadRequest, opts ...grpc.CallOption) (*CreateThreadResponse, error) {
	return invoke[CreateThreadResponse](ctx, c.cc, MethodCreateThread, in, opts)
}

func (c *remoteStoreClient) ListThreads(ctx context.Context, in *ListThreadsRequest, opts ...grpc.CallOption) (*ListThreadsResponse, error) {
	return invoke[ListThreadsResponse](ctx, c.cc, MethodListThreads, in, opts)
}

func (c *remoteStoreClient) GetThread(ctx context.Context, in *GetThreadRequest, opts ...grpc.CallOption) (*ThreadResponse, error) {
	return invoke[ThreadResponse](ctx, c.cc, MethodGetThread, in, opts)
}

func (c *remoteStoreClient) DeleteThread(ctx context.Context, in *DeleteThreadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteThread, in, opts)
}

func (c *remoteStoreClient) CreateMessage(ctx context.Context, in *CreateMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, MethodCreateMessage, in, opts)
}

func (c *remoteStoreClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, MethodListMessages, in, opts)
}

func (c *remoteStoreClient) DeleteMessage(ctx context.Context, in *DeleteMessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteMessage, in, opts)
}

func (c *remoteStoreClient) CreateSourceUpload(ctx context.Context, in *CreateSourceUploadRequest, opts ...grpc.CallOption) (*CreateSourceUploadResponse, error) {
	return invoke[CreateSourceUploadResponse](ctx, c.cc, MethodCreateSourceUpload, in, opts)
}

// RemoteStoreServer is the server API for the RemoteStore service.
// Implementations should embed UnimplementedRemoteStoreServer.
type RemoteStoreServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	CreateDeck(context.Context, *CreateDeckRequest) (*DeckResponse, error)
	GetDeck(context.Context, *GetDeckRequest) (*DeckResponse, error)
	ListDecks(context.Context, *ListDecksRequest) (*ListDecksResponse, error)
	UpdateDeck(context.Context, *UpdateDeckRequest) (*DeckResponse, error)
	DeleteDeck(context.Context, *DeleteDeckRequest) (*Empty, error)
	CreateFlashcard(context.Context, *CreateFlashcardRequest) (*FlashcardResponse, error)
	CreateFlashcards(context.Context, *CreateFlashcardsRequest) (*ListFlashcardsResponse, error)
	ListFlashcards(context.Context, *ListFlashcardsRequest) (*ListFlashcardsResponse, error)
	UpdateFlashcard(context.Context, *UpdateFlashcardRequest) (*FlashcardResponse, error)
	DeleteFlashcard(context.Context, *DeleteFlashcardRequest) (*Empty, error)
	DeleteDeckFlashcards(context.Context, *DeleteDeckFlashcardsRequest) (*Empty, error)
	ReplaceFlashcards(context.Context, *ReplaceFlashcardsRequest) (*ListFlashcardsResponse, error)
	CreateThread(context.Context, *CreateThreadRequest) (*CreateThreadResponse, error)
	ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error)
	GetThread(context.Context, *GetThreadRequest) (*ThreadResponse, error)
	DeleteThread(context.Context, *DeleteThreadRequest) (*Empty, error)
	CreateMessage(context.Context, *CreateMessageRequest) (*MessageResponse, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*Empty, error)
	CreateSourceUpload(context.Context, *CreateSourceUploadRequest) (*CreateSourceUploadResponse, error)
}

// UnimplementedRemoteStoreServer answers every method with codes.Unimplemented.
type UnimplementedRemoteStoreServer struct{}

func (UnimplementedRemoteStoreServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedRemoteStoreServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedRemoteStoreServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}

func (UnimplementedRemoteStoreServer) CreateDeck(context.Context, *CreateDeckRequest) (*DeckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDeck not implemented")
}

func (UnimplementedRemoteStoreServer) GetDeck(context.Context, *GetDeckRequest) (*DeckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDeck not implemented")
}

func (UnimplementedRemoteStoreServer) ListDecks(context.Context, *ListDecksRequest) (*ListDecksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDecks not implemented")
}

func (UnimplementedRemoteStoreServer) UpdateDeck(context.Context, *UpdateDeckRequest) (*DeckResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateDeck not implemented")
}

func (UnimplementedRemoteStoreServer) DeleteDeck(context.Context, *DeleteDeckRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteDeck not implemented")
}

func (UnimplementedRemoteStoreServer) CreateFlashcard(context.Context, *CreateFlashcardRequest) (*FlashcardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateFlashcard not implemented")
}

func (UnimplementedRemoteStoreServer) CreateFlashcards(context.Context, *CreateFlashcardsRequest) (*ListFlashcardsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateFlashcards not implemented")
}

func (UnimplementedRemoteStoreServer) ListFlashcards(context.Context, *ListFlashcardsRequest) (*ListFlashcardsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListFlashcards not implemented")
}

func (UnimplementedRemoteStoreServer) UpdateFlashcard(context.Context, *UpdateFlashcardRequest) (*FlashcardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateFlashcard not implemented")
}

func (UnimplementedRemoteStoreServer) DeleteFlashcard(context.Context, *DeleteFlashcardRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteFlashcard not implemented")
}

func (UnimplementedRemoteStoreServer) DeleteDeckFlashcards(context.Context, *DeleteDeckFlashcardsRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteDeckFlashcards not implemented")
}

func (UnimplementedRemoteStoreServer) ReplaceFlashcards(context.Context, *ReplaceFlashcardsRequest) (*ListFlashcardsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReplaceFlashcards not implemented")
}

func (UnimplementedRemoteStoreServer) CreateThread(context.Context, *CreateThreadRequest) (*CreateThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateThread not implemented")
}

func (UnimplementedRemoteStoreServer) ListThreads(context.Context, *ListThreadsRequest) (*ListThreadsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListThreads not implemented")
}

func (UnimplementedRemoteStoreServer) GetThread(context.Context, *GetThreadRequest) (*ThreadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetThread not implemented")
}

func (UnimplementedRemoteStoreServer) DeleteThread(context.Context, *DeleteThreadRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteThread not implemented")
}

func (UnimplementedRemoteStoreServer) CreateMessage(context.Context, *CreateMessageRequest) (*MessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateMessage not implemented")
}

func (UnimplementedRemoteStoreServer) ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMessages not implemented")
}

func (UnimplementedRemoteStoreServer) DeleteMessage(context.Context, *DeleteMessageRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMessage not implemented")
}

func (UnimplementedRemoteStoreServer) CreateSourceUpload(context.Context, *CreateSourceUploadRequest) (*CreateSourceUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSourceUpload not implemented")
}

func unary[Req any, Resp any](method string, call func(RemoteStoreServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RemoteStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RemoteStoreServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RemoteStoreServiceDesc describes the RemoteStore service for
// grpc.Server.RegisterService.
var RemoteStoreServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RemoteStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRegister, Handler: unary(MethodRegister, RemoteStoreServer.Register)},
		{MethodName: MethodLogin, Handler: unary(MethodLogin, RemoteStoreServer.Login)},
		{MethodName: MethodRefreshToken, Handler: unary(MethodRefreshToken, RemoteStoreServer.RefreshToken)},
		{MethodName: MethodCreateDeck, Handler: unary(MethodCreateDeck, RemoteStoreServer.CreateDeck)},
		{MethodName: MethodGetDeck, Handler: unary(MethodGetDeck, RemoteStoreServer.GetDeck)},
		{MethodName: MethodListDecks, Handler: unary(MethodListDecks, RemoteStoreServer.ListDecks)},
		{MethodName: MethodUpdateDeck, Handler: unary(MethodUpdateDeck, RemoteStoreServer.UpdateDeck)},
		{MethodName: MethodDeleteDeck, Handler: unary(MethodDeleteDeck, RemoteStoreServer.DeleteDeck)},
		{MethodName: MethodCreateFlashcard, Handler: unary(MethodCreateFlashcard, RemoteStoreServer.CreateFlashcard)},
		{MethodName: MethodCreateFlashcards, Handler: unary(MethodCreateFlashcards, RemoteStoreServer.CreateFlashcards)},
		{MethodName: MethodListFlashcards, Handler: unary(MethodListFlashcards, RemoteStoreServer.ListFlashcards)},
		{MethodName: MethodUpdateFlashcard, Handler: unary(MethodUpdateFlashcard, RemoteStoreServer.UpdateFlashcard)},
		{MethodName: MethodDeleteFlashcard, Handler: unary(MethodDeleteFlashcard, RemoteStoreServer.DeleteFlashcard)},
		{MethodName: MethodDeleteDeckFlashcards, Handler: unary(MethodDeleteDeckFlashcards, RemoteStoreServer.DeleteDeckFlashcards)},
		{MethodName: MethodReplaceFlashcards, Handler: unary(MethodReplaceFlashcards, RemoteStoreServer.ReplaceFlashcards)},
		{MethodName: MethodCreateThread, Handler: unary(MethodCreateThread, RemoteStoreServer.CreateThread)},
		{MethodName: MethodListThreads, Handler: unary(MethodListThreads, RemoteStoreServer.ListThreads)},
		{MethodName: MethodGetThread, Handler: unary(MethodGetThread, RemoteStoreServer.GetThread)},
		{MethodName: MethodDeleteThread, Handler: unary(MethodDeleteThread, RemoteStoreServer.DeleteThread)},
		{MethodName: MethodCreateMessage, Handler: unary(MethodCreateMessage, RemoteStoreServer.CreateMessage)},
		{MethodName: MethodListMessages, Handler: unary(MethodListMessages, RemoteStoreServer.ListMessages)},
		{MethodName: MethodDeleteMessage, Handler: unary(MethodDeleteMessage, RemoteStoreServer.DeleteMessage)},
		{MethodName: MethodCreateSourceUpload, Handler: unary(MethodCreateSourceUpload, RemoteStoreServer.CreateSourceUpload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studydeck/remote_store",
}

// RegisterRemoteStoreServer registers srv on s.
func RegisterRemoteStoreServer(s grpc.ServiceRegistrar, srv RemoteStoreServer) {
	s.RegisterService(&RemoteStoreServiceDesc, srv)
}
