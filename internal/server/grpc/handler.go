package grpc

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

func (s *GRPCServer) Register(ctx context.Context, req *deckrpc.RegisterRequest) (*deckrpc.RegisterResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodRegister, err)
	}
	return &deckrpc.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *deckrpc.LoginRequest) (*deckrpc.LoginResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	pair, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodLogin, err)
	}
	return &deckrpc.LoginResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, UserID: pair.UserID}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *deckrpc.RefreshTokenRequest) (*deckrpc.RefreshTokenResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	pair, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodRefreshToken, err)
	}
	return &deckrpc.RefreshTokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// caller validates req and returns the authenticated user id.
func (s *GRPCServer) caller(ctx context.Context, req any) (string, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	if err := s.validateRequest(req); err != nil {
		return "", err
	}
	return userID, nil
}

func (s *GRPCServer) CreateDeck(ctx context.Context, req *deckrpc.CreateDeckRequest) (*deckrpc.DeckResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	d, err := s.decks.CreateDeck(ctx, userID, models.Deck{Name: req.Name, Subject: req.Subject, Description: req.Description})
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateDeck, err)
	}
	return &deckrpc.DeckResponse{Deck: deckToRPC(d)}, nil
}

func (s *GRPCServer) GetDeck(ctx context.Context, req *deckrpc.GetDeckRequest) (*deckrpc.DeckResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	d, err := s.decks.GetDeck(ctx, userID, req.ID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodGetDeck, err)
	}
	return &deckrpc.DeckResponse{Deck: deckToRPC(d)}, nil
}

func (s *GRPCServer) ListDecks(ctx context.Context, req *deckrpc.ListDecksRequest) (*deckrpc.ListDecksResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	creatorID := req.CreatorID
	if creatorID == "" {
		creatorID = userID
	}
	decks, err := s.decks.ListDecks(ctx, userID, creatorID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodListDecks, err)
	}
	out := make([]deckrpc.Deck, 0, len(decks))
	for _, d := range decks {
		out = append(out, deckToRPC(d))
	}
	return &deckrpc.ListDecksResponse{Decks: out}, nil
}

func (s *GRPCServer) UpdateDeck(ctx context.Context, req *deckrpc.UpdateDeckRequest) (*deckrpc.DeckResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	patch := models.DeckPatch{Name: req.Name, Subject: req.Subject, Description: req.Description}
	d, err := s.decks.UpdateDeck(ctx, userID, req.ID, patch)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodUpdateDeck, err)
	}
	return &deckrpc.DeckResponse{Deck: deckToRPC(d)}, nil
}

func (s *GRPCServer) DeleteDeck(ctx context.Context, req *deckrpc.DeleteDeckRequest) (*deckrpc.Empty, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.decks.DeleteDeck(ctx, userID, req.ID); err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodDeleteDeck, err)
	}
	return &deckrpc.Empty{}, nil
}

func (s *GRPCServer) CreateFlashcard(ctx context.Context, req *deckrpc.CreateFlashcardRequest) (*deckrpc.FlashcardResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	in := req.Flashcard
	c, err := s.decks.CreateFlashcard(ctx, userID, models.Flashcard{Question: in.Question, Answer: in.Answer, DeckID: in.DeckID})
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateFlashcard, err)
	}
	return &deckrpc.FlashcardResponse{Flashcard: flashcardToRPC(c)}, nil
}

func (s *GRPCServer) CreateFlashcards(ctx context.Context, req *deckrpc.CreateFlashcardsRequest) (*deckrpc.ListFlashcardsResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Flashcard, 0, len(req.Flashcards))
	for _, in := range req.Flashcards {
		cards = append(cards, models.Flashcard{Question: in.Question, Answer: in.Answer, DeckID: in.DeckID})
	}
	created, err := s.decks.CreateFlashcards(ctx, userID, cards)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateFlashcards, err)
	}
	return &deckrpc.ListFlashcardsResponse{Flashcards: flashcardsToRPC(created)}, nil
}

func (s *GRPCServer) ListFlashcards(ctx context.Context, req *deckrpc.ListFlashcardsRequest) (*deckrpc.ListFlashcardsResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	cards, err := s.decks.ListFlashcards(ctx, userID, req.DeckID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodListFlashcards, err)
	}
	return &deckrpc.ListFlashcardsResponse{Flashcards: flashcardsToRPC(cards)}, nil
}

func (s *GRPCServer) UpdateFlashcard(ctx context.Context, req *deckrpc.UpdateFlashcardRequest) (*deckrpc.FlashcardResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	c, err := s.decks.UpdateFlashcard(ctx, userID, req.ID, req.Question, req.Answer)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodUpdateFlashcard, err)
	}
	return &deckrpc.FlashcardResponse{Flashcard: flashcardToRPC(c)}, nil
}

func (s *GRPCServer) DeleteFlashcard(ctx context.Context, req *deckrpc.DeleteFlashcardRequest) (*deckrpc.Empty, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.decks.DeleteFlashcard(ctx, userID, req.ID); err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodDeleteFlashcard, err)
	}
	return &deckrpc.Empty{}, nil
}

func (s *GRPCServer) DeleteDeckFlashcards(ctx context.Context, req *deckrpc.DeleteDeckFlashcardsRequest) (*deckrpc.Empty, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.decks.DeleteDeckFlashcards(ctx, userID, req.DeckID); err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodDeleteDeckFlashcards, err)
	}
	return &deckrpc.Empty{}, nil
}

func (s *GRPCServer) ReplaceFlashcards(ctx context.Context, req *deckrpc.ReplaceFlashcardsRequest) (*deckrpc.ListFlashcardsResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Flashcard, 0, len(req.Flashcards))
	for _, in := range req.Flashcards {
		cards = append(cards, models.Flashcard{Question: in.Question, Answer: in.Answer})
	}
	created, err := s.decks.ReplaceFlashcards(ctx, userID, req.DeckID, cards)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodReplaceFlashcards, err)
	}
	return &deckrpc.ListFlashcardsResponse{Flashcards: flashcardsToRPC(created)}, nil
}

func (s *GRPCServer) CreateThread(ctx context.Context, req *deckrpc.CreateThreadRequest) (*deckrpc.CreateThreadResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	t, created, err := s.threads.CreateThread(ctx, userID, req.Name)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateThread, err)
	}
	return &deckrpc.CreateThreadResponse{Thread: threadToRPC(t), Created: created}, nil
}

func (s *GRPCServer) ListThreads(ctx context.Context, req *deckrpc.ListThreadsRequest) (*deckrpc.ListThreadsResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	threads, err := s.threads.ListThreads(ctx, userID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodListThreads, err)
	}
	out := make([]deckrpc.MessageThread, 0, len(threads))
	for _, t := range threads {
		out = append(out, threadToRPC(t))
	}
	return &deckrpc.ListThreadsResponse{Threads: out}, nil
}

func (s *GRPCServer) GetThread(ctx context.Context, req *deckrpc.GetThreadRequest) (*deckrpc.ThreadResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	t, err := s.threads.GetThread(ctx, userID, req.ID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodGetThread, err)
	}
	return &deckrpc.ThreadResponse{Thread: threadToRPC(t)}, nil
}

func (s *GRPCServer) DeleteThread(ctx context.Context, req *deckrpc.DeleteThreadRequest) (*deckrpc.Empty, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.threads.DeleteThread(ctx, userID, req.ID); err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodDeleteThread, err)
	}
	return &deckrpc.Empty{}, nil
}

func (s *GRPCServer) CreateMessage(ctx context.Context, req *deckrpc.CreateMessageRequest) (*deckrpc.MessageResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	m, err := s.threads.CreateMessage(ctx, userID, models.Message{
		ThreadID:    req.ThreadID,
		Content:     req.Content,
		Role:        req.Role,
		CreatedAt:   req.CreatedAt,
		ClientToken: req.ClientToken,
	})
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateMessage, err)
	}
	return &deckrpc.MessageResponse{Message: messageToRPC(m)}, nil
}

func (s *GRPCServer) ListMessages(ctx context.Context, req *deckrpc.ListMessagesRequest) (*deckrpc.ListMessagesResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	msgs, err := s.threads.ListMessages(ctx, userID, req.ThreadID)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodListMessages, err)
	}
	out := make([]deckrpc.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageToRPC(m))
	}
	return &deckrpc.ListMessagesResponse{Messages: out}, nil
}

func (s *GRPCServer) DeleteMessage(ctx context.Context, req *deckrpc.DeleteMessageRequest) (*deckrpc.Empty, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.threads.DeleteMessage(ctx, userID, req.ID); err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodDeleteMessage, err)
	}
	return &deckrpc.Empty{}, nil
}

func (s *GRPCServer) CreateSourceUpload(ctx context.Context, req *deckrpc.CreateSourceUploadRequest) (*deckrpc.CreateSourceUploadResponse, error) {
	userID, err := s.caller(ctx, req)
	if err != nil {
		return nil, err
	}
	key, url, err := s.sources.CreateUpload(ctx, userID, req.DeckID, req.FileName, req.ContentType)
	if err != nil {
		return nil, s.mapError(ctx, deckrpc.MethodCreateSourceUpload, err)
	}
	return &deckrpc.CreateSourceUploadResponse{Key: key, URL: url}, nil
}
