package remote

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
)

func toRemoteDeck(d deckrpc.Deck) models.RemoteDeck {
	return models.RemoteDeck{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		Name:        d.Name,
		CreatorID:   d.CreatorID,
		Subject:     d.Subject,
		Description: d.Description,
	}
}

func toFlashcard(f deckrpc.Flashcard) models.Flashcard {
	return models.Flashcard{
		ID:        models.CommittedID(f.ID),
		Question:  f.Question,
		Answer:    f.Answer,
		DeckID:    f.DeckID,
		CreatedAt: f.CreatedAt,
	}
}

func toFlashcards(in []deckrpc.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(in))
	for _, f := range in {
		out = append(out, toFlashcard(f))
	}
	return out
}

func toThread(t deckrpc.MessageThread) models.MessageThread {
	return models.MessageThread{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		CreatorID: t.CreatorID,
	}
}

func toRemoteMessage(m deckrpc.Message) models.RemoteMessage {
	return models.RemoteMessage{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		Content:     m.Content,
		Role:        m.Role,
		ThreadID:    m.ThreadID,
		ClientToken: m.ClientToken,
	}
}

// Decks.

func (c *GRPCClient) CreateDeck(ctx context.Context, in models.DeckInput) (models.RemoteDeck, error) {
	resp, err := c.client.CreateDeck(ctx, &deckrpc.CreateDeckRequest{
		Name:        in.Name,
		Subject:     in.Subject,
		Description: in.Description,
	})
	if err != nil {
		return models.RemoteDeck{}, c.mapError(err)
	}
	return toRemoteDeck(resp.Deck), nil
}

func (c *GRPCClient) GetDeck(ctx context.Context, id string) (models.RemoteDeck, error) {
	resp, err := c.client.GetDeck(ctx, &deckrpc.GetDeckRequest{ID: id})
	if err != nil {
		return models.RemoteDeck{}, c.mapError(err)
	}
	return toRemoteDeck(resp.Deck), nil
}

// ListDecks lists the decks of creatorID; an empty creatorID means the
// caller.
func (c *GRPCClient) ListDecks(ctx context.Context, creatorID string) ([]models.RemoteDeck, error) {
	resp, err := c.client.ListDecks(ctx, &deckrpc.ListDecksRequest{CreatorID: creatorID})
	if err != nil {
		return nil, c.mapError(err)
	}
	out := make([]models.RemoteDeck, 0, len(resp.Decks))
	for _, d := range resp.Decks {
		out = append(out, toRemoteDeck(d))
	}
	return out, nil
}

// UpdateDeck sends the metadata fields of patch. Flashcards in the patch are
// ignored; cards are persisted through the flashcard calls.
func (c *GRPCClient) UpdateDeck(ctx context.Context, id string, patch models.DeckPatch) (models.RemoteDeck, error) {
	resp, err := c.client.UpdateDeck(ctx, &deckrpc.UpdateDeckRequest{
		ID:          id,
		Name:        patch.Title,
		Subject:     patch.Subject,
		Description: patch.Description,
	})
	if err != nil {
		return models.RemoteDeck{}, c.mapError(err)
	}
	return toRemoteDeck(resp.Deck), nil
}

func (c *GRPCClient) DeleteDeck(ctx context.Context, id string) error {
	_, err := c.client.DeleteDeck(ctx, &deckrpc.DeleteDeckRequest{ID: id})
	return c.mapError(err)
}

// Flashcards.

func toFlashcardInput(in models.FlashcardInput) deckrpc.FlashcardInput {
	return deckrpc.FlashcardInput{Question: in.Question, Answer: in.Answer, DeckID: in.DeckID}
}

func (c *GRPCClient) CreateFlashcard(ctx context.Context, in models.FlashcardInput) (models.Flashcard, error) {
	resp, err := c.client.CreateFlashcard(ctx, &deckrpc.CreateFlashcardRequest{Flashcard: toFlashcardInput(in)})
	if err != nil {
		return models.Flashcard{}, c.mapError(err)
	}
	return toFlashcard(resp.Flashcard), nil
}

func (c *GRPCClient) CreateFlashcards(ctx context.Context, in []models.FlashcardInput) ([]models.Flashcard, error) {
	req := &deckrpc.CreateFlashcardsRequest{Flashcards: make([]deckrpc.FlashcardInput, 0, len(in))}
	for _, f := range in {
		req.Flashcards = append(req.Flashcards, toFlashcardInput(f))
	}

	resp, err := c.client.CreateFlashcards(ctx, req)
	if err != nil {
		return nil, c.mapError(err)
	}
	return toFlashcards(resp.Flashcards), nil
}

func (c *GRPCClient) ListFlashcards(ctx context.Context, deckID string) ([]models.Flashcard, error) {
	resp, err := c.client.ListFlashcards(ctx, &deckrpc.ListFlashcardsRequest{DeckID: deckID})
	if err != nil {
		return nil, c.mapError(err)
	}
	return toFlashcards(resp.Flashcards), nil
}

func (c *GRPCClient) UpdateFlashcard(ctx context.Context, id string, question, answer *string) (models.Flashcard, error) {
	resp, err := c.client.UpdateFlashcard(ctx, &deckrpc.UpdateFlashcardRequest{ID: id, Question: question, Answer: answer})
	if err != nil {
		return models.Flashcard{}, c.mapError(err)
	}
	return toFlashcard(resp.Flashcard), nil
}

func (c *GRPCClient) DeleteFlashcard(ctx context.Context, id string) error {
	_, err := c.client.DeleteFlashcard(ctx, &deckrpc.DeleteFlashcardRequest{ID: id})
	return c.mapError(err)
}

func (c *GRPCClient) DeleteDeckFlashcards(ctx context.Context, deckID string) error {
	_, err := c.client.DeleteDeckFlashcards(ctx, &deckrpc.DeleteDeckFlashcardsRequest{DeckID: deckID})
	return c.mapError(err)
}

// ReplaceFlashcards swaps a deck's cards for cards in one server-side
// transaction and returns the stored cards with their new ids.
func (c *GRPCClient) ReplaceFlashcards(ctx context.Context, deckID string, cards []models.Flashcard) ([]models.Flashcard, error) {
	req := &deckrpc.ReplaceFlashcardsRequest{DeckID: deckID, Flashcards: make([]deckrpc.CardContent, 0, len(cards))}
	for _, card := range cards {
		req.Flashcards = append(req.Flashcards, deckrpc.CardContent{Question: card.Question, Answer: card.Answer})
	}

	resp, err := c.client.ReplaceFlashcards(ctx, req)
	if err != nil {
		return nil, c.mapError(err)
	}
	return toFlashcards(resp.Flashcards), nil
}

// Threads.

func (c *GRPCClient) CreateThread(ctx context.Context, name string) (models.MessageThread, bool, error) {
	resp, err := c.client.CreateThread(ctx, &deckrpc.CreateThreadRequest{Name: name})
	if err != nil {
		return models.MessageThread{}, false, c.mapError(err)
	}
	return toThread(resp.Thread), resp.Created, nil
}

func (c *GRPCClient) ListThreads(ctx context.Context) ([]models.MessageThread, error) {
	resp, err := c.client.ListThreads(ctx, &deckrpc.ListThreadsRequest{})
	if err != nil {
		return nil, c.mapError(err)
	}
	out := make([]models.MessageThread, 0, len(resp.Threads))
	for _, t := range resp.Threads {
		out = append(out, toThread(t))
	}
	return out, nil
}

func (c *GRPCClient) GetThread(ctx context.Context, id int64) (models.MessageThread, error) {
	resp, err := c.client.GetThread(ctx, &deckrpc.GetThreadRequest{ID: id})
	if err != nil {
		return models.MessageThread{}, c.mapError(err)
	}
	return toThread(resp.Thread), nil
}

func (c *GRPCClient) DeleteThread(ctx context.Context, id int64) error {
	_, err := c.client.DeleteThread(ctx, &deckrpc.DeleteThreadRequest{ID: id})
	return c.mapError(err)
}

// Messages.

func (c *GRPCClient) CreateMessage(ctx context.Context, in models.MessageInput) (models.RemoteMessage, error) {
	resp, err := c.client.CreateMessage(ctx, &deckrpc.CreateMessageRequest{
		ThreadID:    in.ThreadID,
		Content:     in.Content,
		Role:        in.Role,
		CreatedAt:   in.CreatedAt,
		ClientToken: in.ClientToken,
	})
	if err != nil {
		return models.RemoteMessage{}, c.mapError(err)
	}
	return toRemoteMessage(resp.Message), nil
}

func (c *GRPCClient) ListMessages(ctx context.Context, threadID int64) ([]models.RemoteMessage, error) {
	resp, err := c.client.ListMessages(ctx, &deckrpc.ListMessagesRequest{ThreadID: threadID})
	if err != nil {
		return nil, c.mapError(err)
	}
	out := make([]models.RemoteMessage, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, toRemoteMessage(m))
	}
	return out, nil
}

func (c *GRPCClient) DeleteMessage(ctx context.Context, id int64) error {
	_, err := c.client.DeleteMessage(ctx, &deckrpc.DeleteMessageRequest{ID: id})
	return c.mapError(err)
}
