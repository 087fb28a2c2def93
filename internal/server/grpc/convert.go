package grpc

import (
	"github.com/dmitrijs2005/studydeck/internal/deckrpc"
	"github.com/dmitrijs2005/studydeck/internal/server/models"
)

func deckToRPC(d *models.Deck) deckrpc.Deck {
	return deckrpc.Deck{
		ID:          d.ID,
		CreatedAt:   d.CreatedAt,
		Name:        d.Name,
		CreatorID:   d.CreatorID,
		Subject:     d.Subject,
		Description: d.Description,
	}
}

func flashcardToRPC(f *models.Flashcard) deckrpc.Flashcard {
	return deckrpc.Flashcard{
		ID:        f.ID,
		CreatedAt: f.CreatedAt,
		Question:  f.Question,
		Answer:    f.Answer,
		DeckID:    f.DeckID,
	}
}

func flashcardsToRPC(cards []*models.Flashcard) []deckrpc.Flashcard {
	out := make([]deckrpc.Flashcard, 0, len(cards))
	for _, c := range cards {
		out = append(out, flashcardToRPC(c))
	}
	return out
}

func threadToRPC(t *models.MessageThread) deckrpc.MessageThread {
	return deckrpc.MessageThread{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		CreatorID: t.CreatorID,
	}
}

func messageToRPC(m *models.Message) deckrpc.Message {
	return deckrpc.Message{
		ID:          m.ID,
		CreatedAt:   m.CreatedAt,
		Content:     m.Content,
		Role:        m.Role,
		ThreadID:    m.ThreadID,
		ClientToken: m.ClientToken,
	}
}
