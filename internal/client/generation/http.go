package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/auth"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/common"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

const (
	pathManual   = "/gemini/manual"
	pathAuto     = "/gemini/auto"
	pathEdit     = "/gemini/edit"
	pathRespond  = "/tts/generate_llm_response"
	pathEvaluate = "/tts/evaluate"

	maxResponseSize = 10 << 20
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	creds   auth.CredentialProvider
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, creds auth.CredentialProvider, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log.With("module", "generation"),
	}
}

type part struct {
	field string
	value string
	file  *File
}

func encodeForm(parts []part) (string, *bytes.Buffer, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, p := range parts {
		if p.file == nil {
			if err := w.WriteField(p.field, p.value); err != nil {
				return "", nil, err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.file.Name))
		ct := p.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		fw, err := w.CreatePart(h)
		if err != nil {
			return "", nil, err
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), body, nil
}

// post sends parts to path and returns the raw response body. The session
// check comes first so a missing login never reaches the network.
func (c *HTTPClient) post(ctx context.Context, path string, parts []part) ([]byte, error) {
	creds, err := c.creds.Credentials(ctx)
	if err != nil {
		return nil, err
	}

	contentType, body, err := encodeForm(parts)
	if err != nil {
		return nil, fmt.Errorf("%w: encode form: %v", common.ErrGenerationFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+creds.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "generation request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", common.ErrGenerationFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn(ctx, "generation service error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: API error: %d", common.ErrGenerationFailure, resp.StatusCode)
	}

	return data, nil
}

type rawCard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// normalizeCards turns generator output into flashcards. Generator ids are
// never server ids, so any id it supplies stays pending.
func normalizeCards(raw []rawCard) []models.Flashcard {
	cards := make([]models.Flashcard, 0, len(raw))
	for _, r := range raw {
		f := models.Flashcard{Question: r.Question, Answer: r.Answer}
		if r.ID != "" {
			f.ID = models.PendingID(strings.TrimPrefix(r.ID, "local:"))
		}
		cards = append(cards, f.Normalize())
	}
	return cards
}

// decodeResult reads {cards, user_id}. A missing or non-list cards field is
// malformed.
func decodeResult(data []byte) (Result, error) {
	var body struct {
		Cards  json.RawMessage `json:"cards"`
		UserID string          `json:"user_id"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}

	raw, err := decodeCardList(body.Cards)
	if err != nil {
		return Result{}, err
	}

	return Result{Cards: normalizeCards(raw), UserID: body.UserID}, nil
}

func decodeCardList(data json.RawMessage) ([]rawCard, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: cards missing or not a list", common.ErrGenerationFailure)
	}
	var raw []rawCard
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	return raw, nil
}

func (c *HTTPClient) Generate(ctx context.Context, subject string) (Result, error) {
	data, err := c.post(ctx, pathManual, []part{{field: "subject", value: strings.TrimSpace(subject)}})
	if err != nil {
		return Result{}, err
	}
	return decodeResult(data)
}

func (c *HTTPClient) GenerateFromFile(ctx context.Context, file File) (Result, error) {
	data, err := c.post(ctx, pathAuto, []part{{field: "file", file: &file}})
	if err != nil {
		return Result{}, err
	}
	return decodeResult(data)
}

// Edit accepts either {"flashcards": [...]} or a bare list.
func (c *HTTPClient) Edit(ctx context.Context, instruction string, current []models.Flashcard) ([]models.Flashcard, error) {
	currentJSON, err := json.Marshal(models.CloneFlashcards(current))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}

	data, err := c.post(ctx, pathEdit, []part{
		{field: "user_input", value: strings.TrimSpace(instruction)},
		{field: "current_flashcards", value: string(currentJSON)},
	})
	if err != nil {
		return nil, err
	}

	list := json.RawMessage(bytes.TrimSpace(data))
	if len(list) > 0 && list[0] == '{' {
		var wrapped struct {
			Flashcards json.RawMessage `json:"flashcards"`
		}
		if err := json.Unmarshal(list, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
		}
		list = wrapped.Flashcards
	}

	raw, err := decodeCardList(list)
	if err != nil {
		return nil, err
	}
	return normalizeCards(raw), nil
}

func (c *HTTPClient) TranscribeAndRespond(ctx context.Context, audio File, history []string, languageCode string) (Reply, error) {
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}
	if history == nil {
		history = []string{}
	}
	if audio.Name == "" {
		audio.Name = fmt.Sprintf("audio-%d.webm", time.Now().UnixMilli())
	}
	if audio.ContentType == "" {
		audio.ContentType = "audio/webm"
	}

	historyJSON, err := json.Marshal(history)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}

	data, err := c.post(ctx, pathRespond, []part{
		{field: "audio_file", file: &audio},
		{field: "chat_history_json", value: string(historyJSON)},
		{field: "language_code", value: languageCode},
	})
	if err != nil {
		return Reply{}, err
	}

	var reply Reply
	if err := json.Unmarshal(data, &reply); err != nil {
		return Reply{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	return reply, nil
}

func (c *HTTPClient) Evaluate(ctx context.Context, conversation []models.ConversationTurn) (models.EvaluationScore, error) {
	if conversation == nil {
		conversation = []models.ConversationTurn{}
	}
	convJSON, err := json.Marshal(conversation)
	if err != nil {
		return models.EvaluationScore{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}

	data, err := c.post(ctx, pathEvaluate, []part{{field: "chat_history_json", value: string(convJSON)}})
	if err != nil {
		return models.EvaluationScore{}, err
	}

	var score models.EvaluationScore
	if err := json.Unmarshal(data, &score); err != nil {
		return models.EvaluationScore{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	if err := score.Validate(); err != nil {
		return models.EvaluationScore{}, fmt.Errorf("%w: %v", common.ErrGenerationFailure, err)
	}
	return score, nil
}
