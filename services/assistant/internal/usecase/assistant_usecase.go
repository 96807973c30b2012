package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"online-panthi/pkg/logger"
	"online-panthi/services/assistant/internal/entity"
	"online-panthi/services/assistant/internal/repo/history"
	"online-panthi/services/assistant/internal/repo/webapi"

	"github.com/google/uuid"
)

const (
	SystemPrompt = "You are OnlinePanthi's friendly AI Teacher. Answer briefly and correctly in 2–4 short bullet points with helpful emojis. Keep it concise and straight to the point. If an equation, code, or definition is needed, include a tiny example (1–3 lines maximum). Avoid long paragraphs."

	// ContextTurns is how many stored turns are sent along with a prompt.
	ContextTurns    = 6
	maxPromptLength = 2000

	NotConfiguredAnswer = "⚠️ Mistral API key is not configured. Please set MISTRAL_API_KEY on the assistant service."
	EmptyAnswer         = "I couldn't generate a response."
)

// ChatCompleter is implemented by *webapi.MistralClient.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []webapi.ChatMessage) (string, error)
}

type AssistantUseCase interface {
	Ask(ctx context.Context, owner, prompt string) (*entity.Reply, error)
	History(ctx context.Context, owner string) ([]entity.Message, error)
	ClearHistory(ctx context.Context, owner string) error
}

type assistantUseCase struct {
	completer ChatCompleter
	history   history.Store
	logger    *logger.Logger
}

func NewAssistantUseCase(completer ChatCompleter, store history.Store, logger *logger.Logger) AssistantUseCase {
	if store == nil {
		store = history.NewMemoryStore()
	}
	return &assistantUseCase{
		completer: completer,
		history:   store,
		logger:    logger,
	}
}

// BuildContext returns the system prompt, the last ContextTurns turns of past and the prompt.
func BuildContext(past []entity.Message, prompt string) []webapi.ChatMessage {
	if len(past) > ContextTurns {
		past = past[len(past)-ContextTurns:]
	}

	messages := make([]webapi.ChatMessage, 0, len(past)+2)
	messages = append(messages, webapi.ChatMessage{Role: entity.RoleSystem, Content: SystemPrompt})
	for _, m := range past {
		messages = append(messages, webapi.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return append(messages, webapi.ChatMessage{Role: entity.RoleUser, Content: prompt})
}

// answerText turns a completion result into the text shown to the learner. Failures become
// readable answers instead of errors.
func answerText(answer string, err error) string {
	var apiErr *webapi.APIError
	switch {
	case errors.Is(err, webapi.ErrNotConfigured):
		return NotConfiguredAnswer
	case errors.As(err, &apiErr):
		return fmt.Sprintf("❌ Mistral API error: %s", apiErr.Error())
	case err != nil:
		return fmt.Sprintf("❌ Network error contacting Mistral: %v", err)
	case strings.TrimSpace(answer) == "":
		return EmptyAnswer
	default:
		return answer
	}
}

func (uc *assistantUseCase) Ask(ctx context.Context, owner, prompt string) (*entity.Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if utf8.RuneCountInString(prompt) > maxPromptLength {
		return nil, ErrPromptTooLong
	}

	past, err := uc.history.Load(ctx, owner)
	if err != nil {
		uc.logger.Warn("Failed to load chat history for %s: %v", owner, err)
		past = nil
	}

	answer, err := uc.completer.Complete(ctx, BuildContext(past, prompt))
	if err != nil {
		uc.logger.Error("Chat completion failed for %s: %v", owner, err)
	}

	now := time.Now().UTC()
	userMsg := entity.Message{ID: uuid.New().String(), Role: entity.RoleUser, Content: prompt, CreatedAt: now}
	aiMsg := entity.Message{ID: uuid.New().String(), Role: entity.RoleAssistant, Content: answerText(answer, err), CreatedAt: now}

	if err := uc.history.Append(ctx, owner, userMsg, aiMsg); err != nil {
		uc.logger.Warn("Failed to store chat history for %s: %v", owner, err)
	}

	return &entity.Reply{
		Answer:   aiMsg.Content,
		Messages: []entity.Message{userMsg, aiMsg},
	}, nil
}

func (uc *assistantUseCase) History(ctx context.Context, owner string) ([]entity.Message, error) {
	msgs, err := uc.history.Load(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return msgs, nil
}

func (uc *assistantUseCase) ClearHistory(ctx context.Context, owner string) error {
	if err := uc.history.Clear(ctx, owner); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
