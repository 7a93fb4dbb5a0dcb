package tutor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"edu-classroom/internal/config"
	"edu-classroom/internal/domain"
	"edu-classroom/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	defaultOllamaURL    = "http://localhost:11434"
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultHistoryLimit = 20
	defaultTimeout      = 30 * time.Second

	defaultSystemPrompt = `You are a patient classroom teacher. Answer the student's latest message
clearly and briefly, build on the earlier turns of the conversation, and ask a
short follow-up question when it helps the student check their understanding.`
)

// NewModel builds the LLM client for the configured provider.
func NewModel(cfg config.TutorConfig) (llms.Model, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOllama, "":
		serverURL := cfg.ServerURL
		if serverURL == "" {
			serverURL = defaultOllamaURL
		}
		if cfg.Model == "" {
			return nil, fmt.Errorf("ollama model name cannot be empty")
		}
		llm, err := ollama.New(
			ollama.WithServerURL(serverURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama LLM client: %w", err)
		}
		return llm, nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(model),
			openai.WithHTTPClient(httpClient),
		}
		if cfg.ServerURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.ServerURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI LLM client: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unsupported tutor provider %q", cfg.Provider)
	}
}

// llmTutor implements domain.Tutor on top of a langchaingo model.
type llmTutor struct {
	model        llms.Model
	systemPrompt string
	historyLimit int
	timeout      time.Duration
}

// NewLLMTutor wraps model as a domain.Tutor.
func NewLLMTutor(model llms.Model, cfg config.TutorConfig) domain.Tutor {
	t := &llmTutor{
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		historyLimit: cfg.HistoryLimit,
		timeout:      cfg.Timeout,
	}
	if t.systemPrompt == "" {
		t.systemPrompt = defaultSystemPrompt
	}
	if t.historyLimit <= 0 {
		t.historyLimit = defaultHistoryLimit
	}
	if t.timeout <= 0 {
		t.timeout = defaultTimeout
	}
	return t
}

// Reply sends the most recent turns to the model and returns its answer.
func (t *llmTutor) Reply(ctx context.Context, history []domain.TutorTurn) (string, error) {
	l := logger.Get()
	if len(history) == 0 {
		return "", domain.NewInvalidInputError("conversation history is empty")
	}
	if len(history) > t.historyLimit {
		history = history[len(history)-t.historyLimit:]
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.model.GenerateContent(ctx, t.buildMessages(history), llms.WithTemperature(0.7))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("Tutor request timed out", zap.Error(err))
			return "", domain.NewLLMServiceError(fmt.Errorf("tutor request timed out: %w", err))
		}
		l.Error("Failed to get response from tutor model", zap.Error(err))
		return "", domain.NewLLMServiceError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", domain.NewLLMServiceError(errors.New("tutor model returned no choices"))
	}

	answer := stripThinking(resp.Choices[0].Content)
	if answer == "" {
		return "", domain.NewLLMServiceError(errors.New("tutor model returned an empty answer"))
	}
	l.Debug("Tutor reply generated", zap.Int("history_turns", len(history)), zap.Int("reply_len", len(answer)))
	return answer, nil
}

func (t *llmTutor) buildMessages(history []domain.TutorTurn) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(history)+1)
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, t.systemPrompt))
	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		if turn.Sender == domain.SenderAI {
			role = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, turn.Content))
	}
	return msgs
}

// stripThinking removes a leading <think>...</think> block some local models emit.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end > start {
			s = s[:start] + s[end+len("</think>"):]
		}
	}
	return strings.TrimSpace(s)
}
