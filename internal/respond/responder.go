package respond

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadcart/supportbot/internal/extract"
	"github.com/threadcart/supportbot/internal/llm"
)

const fallbackReply = "I apologize, but I'm experiencing technical difficulties. Please try again later or contact our support team."

const classifyPromptFormat = `Analyze this customer message and determine what type of information is needed:
"%s"

Choose from these categories:
1. product_search - Customer is asking about products, categories, brands, or availability
2. order_status - Customer is asking about order status, tracking, or delivery
3. user_orders - Customer is asking about their order history
4. inventory_check - Customer is asking about specific product availability
5. top_products - Customer is asking about popular or trending products
6. general_help - General customer service question

Respond with just the category name.`

type Config struct {
	SystemPrompt      string
	SearchLimit       int
	TopLimit          int
	ContextRows       int
	HistoryTurns      int
	ClassifyMaxTokens int
	ReplyMaxTokens    int
}

// Responder runs the classify → extract → query → ground → generate pipeline
// for one customer message.
type Responder struct {
	client    llm.Client
	queries   Queries
	extractor *extract.Extractor
	cfg       Config
	logger    *slog.Logger
}

func New(client llm.Client, queries Queries, extractor *extract.Extractor, cfg Config, logger *slog.Logger) *Responder {
	if cfg.HistoryTurns < 1 {
		cfg.HistoryTurns = 5
	}
	if cfg.ClassifyMaxTokens < 1 {
		cfg.ClassifyMaxTokens = 50
	}
	if cfg.ReplyMaxTokens < 1 {
		cfg.ReplyMaxTokens = 500
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		client:    client,
		queries:   queries,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Respond produces the assistant reply for one turn. Every internal failure
// (classification, query, generation) collapses to a fixed apologetic
// fallback; the customer never sees a raw error.
func (r *Responder) Respond(ctx context.Context, message string, history []llm.Message) string {
	reply, err := r.respond(ctx, message, history)
	if err != nil {
		r.logger.Error("response pipeline failed", "error", err)
		return fallbackReply
	}
	if reply == "" {
		r.logger.Warn("response pipeline produced empty reply")
		return fallbackReply
	}
	return reply
}

func (r *Responder) respond(ctx context.Context, message string, history []llm.Message) (string, error) {
	category, err := r.classify(ctx, message)
	if err != nil {
		return "", fmt.Errorf("classify message: %w", err)
	}

	facts := r.extractor.Extract(message)

	rows := Rows{Kind: category}
	if category != CategoryGeneralHelp {
		rows, err = r.runQuery(ctx, category, facts)
		if err != nil {
			// Degrade to "no information found" but keep the distinction
			// visible in logs: this was a failed query, not an empty result.
			r.logger.Warn("query failed, continuing without rows", "category", category, "error", err)
			rows = Rows{Kind: category}
		}
	}

	grounding := r.buildContext(rows)

	messages := make([]llm.Message, 0, 1+2*r.cfg.HistoryTurns)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf("Context: %s\n\nCustomer message: %s", grounding, message),
	})
	messages = append(messages, lastTurns(history, r.cfg.HistoryTurns)...)

	reply, err := r.client.Complete(ctx, llm.Request{
		System:      r.cfg.SystemPrompt,
		Messages:    messages,
		MaxTokens:   r.cfg.ReplyMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

// classify asks the model for one of the six category labels. The answer is
// normalized and mapped; anything unexpected becomes CategoryUnknown.
func (r *Responder) classify(ctx context.Context, message string) (Category, error) {
	label, err := r.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(classifyPromptFormat, message)},
		},
		MaxTokens:   r.cfg.ClassifyMaxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return CategoryUnknown, err
	}
	category := ParseCategory(label)
	if category == CategoryUnknown {
		r.logger.Warn("classifier returned unrecognized label", "label", label)
	}
	return category, nil
}
