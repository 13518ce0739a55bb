package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/tools"

	"resumechat/internal/store"
)

const resumeSystemPrompt = `Hello! I'm here to help you craft a professional, ATS-friendly resume. Please provide the following details one by one:

1. **Full Name**
2. **Contact Information** (Email, Phone Number, LinkedIn profile, Location)
3. **Professional Title** (e.g., Software Engineer, Project Manager)
4. **Professional Summary** (brief overview of your experience and strengths)
5. **Work Experience** (Company name, Job title, Dates, Location, Key achievements with measurable results)
6. **Educational Background** (Degree, Institution, Graduation year, GPA if notable)
7. **Skills** (Technical skills, Soft skills, Languages)
8. **Certifications & Licenses** (optional)
9. **Projects & Achievements** (optional)
10. **Additional Sections** (optional: Volunteer work, Publications, Awards, etc.)

Once you've provided all the details, confirm if you'd like to proceed.

When generating the resume:
- Create a well-structured, professional resume in Markdown format with a clean, ATS-optimized layout.
- Use standard section headings, reverse chronological order, active language, and quantified achievements.
- Exclude any sections that are not provided.
- Ensure the Markdown content is enclosed within triple backticks only.
- If the user provides a job description, tailor the resume to highlight relevant skills and experience.`

// Responder turns a user message plus prior conversation context into an
// assistant reply. The store layer never inspects the reply.
type Responder interface {
	Respond(ctx context.Context, conversationID, userText string, history []store.Message) (string, error)
}

// resumeTool is the single side-effect-free tool exposed to the agent. It
// wraps the collected details in a fenced block for the frontend canvas.
type resumeTool struct{}

func (resumeTool) Name() string {
	return "generate_resume"
}

func (resumeTool) Description() string {
	return "Generate a professional resume in markdown format based on the provided details"
}

func (resumeTool) Call(ctx context.Context, input string) (string, error) {
	return fmt.Sprintf("```\n%s\n```", input), nil
}

// LLMResponder drives an OpenAI functions agent with the resume tool. One
// conversation buffer is kept per conversation id, seeded from persisted
// history on first use. Sessions are never evicted, so memory grows with the
// number of distinct conversations seen by the process.
type LLMResponder struct {
	llm         *openai.LLM
	temperature float64
	tools       []tools.Tool

	mu       sync.Mutex
	sessions map[string]*memory.ConversationBuffer
}

func NewLLMResponder(apiKey, model string, temperature float64) (*LLMResponder, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &LLMResponder{
		llm:         llm,
		temperature: temperature,
		tools:       []tools.Tool{resumeTool{}},
		sessions:    make(map[string]*memory.ConversationBuffer),
	}, nil
}

func (r *LLMResponder) Respond(ctx context.Context, conversationID, userText string, history []store.Message) (string, error) {
	mem, err := r.session(ctx, conversationID, history)
	if err != nil {
		return "", err
	}

	agent := agents.NewOpenAIFunctionsAgent(r.llm, r.tools,
		agents.NewOpenAIOption().WithSystemMessage(resumeSystemPrompt),
		agents.NewOpenAIOption().WithExtraMessages([]prompts.MessageFormatter{
			prompts.MessagesPlaceholder{VariableName: "history"},
		}),
	)
	executor := agents.NewExecutor(agent, agents.WithMemory(mem))

	reply, err := chains.Run(ctx, executor, userText, chains.WithTemperature(r.temperature))
	if err != nil {
		return "", fmt.Errorf("agent run failed: %w", err)
	}
	return reply, nil
}

// session returns the conversation buffer for the id, creating and seeding it
// from the stored history when the process sees the conversation first.
func (r *LLMResponder) session(ctx context.Context, conversationID string, history []store.Message) (*memory.ConversationBuffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mem, ok := r.sessions[conversationID]; ok {
		return mem, nil
	}

	mem := memory.NewConversationBuffer(memory.WithReturnMessages(true))
	for _, msg := range history {
		var err error
		switch msg.Sender {
		case store.SenderBot:
			err = mem.ChatHistory.AddAIMessage(ctx, msg.Text)
		default:
			err = mem.ChatHistory.AddUserMessage(ctx, msg.Text)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to seed session history: %w", err)
		}
	}

	r.sessions[conversationID] = mem
	return mem, nil
}
