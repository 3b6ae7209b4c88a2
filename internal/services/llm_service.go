package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type LLMService struct {
	// Held so the client is not recreated on every request.
	Client llms.Model
}

// NewLLMService connects to Gemini. An empty apiKey yields a disabled
// service whose calls return ErrAIUnavailable.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		log.Println("⚠️ GEMINI_API_KEY is empty, AI features disabled")
		return &LLMService{}, nil
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

func (s *LLMService) Enabled() bool {
	return s != nil && s.Client != nil
}

// generate sends a system + user message pair and returns the first choice.
func (s *LLMService) generate(ctx context.Context, system, prompt string, opts ...llms.CallOption) (string, error) {
	if !s.Enabled() {
		return "", ErrAIUnavailable
	}

	resp, err := s.Client.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func cvWriterRole(lang models.Language) string {
	if lang == models.English {
		return "You are a professional CV writer."
	}
	return "أنت كاتب سير ذاتية محترف."
}

// SuggestSummary drafts a 3-4 sentence first-person profile summary.
func (s *LLMService) SuggestSummary(ctx context.Context, jobTitle, experience string, lang models.Language) (string, error) {
	var prompt string
	if lang == models.English {
		prompt = fmt.Sprintf("Write a professional summary (3-4 sentences) for someone working as %q", jobTitle)
		if experience != "" {
			prompt += " with experience in: " + experience
		}
		prompt += ". Write in first person."
	} else {
		prompt = fmt.Sprintf("اكتب نبذة شخصية احترافية مختصرة (3-4 جمل) لشخص يعمل في مجال \"%s\"", jobTitle)
		if experience != "" {
			prompt += " مع خبرة في: " + experience
		}
		prompt += ". اكتب بصيغة المتكلم."
	}
	return s.generate(ctx, cvWriterRole(lang), prompt)
}

// SuggestExperience drafts 3-4 past-tense bullet points for a position.
func (s *LLMService) SuggestExperience(ctx context.Context, jobTitle, company string, lang models.Language) (string, error) {
	var prompt string
	if lang == models.English {
		prompt = fmt.Sprintf("Write 3-4 bullet points describing responsibilities and achievements for a %q position", jobTitle)
		if company != "" {
			prompt += " at " + company
		}
		prompt += ". Write in past tense professionally."
	} else {
		prompt = fmt.Sprintf("اكتب 3-4 نقاط وصف مهام وإنجازات لوظيفة \"%s\"", jobTitle)
		if company != "" {
			prompt += " في " + company
		}
		prompt += ". اكتب بصيغة الماضي وبشكل احترافي."
	}
	return s.generate(ctx, cvWriterRole(lang), prompt)
}

var bulletPrefix = regexp.MustCompile(`^[-•*]\s*`)

// SuggestSkills asks for 8-10 skills, one per line.
func (s *LLMService) SuggestSkills(ctx context.Context, jobTitle string, lang models.Language) ([]string, error) {
	system := "أنت خبير موارد بشرية في المجال الطبي."
	prompt := fmt.Sprintf("اقترح 8-10 مهارات مهنية مناسبة لوظيفة \"%s\" في المجال الطبي. اكتب كل مهارة في سطر منفصل.", jobTitle)
	if lang == models.English {
		system = "You are an HR expert in the medical field."
		prompt = fmt.Sprintf("Suggest 8-10 professional skills suitable for a %q position in the medical field. Write each skill on a separate line.", jobTitle)
	}

	resp, err := s.generate(ctx, system, prompt)
	if err != nil {
		return nil, err
	}
	return splitSkills(resp), nil
}

func splitSkills(text string) []string {
	skills := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if line != "" {
			skills = append(skills, line)
		}
	}
	return skills
}

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeFence removes a markdown fence some models wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
