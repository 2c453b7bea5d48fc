package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
	"google.golang.org/genai"
)

const maxHashtags = 30

var ErrCaptionsDisabled = errors.New("caption suggestions are not configured")

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (TextGenerator, error) {
	if apiKey == "" {
		return nil, ErrCaptionsDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// CaptionService suggests captions and hashtags. Suggestions are advisory and
// never required for submission.
type CaptionService interface {
	SuggestCaption(ctx context.Context, req models.CaptionRequest) (string, error)
	SuggestHashtags(ctx context.Context, req models.CaptionRequest) ([]string, error)
}

type captionService struct {
	gen TextGenerator
}

// NewCaptionService accepts a nil generator, in which case every call fails
// with ErrCaptionsDisabled.
func NewCaptionService(gen TextGenerator) CaptionService {
	return &captionService{gen: gen}
}

func (s *captionService) SuggestCaption(ctx context.Context, req models.CaptionRequest) (string, error) {
	if s.gen == nil {
		return "", ErrCaptionsDisabled
	}
	out, err := s.gen.Generate(ctx, captionPrompt(req))
	if err != nil {
		return "", models.NewCollaboratorError("suggest caption", err)
	}
	return strings.Trim(out, "\"“” \n"), nil
}

func (s *captionService) SuggestHashtags(ctx context.Context, req models.CaptionRequest) ([]string, error) {
	if s.gen == nil {
		return nil, ErrCaptionsDisabled
	}
	out, err := s.gen.Generate(ctx, hashtagPrompt(req))
	if err != nil {
		return nil, models.NewCollaboratorError("suggest hashtags", err)
	}
	return ParseHashtags(out), nil
}

func captionPrompt(req models.CaptionRequest) string {
	var b strings.Builder
	b.WriteString("Write one social media caption for a small business post")
	if len(req.Platforms) > 0 {
		fmt.Fprintf(&b, " on %s", strings.Join(req.Platforms, ", "))
	}
	if req.Tone != "" {
		fmt.Fprintf(&b, " in a %s tone", req.Tone)
	}
	b.WriteString(". Reply with the caption only, without hashtags.")
	if req.Caption != "" {
		fmt.Fprintf(&b, "\nImprove on this draft: %s", req.Caption)
	}
	return b.String()
}

func hashtagPrompt(req models.CaptionRequest) string {
	var b strings.Builder
	b.WriteString("Suggest up to 15 relevant hashtags, most relevant first, separated by spaces")
	if len(req.Platforms) > 0 {
		fmt.Fprintf(&b, " for %s", strings.Join(req.Platforms, ", "))
	}
	fmt.Fprintf(&b, ".\nCaption: %s", req.Caption)
	return b.String()
}

// ParseHashtags extracts ranked, de-duplicated hashtags from free text.
func ParseHashtags(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t' || r == ';'
	})
	marked := strings.Contains(text, "#")
	seen := make(map[string]struct{})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".\"'`*-")
		if marked && !strings.HasPrefix(f, "#") {
			continue
		}
		f = strings.TrimLeft(f, "#")
		if f == "" {
			continue
		}
		tag := "#" + f
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == maxHashtags {
			break
		}
	}
	return tags
}
