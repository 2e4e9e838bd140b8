package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"study-agent/internal/models"
	"study-agent/shared/config"
)

// Annotator turns a transcript into the structured study sections via one
// Gemini call per video.
type Annotator struct {
	client             *genai.Client
	model              string
	maxTranscriptChars int
}

func NewAnnotator(cfg *config.Config) (*Annotator, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.AI.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Annotator{
		client:             client,
		model:              cfg.AI.Model,
		maxTranscriptChars: cfg.AI.MaxTranscriptChars,
	}, nil
}

// GenerateSections composes the study prompt from the transcript and asks
// the model for the six analytical sections.
func (a *Annotator) GenerateSections(ctx context.Context, result *models.TranscriptResult) (*models.StudySections, error) {
	if result == nil {
		return nil, fmt.Errorf("transcript result cannot be nil")
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, fmt.Errorf("transcript text is required")
	}

	prompt := a.buildPrompt(result)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	response, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate sections for video %s: %w", result.VideoID, err)
	}

	responseText := response.Text()
	if responseText == "" {
		return nil, fmt.Errorf("no generation response received for video %s", result.VideoID)
	}

	sections, err := parseSectionsResponse(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sections response for video %s: %w", result.VideoID, err)
	}
	return sections, nil
}

func (a *Annotator) buildPrompt(result *models.TranscriptResult) string {
	meta := result.Metadata
	duration := "unknown"
	if meta.DurationSeconds > 0 {
		duration = fmt.Sprintf("%d minutes", meta.DurationSeconds/60)
	}

	return fmt.Sprintf(`You are an AI study assistant. You are given the full transcript of a video. Produce study material for a learner who just watched it.

VIDEO METADATA:
Title: %s
Channel: %s
Duration: %s
Published: %s
Transcript language: %s

TRANSCRIPT:
%s

INSTRUCTIONS:
1. Work only from the transcript and metadata above.
2. Write every section in the same language as the transcript.
3. Use markdown inside each section value (lists, bold terms), but no headings.

Respond with a JSON object in exactly this format:
{
  "summary": "Executive summary in 3-5 sentences",
  "chapters": "Chapter-by-chapter analysis of the video's progression, one bullet per chapter with a timestamp where possible",
  "glossary": "Key terms and concepts, one bullet per term with a short definition",
  "notes": "Detailed study notes covering the important points and arguments",
  "action_items": "Concrete follow-up actions for the viewer, one bullet each",
  "simplified": "The core idea explained simply enough for a beginner"
}`,
		meta.Title,
		meta.Author,
		duration,
		meta.PublishDate,
		result.Language,
		truncateString(result.Text, a.maxTranscriptChars),
	)
}

// parseSectionsResponse extracts the JSON object from the model output,
// tolerating a fenced code block around it and falling back to quote
// sanitization when the first unmarshal fails.
func parseSectionsResponse(response string) (*models.StudySections, error) {
	cleaned := stripCodeFence(response)

	startIdx := strings.Index(cleaned, "{")
	endIdx := strings.LastIndex(cleaned, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("no JSON found in response: %s", truncateString(response, 200))
	}
	jsonStr := cleaned[startIdx : endIdx+1]

	var sections models.StudySections
	if err := json.Unmarshal([]byte(jsonStr), &sections); err != nil {
		sanitized := sanitizeJSON(jsonStr)
		if sanitizedErr := json.Unmarshal([]byte(sanitized), &sections); sanitizedErr != nil {
			return nil, fmt.Errorf("failed to unmarshal sections JSON: %w (sanitized version also failed: %v)", err, sanitizedErr)
		}
		log.Println("Warning: Had to sanitize malformed JSON in generation response")
	}

	if strings.TrimSpace(sections.Summary) == "" {
		return nil, fmt.Errorf("summary section is required but was empty")
	}
	return &sections, nil
}

// stripCodeFence unwraps ```json ... ``` style fences the model sometimes
// adds despite the instructions.
func stripCodeFence(response string) string {
	trimmed := strings.TrimSpace(response)
	if !strings.HasPrefix(trimmed, "```") {
		return response
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		// Drop the language tag line.
		trimmed = trimmed[newline+1:]
	}
	if closing := strings.LastIndex(trimmed, "```"); closing >= 0 {
		trimmed = trimmed[:closing]
	}
	return trimmed
}

// sanitizeJSON repairs the most common model formatting fault: unescaped
// quotes inside string values. It assumes one key/value pair per line.
func sanitizeJSON(jsonStr string) string {
	lines := strings.Split(jsonStr, "\n")
	var sanitized []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colonIdx := strings.Index(line, ":")
		if colonIdx != -1 && strings.Contains(line, "\"") {
			beforeColon := line[:colonIdx+1]
			afterColon := strings.TrimSpace(line[colonIdx+1:])

			if strings.HasPrefix(afterColon, "\"") {
				lastQuoteIdx := strings.LastIndex(afterColon, "\"")
				if lastQuoteIdx > 0 {
					content := afterColon[1:lastQuoteIdx]
					content = strings.ReplaceAll(content, "\\\"", "\"")
					content = strings.ReplaceAll(content, "\"", "\\\"")
					remainder := afterColon[lastQuoteIdx+1:]
					line = beforeColon + " \"" + content + "\"" + remainder
				}
			}
		}

		sanitized = append(sanitized, line)
	}

	return strings.Join(sanitized, "\n")
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
