package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"go.uber.org/zap"
)

const (
	analysisSchemaName   = "lesson_analysis"
	analysisSystemPrompt = "You are an instructional designer. You summarize lessons and write multiple-choice quiz questions."
	maxKeywords          = 10
	templateKeywordCount = 5
)

var analysisSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"summary", "keywords", "questions"},
	"properties": map[string]any{
		"summary":  map[string]any{"type": "string"},
		"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"questions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"text", "options", "correctAnswer"},
				"properties": map[string]any{
					"text":          map[string]any{"type": "string"},
					"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"correctAnswer": map[string]any{"type": "integer"},
				},
			},
		},
	},
}

// analysis is the summary, keywords and quiz derived from a transcript
type analysis struct {
	Summary   string                `json:"summary"`
	Keywords  []string              `json:"keywords"`
	Questions []models.QuizQuestion `json:"questions"`
}

// analyze requests structured output first, then free text with an embedded object.
// Invalid questions are dropped; if none remain the templated analysis is used.
func (p *Pipeline) analyze(ctx context.Context, course *models.Course, video *models.Video, transcript string) (analysis, string) {
	if p.gen == nil {
		return templateAnalysis(course, video), models.SourceTemplate
	}

	prompt := fmt.Sprintf(`Analyze the following transcript of the lesson "%s" from the course "%s" (%s).
Return a two or three sentence summary, up to %d keywords, and 3 to 5 multiple-choice questions.
Every question must have exactly %d options and correctAnswer is the zero-based index of the right option.

Transcript:
%s`, video.Title, course.Title, course.Category, maxKeywords, models.OptionsPerQuestion, transcript)

	var out analysis
	err := p.gen.GenerateJSON(ctx, analysisSystemPrompt, prompt, analysisSchemaName, analysisSchema, &out)
	if err != nil {
		p.logger.Warn("structured analysis failed, retrying as free text",
			zap.String("video_id", video.ID), zap.Error(err))
		out, err = p.analyzeFreeText(ctx, prompt)
	}
	if err != nil {
		p.logger.Warn("analysis generation failed, using template",
			zap.String("video_id", video.ID), zap.Error(err))
		return templateAnalysis(course, video), models.SourceTemplate
	}

	cleaned, ok := normalizeAnalysis(out)
	if !ok {
		p.logger.Warn("generated analysis has no valid questions, using template", zap.String("video_id", video.ID))
		return templateAnalysis(course, video), models.SourceTemplate
	}
	if cleaned.Summary == "" {
		cleaned.Summary = templateSummary(course, video)
	}
	if len(cleaned.Keywords) == 0 {
		cleaned.Keywords = templateKeywords(course, video)
	}
	return cleaned, models.SourceGenerated
}

func (p *Pipeline) analyzeFreeText(ctx context.Context, prompt string) (analysis, error) {
	text, err := p.gen.GenerateText(ctx, analysisSystemPrompt,
		prompt+"\n\nRespond with a JSON object with the fields summary, keywords and questions (text, options, correctAnswer).")
	if err != nil {
		return analysis{}, err
	}
	obj, ok := textgen.ExtractJSONObject(text)
	if !ok {
		return analysis{}, textgen.ErrMalformedOutput
	}
	var out analysis
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return analysis{}, fmt.Errorf("%w: %v", textgen.ErrMalformedOutput, err)
	}
	return out, nil
}

// normalizeAnalysis trims fields, deduplicates keywords and keeps only valid questions
func normalizeAnalysis(a analysis) (analysis, bool) {
	out := analysis{Summary: strings.TrimSpace(a.Summary)}

	seen := map[string]bool{}
	for _, k := range a.Keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Keywords = append(out.Keywords, k)
		if len(out.Keywords) == maxKeywords {
			break
		}
	}

	for _, q := range a.Questions {
		q.Text = strings.TrimSpace(q.Text)
		for i := range q.Options {
			q.Options[i] = strings.TrimSpace(q.Options[i])
		}
		if q.Validate() == nil {
			out.Questions = append(out.Questions, q)
		}
	}
	return out, len(out.Questions) > 0
}

// templateAnalysis is the fixed-shape fallback referencing the course title and category
func templateAnalysis(course *models.Course, video *models.Video) analysis {
	category := orDefault(course.Category, "this subject")
	return analysis{
		Summary:  templateSummary(course, video),
		Keywords: templateKeywords(course, video),
		Questions: []models.QuizQuestion{
			{
				Text: fmt.Sprintf("What is the main focus of the course \"%s\"?", course.Title),
				Options: []string{
					fmt.Sprintf("Core concepts and practical skills in %s", category),
					"The history of computing hardware",
					"Advanced tax accounting",
					"None of the above",
				},
				CorrectAnswer: 0,
			},
			{
				Text: fmt.Sprintf("Which approach does the lesson \"%s\" recommend for learning %s?", video.Title, category),
				Options: []string{
					"Memorizing definitions without practice",
					"Skipping the fundamentals",
					"Building understanding step by step with worked examples",
					"Avoiding feedback",
				},
				CorrectAnswer: 2,
			},
			{
				Text: fmt.Sprintf("What should you be able to do after completing \"%s\"?", video.Title),
				Options: []string{
					"Nothing new",
					fmt.Sprintf("Apply the techniques of %s on your own", category),
					"Only recite the lesson title",
					"Teach an unrelated subject",
				},
				CorrectAnswer: 1,
			},
		},
	}
}

func templateSummary(course *models.Course, video *models.Video) string {
	return fmt.Sprintf("The lesson \"%s\" introduces key ideas of %s as part of the course \"%s\", combining explanations with a practical example.",
		video.Title, orDefault(course.Category, "the subject"), course.Title)
}

func templateKeywords(course *models.Course, video *models.Video) []string {
	category := orDefault(course.Category, "general")
	candidates := []string{
		category,
		course.Title,
		video.Title,
		category + " fundamentals",
		"practical examples",
		"best practices",
	}

	keywords := make([]string, 0, templateKeywordCount)
	seen := map[string]bool{}
	for _, k := range candidates {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, k)
		if len(keywords) == templateKeywordCount {
			break
		}
	}
	return keywords
}
