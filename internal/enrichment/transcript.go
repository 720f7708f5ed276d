package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

const transcriptSystemPrompt = `You write lecture transcripts for online courses.
Write in the first person as the instructor, in plain prose without headings or markdown.`

// generateTranscript asks for a lecture transcript and falls back to a template when the
// call fails or the text is shorter than the configured minimum
func (p *Pipeline) generateTranscript(ctx context.Context, course *models.Course, video *models.Video, videoURL string) (string, string) {
	if p.gen != nil {
		prompt := fmt.Sprintf(`Write a transcript of roughly 400 words for the lesson "%s".
Course: "%s" (%s, %s level).
Lesson description: %s
Reference video: %s
Cover the key concepts in order, give one concrete example and end with a short recap.`,
			video.Title, course.Title, course.Category, course.Level, orDefault(video.Description, "not provided"), videoURL)

		text, err := p.gen.GenerateText(ctx, transcriptSystemPrompt, prompt)
		switch {
		case err != nil:
			p.logger.Warn("transcript generation failed, using template",
				zap.String("video_id", video.ID), zap.Error(err))
		case len(strings.TrimSpace(text)) < p.opts.MinTranscriptLength:
			p.logger.Warn("generated transcript too short, using template",
				zap.String("video_id", video.ID), zap.Int("length", len(strings.TrimSpace(text))))
		default:
			return strings.TrimSpace(text), models.SourceGenerated
		}
	}
	return templateTranscript(course, video), models.SourceTemplate
}

// templateTranscript builds a lecture paragraph from the course and lesson titles
func templateTranscript(course *models.Course, video *models.Video) string {
	category := orDefault(course.Category, "this subject")
	return fmt.Sprintf("Welcome to \"%s\", a lesson in the course \"%s\". "+
		"In this lesson we explore the core ideas of %s that every learner needs, starting from the fundamentals and building up to practical use. "+
		"We begin by explaining why %s matters in %s, then walk through the key concepts step by step with a worked example. "+
		"Along the way we point out common mistakes and how to avoid them. "+
		"By the end of \"%s\" you will be able to apply these techniques on your own and you will be ready for the next lesson of \"%s\".",
		video.Title, course.Title, category, video.Title, category, video.Title, course.Title)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
