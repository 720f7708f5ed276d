package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
)

const (
	courseDetailsSchemaName   = "course_details"
	courseDetailsSystemPrompt = "You design online courses. Produce realistic course metadata and a lesson plan."
	minLessons                = 3
	maxLessons                = 5
)

var courseDetailsSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"description", "category", "duration", "level", "instructor", "videos"},
	"properties": map[string]any{
		"description": map[string]any{"type": "string"},
		"category":    map[string]any{"type": "string"},
		"duration":    map[string]any{"type": "string"},
		"level":       map[string]any{"type": "string", "enum": []string{"beginner", "intermediate", "advanced"}},
		"instructor":  map[string]any{"type": "string"},
		"videos": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"title", "description"},
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var templateInstructors = []string{
	"Dr. Sarah Johnson",
	"Michael Chen",
	"Priya Patel",
	"David Martinez",
	"Emily Carter",
}

// GenerateCourseDetails produces course metadata and a lesson list for a title.
// Lessons get a video, thumbnail and duration from video search or the static catalog.
func (p *Pipeline) GenerateCourseDetails(ctx context.Context, title string) (*models.CourseDetails, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	return p.courseDetails(ctx, title, ""), nil
}

// courseDetails generates details; a non-empty category overrides the generated one
func (p *Pipeline) courseDetails(ctx context.Context, title, category string) *models.CourseDetails {
	details := p.generateDetails(ctx, title)
	if details == nil {
		details = templateCourseDetails(title)
	}
	if category != "" {
		details.Category = category
	}
	p.normalizeDetails(title, details)

	for i := range details.Videos {
		v := &details.Videos[i]
		sel, ok := p.selector.fromSearch(ctx, v.Title, title)
		if !ok {
			sel = staticVideo(v.Title, title, details.Category)
		}
		v.URL = sel.URL
		v.Thumbnail, _ = SelectThumbnail(v.Title, title, details.Category, sel)
		v.Duration = orDefault(sel.Duration, lessonDuration(v.Title))
	}
	return details
}

func (p *Pipeline) generateDetails(ctx context.Context, title string) *models.CourseDetails {
	if p.gen == nil {
		return nil
	}
	prompt := fmt.Sprintf(`Create course details for an online course titled "%s".
Give a two sentence description, a short category name, a total duration such as "6 hours",
a level, a plausible instructor name and %d to %d lessons with a title and one sentence description.`,
		title, minLessons, maxLessons)

	var details models.CourseDetails
	if err := p.gen.GenerateJSON(ctx, courseDetailsSystemPrompt, prompt, courseDetailsSchemaName, courseDetailsSchema, &details); err != nil {
		p.logger.Warn("course details generation failed, using template", zap.String("title", title), zap.Error(err))
		return nil
	}
	return &details
}

// normalizeDetails fills missing fields and bounds the lesson list
func (p *Pipeline) normalizeDetails(title string, d *models.CourseDetails) {
	fallback := templateCourseDetails(title)
	d.Description = orDefault(strings.TrimSpace(d.Description), fallback.Description)
	d.Category = orDefault(strings.TrimSpace(d.Category), fallback.Category)
	d.Duration = orDefault(strings.TrimSpace(d.Duration), fallback.Duration)
	d.Instructor = orDefault(strings.TrimSpace(d.Instructor), fallback.Instructor)
	d.Level = models.Level(strings.ToLower(string(d.Level)))
	if !d.Level.Valid() {
		d.Level = models.LevelBeginner
	}

	videos := make([]models.CourseDetailsVideo, 0, maxLessons)
	for _, v := range d.Videos {
		if strings.TrimSpace(v.Title) == "" {
			continue
		}
		videos = append(videos, models.CourseDetailsVideo{Title: strings.TrimSpace(v.Title), Description: strings.TrimSpace(v.Description)})
		if len(videos) == maxLessons {
			break
		}
	}
	if len(videos) < minLessons {
		videos = fallback.Videos
	}
	d.Videos = videos
}

// templateCourseDetails derives details from the title and the keyword catalog
func templateCourseDetails(title string) *models.CourseDetails {
	topic := TopicFor(title)
	subject := title
	lessons := []models.CourseDetailsVideo{
		{Title: "Introduction to " + subject, Description: fmt.Sprintf("An overview of %s and what you will build in this course.", subject)},
		{Title: "Core Concepts of " + subject, Description: "The fundamental ideas explained with simple examples."},
		{Title: "Hands-on Practice", Description: fmt.Sprintf("Applying %s step by step in a guided exercise.", subject)},
		{Title: "Best Practices and Next Steps", Description: "Common pitfalls, professional tips and where to go from here."},
	}
	return &models.CourseDetails{
		Description: fmt.Sprintf("%s is a practical course in %s. You will learn the essentials through short lessons and hands-on exercises.",
			title, topic.Category),
		Category:   topic.Category,
		Duration:   fmt.Sprintf("%d hours", 4+pickIndex(title, 5)),
		Level:      models.LevelBeginner,
		Instructor: templateInstructors[pickIndex(title, len(templateInstructors))],
		Videos:     lessons,
	}
}

// lessonDuration gives a stable mm:ss duration for lessons without platform metadata
func lessonDuration(title string) string {
	return fmt.Sprintf("%d:%02d", 8+pickIndex(title, 15), (len(title)*7)%60)
}
