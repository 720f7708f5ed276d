package enrichment

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	courseTitleSystemPrompt = "You name online courses. Answer with the course title only."
	defaultCourseRating     = 4.5
)

var titleTemplates = []string{
	"Complete %s Bootcamp",
	"%s Fundamentals",
	"Practical %s for Beginners",
	"Mastering %s",
}

// Populate creates up to count synthetic courses in distinct random categories.
//
// Titles colliding case-insensitively with existing titles, or titles produced earlier in the
// same run, are skipped. "progress" (optional) receives the running number of inserted courses.
// Work is bounded by Options.Concurrency.
func (p *Pipeline) Populate(ctx context.Context, count int, clearExisting bool, progress func(done int)) (*models.PopulateResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be at least 1", models.ErrInvalidInput)
	}

	if clearExisting {
		if err := p.courses.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear courses: %w", err)
		}
		p.logger.Info("cleared existing courses")
	}

	existing, err := p.courses.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course titles: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, t := range existing {
		taken[strings.ToLower(strings.TrimSpace(t))] = true
	}

	categories := p.pickCategories(count)

	var (
		mu       sync.Mutex
		inserted int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for _, category := range categories {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			title := p.courseTitle(gctx, category)

			key := strings.ToLower(title)
			mu.Lock()
			if taken[key] {
				mu.Unlock()
				p.logger.Info("skipping duplicate course title", zap.String("title", title))
				return nil
			}
			taken[key] = true
			mu.Unlock()

			if err := p.createCourse(gctx, title, category); err != nil {
				p.logger.Error("failed to create course", zap.String("title", title), zap.Error(err))
				mu.Lock()
				delete(taken, key)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			inserted++
			done := inserted
			mu.Unlock()
			if progress != nil {
				progress(done)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PopulateResult{
		Success: true,
		Message: fmt.Sprintf("Successfully created %d courses", inserted),
		Count:   inserted,
	}, nil
}

// pickCategories returns count distinct categories in random order
func (p *Pipeline) pickCategories(count int) []string {
	all := Categories()
	if count > len(all) {
		count = len(all)
	}
	order := p.perm(len(all))
	picked := make([]string, 0, count)
	for _, i := range order[:count] {
		picked = append(picked, all[i])
	}
	return picked
}

// courseTitle asks for a course title, falling back to a template
func (p *Pipeline) courseTitle(ctx context.Context, category string) string {
	if p.gen != nil {
		text, err := p.gen.GenerateText(ctx, courseTitleSystemPrompt,
			fmt.Sprintf("Suggest one catchy title for a %s course. Maximum eight words.", category))
		if err == nil {
			title := strings.Trim(strings.TrimSpace(firstLine(text)), `"'*#`)
			if title != "" && len(title) <= 255 {
				return strings.TrimSpace(title)
			}
		} else {
			p.logger.Warn("course title generation failed, using template", zap.String("category", category), zap.Error(err))
		}
	}
	return fmt.Sprintf(titleTemplates[pickIndex(category, len(titleTemplates))], category)
}

// createCourse generates details and inserts the course with its videos and one note
func (p *Pipeline) createCourse(ctx context.Context, title, category string) error {
	details := p.courseDetails(ctx, title, category)

	thumbnail := ""
	if len(details.Videos) > 0 {
		thumbnail = details.Videos[0].Thumbnail
	}
	course := &models.Course{
		Title:       title,
		Description: details.Description,
		Category:    details.Category,
		Thumbnail:   thumbnail,
		Instructor:  details.Instructor,
		Duration:    details.Duration,
		Level:       details.Level,
		Rating:      defaultCourseRating,
	}

	videos := make([]models.Video, 0, len(details.Videos))
	for i, v := range details.Videos {
		videos = append(videos, models.Video{
			Title:       v.Title,
			Description: v.Description,
			URL:         v.URL,
			Duration:    v.Duration,
			Thumbnail:   v.Thumbnail,
			Order:       i + 1,
		})
	}
	notes := []models.Note{{
		Title:       title + " Course Notes",
		Description: fmt.Sprintf("Summary notes for %s.", title),
		FileType:    models.FileTypeTXT,
		Order:       1,
	}}

	return p.courses.CreateWithContent(ctx, course, videos, notes)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
