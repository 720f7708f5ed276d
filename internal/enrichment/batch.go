package enrichment

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReprocessCourse enriches the videos of a course.
// With onlyMissing, videos that already carry analyzed content are skipped.
func (p *Pipeline) ReprocessCourse(ctx context.Context, courseID string, onlyMissing bool) (*models.BatchResult, error) {
	if _, err := p.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	videos, err := p.videos.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load videos: %w", err)
	}

	if onlyMissing {
		missing := make([]models.Video, 0, len(videos))
		for _, v := range videos {
			if v.AnalyzedContent == nil || v.URL == "" {
				missing = append(missing, v)
			}
		}
		videos = missing
	}
	return p.ReprocessVideos(ctx, videos), nil
}

// SweepUnenriched enriches up to limit videos that have never been enriched
func (p *Pipeline) SweepUnenriched(ctx context.Context, limit int) (*models.BatchResult, error) {
	videos, err := p.videos.ListUnenriched(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unenriched videos: %w", err)
	}
	return p.ReprocessVideos(ctx, videos), nil
}

// ReprocessVideos enriches videos with at most Options.Concurrency in flight.
// A failing video does not stop the others.
func (p *Pipeline) ReprocessVideos(ctx context.Context, videos []models.Video) *models.BatchResult {
	result := &models.BatchResult{Total: len(videos)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for _, v := range videos {
		g.Go(func() error {
			if ctx.Err() != nil {
				mu.Lock()
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", v.ID, ctx.Err()))
				mu.Unlock()
				return nil
			}

			_, err := p.ProcessVideo(ctx, v.ID, v.CourseID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Error("video enrichment failed", zap.String("video_id", v.ID), zap.Error(err))
				result.Failed++
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", v.ID, err))
				return nil
			}
			result.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("batch enrichment finished",
		zap.Int("total", result.Total),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result
}
