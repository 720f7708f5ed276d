// Package catalog selects the storage backing courses, videos, notes and quizzes
package catalog

import (
	"database/sql"
	"fmt"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/enrichment"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/memstore"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/repositories"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/services"
)

// CourseStore serves both the course service and the enrichment pipeline
type CourseStore interface {
	services.CourseRepository
	enrichment.CourseStore
}

// VideoStore serves both the course service and the enrichment pipeline
type VideoStore interface {
	services.VideoRepository
	enrichment.VideoStore
}

// QuizStore serves the quiz service, the course service and the enrichment pipeline
type QuizStore interface {
	services.QuizRepository
	enrichment.QuizStore
}

// Stores bundles the catalog stores
type Stores struct {
	Courses CourseStore
	Videos  VideoStore
	Notes   services.NoteRepository
	Quizzes QuizStore
	// Memory is set when the stores are held in process
	Memory *memstore.Store
}

// Open returns the catalog stores for driver. db is only used by the mysql driver.
func Open(driver string, db *sql.DB) (*Stores, error) {
	switch driver {
	case config.StorageDriverMySQL, "":
		if db == nil {
			return nil, fmt.Errorf("mysql storage driver requires a database connection")
		}
		return &Stores{
			Courses: repositories.NewCourseRepository(db),
			Videos:  repositories.NewVideoRepository(db),
			Notes:   repositories.NewNoteRepository(db),
			Quizzes: repositories.NewQuizRepository(db),
		}, nil
	case config.StorageDriverMemory:
		store := memstore.New()
		return &Stores{
			Courses: store.Courses(),
			Videos:  store.Videos(),
			Notes:   store.Notes(),
			Quizzes: store.Quizzes(),
			Memory:  store,
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}
