// Package maintenance runs the background cleanup jobs of the dashboard.
package maintenance

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/scriberly/scriberly-be/internal/services"
)

// minAge protects uploads that belong to an in-flight create-article
// request: generation runs after the upload, so a just-written file may
// not be referenced by any article yet.
const minAge = time.Hour

// Sweeper periodically deletes uploaded images that no article references.
// The create-article flow persists last, so a generation failure after a
// successful upload leaves an orphaned file rather than a partial article;
// this job reclaims those files.
type Sweeper struct {
	articles services.ArticleServiceProvider
	files    services.FileStoreProvider
	schedule cron.Schedule
	done     chan bool
}

// NewSweeper creates a sweeper from a cron expression such as "@hourly".
func NewSweeper(articles services.ArticleServiceProvider, files services.FileStoreProvider, spec string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		articles: articles,
		files:    files,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the sweeper loop. It blocks until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting upload sweeper")
	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.done:
			timer.Stop()
			log.Info().Msg("Stopping upload sweeper")
			return
		case <-timer.C:
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

// sweep deletes stored images that are old enough and unreferenced.
func (s *Sweeper) sweep() {
	refs, err := s.articles.ImageFilenames()
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to load image references")
		return
	}

	stored, err := s.files.List()
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to list stored files")
		return
	}

	cutoff := time.Now().Add(-minAge)
	for _, file := range stored {
		if _, referenced := refs[file.Name]; referenced {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := s.files.Remove(file.Name); err != nil {
			log.Warn().Err(err).Str("file", file.Name).Msg("Sweeper: failed to remove orphaned upload")
			continue
		}
		log.Info().Str("file", file.Name).Msg("Sweeper: removed orphaned upload")
	}
}
