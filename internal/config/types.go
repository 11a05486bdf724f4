package config

import (
	"time"

	"github.com/mauv0809/padel-ratings/internal/queue"
	"github.com/mauv0809/padel-ratings/internal/rating"
)

// Config holds all configuration for the application.
type Config struct {
	DBName   string
	Port     string
	LogLevel string
	Turso    TursoConfig
	Slack    SlackConfig
	// ProjectID is the GCP project used for Pub/Sub. Empty disables publishing.
	ProjectID string
	Rating    RatingConfig
	Queue     QueueConfig
}
type SlackConfig struct {
	Token     string
	ChannelID string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// RatingConfig controls the ELO model used by every recalculation.
type RatingConfig struct {
	InitialRating float64
	BaseK         float64
	PointDiff     bool
	MarginScale   float64
}

// QueueConfig controls the recalculation worker.
type QueueConfig struct {
	PollInterval time.Duration
	JobTimeout   time.Duration
	RecentLimit  int
}

// Model converts the rating settings into the model used by the pipeline.
func (r RatingConfig) Model() rating.Model {
	return rating.Model{
		InitialRating: r.InitialRating,
		BaseK:         r.BaseK,
		PointDiff:     r.PointDiff,
		MarginScale:   r.MarginScale,
	}
}

func (q QueueConfig) Options() queue.Options {
	return queue.Options{
		PollInterval: q.PollInterval,
		JobTimeout:   q.JobTimeout,
		RecentLimit:  q.RecentLimit,
	}
}
