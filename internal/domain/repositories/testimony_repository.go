package repositories

import (
	"context"

	"github.com/memorise/testimony-explorer/internal/domain/entities"
)

// TestimonyRepository defines read access to interview transcripts
type TestimonyRepository interface {
	// Segment retrieves the transcript of one tape of a session
	Segment(ctx context.Context, interviewCode int64, tapeNumber int) (*entities.TestimonySegment, error)

	// Tapes lists the tape numbers recorded for a session
	Tapes(ctx context.Context, interviewCode int64) ([]int, error)

	// AggregatedText returns the full-text projection of a session's
	// testimony, used for per-person term clouds
	AggregatedText(ctx context.Context, interviewCode int64) (string, error)
}
