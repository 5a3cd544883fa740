package scraper

import (
	"context"
	"fmt"

	"pageinsights-api/internal/model"
)

// Scraper defines the source acquisition boundary. Implementations fetch
// entity records from the remote source when nothing exists locally.
type Scraper interface {
	// ScrapeProfile acquires a profile record. A failed acquisition
	// returns an *AcquisitionError; there are no partial results.
	ScrapeProfile(ctx context.Context, profileID string) (*model.Profile, error)

	// ScrapePosts acquires up to limit posts for a profile.
	ScrapePosts(ctx context.Context, profileID string, limit int) ([]model.Post, error)

	// ScrapeFollowers acquires up to limit followers for a profile.
	ScrapeFollowers(ctx context.Context, profileID string, limit int) ([]model.Follower, error)
}

// AcquisitionError indicates the remote source could not produce a record.
type AcquisitionError struct {
	ProfileID string
	Kind      string
	Err       error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition of %s for profile %q failed: %v", e.Kind, e.ProfileID, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
