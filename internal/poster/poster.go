package poster

import (
	"context"
	"fmt"
	"sort"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

// Job carries everything a poster needs to publish one schedule entry.
// It is built once per dispatch and never mutated after construction.
type Job struct {
	ScheduleID  string
	ContentID   string
	Platform    entity.Platform
	Title       string
	Description string
	Link        string
	MediaPath   string
	AccountName string
	ProfileID   string
}

// Poster publishes a single job to its platform.
type Poster interface {
	Post(ctx context.Context, job Job) error
}

// Func adapts a function to the Poster interface.
type Func func(ctx context.Context, job Job) error

// Post implements Poster.
func (f Func) Post(ctx context.Context, job Job) error {
	return f(ctx, job)
}

// Registry maps platforms to their posters. It is populated at startup
// and read-only afterwards.
type Registry struct {
	posters map[entity.Platform]Poster
}

// NewRegistry creates an empty poster registry.
func NewRegistry() *Registry {
	return &Registry{
		posters: make(map[entity.Platform]Poster),
	}
}

// Register binds a poster to a platform, replacing any previous binding.
func (r *Registry) Register(platform entity.Platform, p Poster) {
	r.posters[platform] = p
}

// Resolve returns the poster for a platform, or ErrNoPosterForPlatform.
func (r *Registry) Resolve(platform entity.Platform) (Poster, error) {
	p, ok := r.posters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrNoPosterForPlatform, platform)
	}
	return p, nil
}

// Validate ensures every listed platform has a registered poster.
// Called once at startup so a missing binding fails fast instead of
// surfacing on the first due entry.
func (r *Registry) Validate(platforms ...entity.Platform) error {
	var missing []string
	for _, platform := range platforms {
		if _, ok := r.posters[platform]; !ok {
			missing = append(missing, string(platform))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %v", entity.ErrNoPosterForPlatform, missing)
	}
	return nil
}
