package poster

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// Command runs an external automation program for each job. Job fields
// are passed through the child's environment so the program needs no
// argument parsing beyond what its own runtime provides.
type Command struct {
	path    string
	args    []string
	timeout time.Duration
}

// CommandOption configures a Command poster.
type CommandOption func(*Command)

// WithArgs sets fixed arguments passed before the job environment.
func WithArgs(args ...string) CommandOption {
	return func(c *Command) { c.args = args }
}

// WithTimeout bounds a single invocation. Zero means no bound beyond
// the dispatch context.
func WithTimeout(d time.Duration) CommandOption {
	return func(c *Command) { c.timeout = d }
}

// NewCommand creates a poster that shells out to the given program.
func NewCommand(path string, opts ...CommandOption) *Command {
	c := &Command{path: path}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post implements Poster.
func (c *Command) Post(ctx context.Context, job Job) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.path, c.args...)
	cmd.Env = append(cmd.Environ(),
		"POST_SCHEDULE_ID="+job.ScheduleID,
		"POST_CONTENT_ID="+job.ContentID,
		"POST_PLATFORM="+string(job.Platform),
		"POST_TITLE="+job.Title,
		"POST_DESCRIPTION="+job.Description,
		"POST_LINK="+job.Link,
		"POST_MEDIA_PATH="+job.MediaPath,
		"POST_ACCOUNT_NAME="+job.AccountName,
		"POST_PROFILE_ID="+job.ProfileID,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("poster command %s: %w: %s", c.path, err, truncate(out, 512))
		}
		return fmt.Errorf("poster command %s: %w", c.path, err)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
