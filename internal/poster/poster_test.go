package poster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sharmayn/autoposter/internal/domain/queue/entity"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Register(entity.PlatformTikTok, Func(func(ctx context.Context, job Job) error {
		return nil
	}))

	p, err := r.Resolve(entity.PlatformTikTok)
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = r.Resolve(entity.PlatformTwitter)
	require.ErrorIs(t, err, entity.ErrNoPosterForPlatform)
}

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	noop := Func(func(ctx context.Context, job Job) error { return nil })

	for _, p := range entity.Platforms() {
		if p == entity.PlatformPinterest {
			continue
		}
		r.Register(p, noop)
	}

	err := r.Validate(entity.Platforms()...)
	require.ErrorIs(t, err, entity.ErrNoPosterForPlatform)
	require.Contains(t, err.Error(), string(entity.PlatformPinterest))

	r.Register(entity.PlatformPinterest, noop)
	require.NoError(t, r.Validate(entity.Platforms()...))
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()

	calls := make([]string, 0, 2)
	r.Register(entity.PlatformYouTube, Func(func(ctx context.Context, job Job) error {
		calls = append(calls, "first")
		return nil
	}))
	r.Register(entity.PlatformYouTube, Func(func(ctx context.Context, job Job) error {
		calls = append(calls, "second")
		return nil
	}))

	p, err := r.Resolve(entity.PlatformYouTube)
	require.NoError(t, err)
	require.NoError(t, p.Post(context.Background(), Job{}))
	require.Equal(t, []string{"second"}, calls)
}

func TestCommandPosterRuns(t *testing.T) {
	// The command sees the job through its environment.
	c := NewCommand("sh", WithArgs("-c", `test "$POST_TITLE" = "Clip" && test "$POST_PROFILE_ID" = "p-1"`))

	err := c.Post(context.Background(), Job{
		ScheduleID: "e-1",
		Title:      "Clip",
		ProfileID:  "p-1",
	})
	require.NoError(t, err)
}

func TestCommandPosterFailureIncludesOutput(t *testing.T) {
	c := NewCommand("sh", WithArgs("-c", `echo "element not found" >&2; exit 3`))

	err := c.Post(context.Background(), Job{ScheduleID: "e-1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "element not found")
}

func TestCommandPosterMissingProgram(t *testing.T) {
	c := NewCommand("/nonexistent/poster-binary")

	err := c.Post(context.Background(), Job{})
	require.Error(t, err)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", truncate([]byte("abc"), 5))
	require.Equal(t, "abcde...", truncate([]byte("abcdefgh"), 5))
}
