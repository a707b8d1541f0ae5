package rescache_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rescache"
	"github.com/dmitrymomot/rescache/pkg/cache"
	"github.com/dmitrymomot/rescache/pkg/cachekey"
	"github.com/dmitrymomot/rescache/pkg/config"
	"github.com/dmitrymomot/rescache/pkg/fetcher"
	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

type user struct {
	id        string
	status    int
	teardowns int
}

func (u *user) Fetch(context.Context) (int, error) { return 200, nil }
func (u *user) SetStatus(status int)               { u.status = status }
func (u *user) Teardown()                          { u.teardowns++ }

func newUser(args fetcher.Args) fetcher.Resource {
	id, _ := args["userId"].(string)
	return &user{id: id}
}

func newCache(t *testing.T, cfg rescache.Config, opts ...rescache.Option) (*rescache.Cache, *scheduler.Virtual) {
	t.Helper()
	clock := scheduler.NewVirtual()
	rc, err := rescache.New(cfg, append([]rescache.Option{rescache.WithScheduler(clock)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, clock
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.Reset()
		t.Cleanup(config.Reset)

		cfg, err := rescache.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 150*time.Second, cfg.DefaultTimeout)
		assert.Zero(t, cfg.FetchTimeout)
		assert.Equal(t, 64, cfg.EventBuffer)
		assert.Empty(t, cfg.TimeoutsFile)
	})

	t.Run("environment", func(t *testing.T) {
		config.Reset()
		t.Cleanup(config.Reset)
		t.Setenv("RESCACHE_DEFAULT_TIMEOUT", "2m")
		t.Setenv("RESCACHE_FETCH_TIMEOUT", "5s")
		t.Setenv("RESCACHE_EVENT_BUFFER", "8")
		t.Setenv("RESCACHE_TIMEOUTS_FILE", "/etc/rescache/timeouts.yaml")

		cfg, err := rescache.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, rescache.Config{
			DefaultTimeout: 2 * time.Minute,
			FetchTimeout:   5 * time.Second,
			EventBuffer:    8,
			TimeoutsFile:   "/etc/rescache/timeouts.yaml",
		}, cfg)
	})

	t.Run("malformed duration", func(t *testing.T) {
		config.Reset()
		t.Cleanup(config.Reset)
		t.Setenv("RESCACHE_DEFAULT_TIMEOUT", "soon")

		_, err := rescache.LoadConfig()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestParseTimeouts(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		timeouts, err := rescache.ParseTimeouts(strings.NewReader("user: 30s\nplanets: 10m\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]time.Duration{
			"user":    30 * time.Second,
			"planets": 10 * time.Minute,
		}, timeouts)
	})

	t.Run("empty document", func(t *testing.T) {
		timeouts, err := rescache.ParseTimeouts(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, timeouts)
	})

	t.Run("missing unit", func(t *testing.T) {
		_, err := rescache.ParseTimeouts(strings.NewReader("user: 30\n"))
		assert.ErrorIs(t, err, rescache.ErrInvalidTimeout)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		_, err := rescache.ParseTimeouts(strings.NewReader("user: 0s\n"))
		assert.ErrorIs(t, err, rescache.ErrInvalidTimeout)
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := rescache.ParseTimeouts(strings.NewReader("- user\n- planets\n"))
		assert.ErrorIs(t, err, config.ErrParsingYAML)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects negative values", func(t *testing.T) {
		_, err := rescache.New(rescache.Config{DefaultTimeout: -time.Second})
		assert.ErrorIs(t, err, rescache.ErrInvalidConfig)

		_, err = rescache.New(rescache.Config{EventBuffer: -1})
		assert.ErrorIs(t, err, rescache.ErrInvalidConfig)
	})

	t.Run("missing timeouts file", func(t *testing.T) {
		_, err := rescache.New(rescache.Config{TimeoutsFile: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.ErrorIs(t, err, rescache.ErrLoadingTimeouts)
	})

	t.Run("timeouts file and options", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "timeouts.yaml")
		require.NoError(t, os.WriteFile(path, []byte("user: 2s\nplanets: 1h\n"), 0o600))

		rc, clock := newCache(t,
			rescache.Config{DefaultTimeout: time.Minute, TimeoutsFile: path},
			rescache.WithModelTimeouts(map[string]time.Duration{"planets": 3 * time.Second}),
		)

		rc.Put(cachekey.Build("user", map[string]any{"userId": "zorah"}), &user{})
		rc.Put("planets", &user{})
		rc.Put("aliens", &user{})

		clock.Advance(2 * time.Second)
		assert.False(t, rc.Has("user~userId=zorah"))
		assert.True(t, rc.Has("planets"))

		clock.Advance(time.Second)
		assert.False(t, rc.Has("planets"), "option overrides file")
		assert.True(t, rc.Has("aliens"))

		clock.Advance(time.Minute)
		assert.False(t, rc.Has("aliens"))
	})
}

func TestCache_RequestLifecycle(t *testing.T) {
	t.Parallel()

	rc, clock := newCache(t, rescache.Config{})
	owner := cache.NewOwnerID()
	key := cachekey.Build("user", map[string]any{"userId": "zorah"})

	f, err := rc.Request(context.Background(), key, newUser,
		fetcher.WithComponent(owner),
		fetcher.WithArgs(fetcher.Args{"userId": "zorah"}),
	)
	require.NoError(t, err)
	res, err := f.AwaitWithTimeout(time.Second)
	require.NoError(t, err)

	u := res.Resource.(*user)
	assert.Equal(t, "zorah", u.id)
	assert.Equal(t, 200, res.Status)
	assert.Equal(t, []cache.OwnerID{owner}, rc.Owners(key))

	rc.Unregister(owner)
	clock.Advance(cache.DefaultTimeout - time.Millisecond)
	assert.True(t, rc.ExistsInCache(key))
	clock.Advance(time.Millisecond)
	assert.False(t, rc.ExistsInCache(key))
	assert.Equal(t, 1, u.teardowns)
}

func TestCache_ResetForTest(t *testing.T) {
	t.Parallel()

	rc, clock := newCache(t, rescache.Config{})
	u := &user{}
	rc.Put("users", u)
	rc.Put("user~userId=zorah", &user{}, "c1")

	rc.ResetForTest()

	assert.Zero(t, rc.Len())
	assert.Zero(t, rc.InFlight())
	assert.Zero(t, clock.Pending())
	assert.Zero(t, u.teardowns, "reset does not tear down")
}
