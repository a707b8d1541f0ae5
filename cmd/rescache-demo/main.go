package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/rescache"
	"github.com/dmitrymomot/rescache/pkg/cache"
	"github.com/dmitrymomot/rescache/pkg/cachekey"
	"github.com/dmitrymomot/rescache/pkg/config"
	"github.com/dmitrymomot/rescache/pkg/fetcher"
	"github.com/dmitrymomot/rescache/pkg/httpresource"
	"github.com/dmitrymomot/rescache/pkg/logger"
)

type demoConfig struct {
	Env       string `env:"RESCACHE_DEMO_ENV" envDefault:"development"`
	LogLevel  string `env:"RESCACHE_DEMO_LOG_LEVEL"`
	Consumers int    `env:"RESCACHE_DEMO_CONSUMERS" envDefault:"8"`
}

type requestIDKey struct{}

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// userTimeout keeps the eviction step of the demo short.
const userTimeout = 300 * time.Millisecond

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("rescache-demo: %v", err)
	}
}

func run(ctx context.Context) error {
	var demo demoConfig
	if err := config.Load(&demo); err != nil {
		return err
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(demo.Env, "rescache-demo"),
		logger.WithContextValue("request_id", requestIDKey{}),
	}
	if demo.LogLevel != "" {
		level, err := logger.ParseLevel(demo.LogLevel)
		if err != nil {
			return err
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	l := logger.New(logOpts...)
	logger.SetAsDefault(l)

	cfg, err := rescache.LoadConfig()
	if err != nil {
		return err
	}
	rc, err := rescache.New(cfg,
		rescache.WithLogger(l),
		rescache.WithModelTimeouts(map[string]time.Duration{"user": userTimeout}),
	)
	if err != nil {
		return err
	}
	defer rc.Close()

	sub := rc.Subscribe(ctx)
	defer sub.Close()
	go func() {
		for ev := range sub.Events() {
			l.Debug("cache event", logger.Event(string(ev.Kind)), logger.Key(ev.Key))
		}
	}()

	var hits atomic.Int32
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: newAPI(&hits), ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		api := httpresource.NewClient("http://"+ln.Addr().String(),
			httpresource.WithLogger(l),
			httpresource.WithRetryWait(10*time.Millisecond, 100*time.Millisecond),
		)
		return exercise(gctx, l, rc, api, &hits, demo.Consumers)
	})

	return g.Wait()
}

func newAPI(hits *atomic.Int32) http.Handler {
	users := map[string]user{
		"zorah": {ID: "zorah", Name: "Zorah Fyon"},
		"arvid": {ID: "arvid", Name: "Arvid Lenn"},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			// Slow enough for concurrent consumers to overlap.
			time.Sleep(50 * time.Millisecond)
			next.ServeHTTP(w, r)
		})
	})
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		list := make([]user, 0, len(users))
		for _, u := range users {
			list = append(list, u)
		}
		writeJSON(w, list)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u, ok := users[chi.URLParam(r, "id")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, u)
	})
	return r
}

func exercise(ctx context.Context, l *slog.Logger, rc *rescache.Cache, api *httpresource.Client, hits *atomic.Int32, consumers int) error {
	ctx = context.WithValue(ctx, requestIDKey{}, uuid.NewString())

	newUser := httpresource.Constructor[user](api, func(args fetcher.Args) string {
		return fmt.Sprintf("/users/%v", args["userId"])
	})
	newUsers := httpresource.Constructor[[]user](api, func(fetcher.Args) string { return "/users" })
	userKey := func(id string) string { return cachekey.Build("user", map[string]any{"userId": id}) }

	// Many consumers, one fetch.
	owners := make([]cache.OwnerID, consumers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range owners {
		owners[i] = cache.NewOwnerID()
		g.Go(func() error {
			f, err := rc.Request(gctx, userKey("zorah"), newUser,
				fetcher.WithComponent(owners[i]),
				fetcher.WithArgs(fetcher.Args{"userId": "zorah"}),
			)
			if err != nil {
				return err
			}
			_, err = f.AwaitContext(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	l.InfoContext(ctx, "deduplicated fetch",
		logger.Count(consumers),
		slog.Int("http_requests", int(hits.Load())),
		logger.Key(userKey("zorah")),
	)

	// A failed fetch leaves nothing behind.
	f, err := rc.Request(ctx, userKey("nobody"), newUser, fetcher.WithArgs(fetcher.Args{"userId": "nobody"}))
	if err != nil {
		return err
	}
	if _, err := f.AwaitContext(ctx); err != nil {
		var fe *fetcher.FetchError
		if errors.As(err, &fe) {
			l.InfoContext(ctx, "fetch rejected",
				logger.Status(fe.Status),
				slog.Bool("cached", rc.ExistsInCache(userKey("nobody"))),
			)
		}
	}

	// Releasing every owner starts the grace period.
	for _, owner := range owners {
		rc.Unregister(owner)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(userTimeout + 100*time.Millisecond):
	}
	l.InfoContext(ctx, "grace period elapsed", slog.Bool("cached", rc.ExistsInCache(userKey("zorah"))))

	// Bulk invalidation.
	owner := cache.NewOwnerID()
	if _, err := rc.RequestAll(ctx,
		fetcher.Request{Key: "users", Constructor: newUsers, Options: []fetcher.RequestOption{fetcher.WithComponent(owner)}},
		fetcher.Request{Key: userKey("zorah"), Constructor: newUser, Options: []fetcher.RequestOption{
			fetcher.WithComponent(owner), fetcher.WithArgs(fetcher.Args{"userId": "zorah"}),
		}},
		fetcher.Request{Key: userKey("arvid"), Constructor: newUser, Options: []fetcher.RequestOption{
			fetcher.WithPrefetch(), fetcher.WithArgs(fetcher.Args{"userId": "arvid"}),
		}},
	); err != nil {
		return err
	}
	l.InfoContext(ctx, "cache warmed", logger.Keys(rc.Keys()))

	rc.RemoveAllWithModel("user")
	l.InfoContext(ctx, "removed user model", logger.Keys(rc.Keys()))

	rc.RemoveAllExcept()
	l.InfoContext(ctx, "removed everything", logger.Count(rc.Len()))

	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
