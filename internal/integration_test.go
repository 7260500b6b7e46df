package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit-backend/config"
	"shareit-backend/internal/api"
	"shareit-backend/internal/availability"
	"shareit-backend/internal/client"
	"shareit-backend/internal/db"
	"shareit-backend/internal/importer"
	"shareit-backend/internal/lending"
	"shareit-backend/internal/model"
	"shareit-backend/internal/notification"
	"shareit-backend/internal/store"
	"shareit-backend/internal/todo"
)

type capturingSender struct {
	mu       sync.Mutex
	payloads []string
}

func (s *capturingSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, sub.Endpoint+" "+string(payload))
	return &http.Response{StatusCode: http.StatusCreated, Body: io.NopCloser(strings.NewReader(""))}, nil
}

func (s *capturingSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.payloads...)
}

// TestLendingLifecycle runs a seeded catalog through the HTTP API and the
// optimistic client, checking the database after each step.
func TestLendingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Legacy feed: item 10 only carries the boolean flag.
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":10,"name":"Tent","available":false},{"id":"11","name":"Kayak","availability":"available"}]`)
	}))
	defer feed.Close()

	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	appStore := store.NewGormStore(gormDB)
	seedCfg := &config.SeedConfig{Items: config.DefaultSeedItems(), ImportURL: feed.URL}
	require.NoError(t, importer.NewService(seedCfg, appStore).SeedOnce(ctx))
	// Seeding again must not reset anything.
	require.NoError(t, importer.NewService(seedCfg, appStore).SeedOnce(ctx))

	sender := &capturingSender{}
	pushOptions := &webpush.Options{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}
	pool := notification.NewWorkerPool(2, gormDB, pushOptions).WithSender(sender)
	pool.Start(ctx)

	registry := prometheus.NewRegistry()
	svc := lending.NewService(appStore, lending.WithNotifier(pool), lending.WithMetrics(lending.NewMetrics(registry)))
	todos := todo.NewList(store.NewGormKV(gormDB, "todos"), time.Second)
	defer todos.Close()

	serverCfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 60}
	server := httptest.NewServer(api.NewRouter(serverCfg, api.NewHandler(appStore, svc, todos, pushOptions), registry))
	defer server.Close()

	require.NoError(t, gormDB.Create(&model.PushSubscription{
		Endpoint: "https://push.example.com/tent",
		P256DH:   "key",
		Auth:     "secret",
		Items:    []*model.Item{{ID: 10}},
	}).Error)

	stateInDB := func(id int64) availability.State {
		rec, err := appStore.FindByID(ctx, id)
		require.NoError(t, err)
		return rec.Availability
	}

	c := client.New(server.URL)
	require.NoError(t, c.Load(ctx))
	require.Len(t, c.Items(), 5)

	tent, ok := c.Find("10")
	require.True(t, ok)
	assert.Equal(t, availability.Borrowed, tent.Availability)
	assert.True(t, strings.HasPrefix(tent.ThumbnailURL, "data:image/svg+xml;charset=UTF-8,"))

	// Borrow an available item.
	item, err := c.Borrow(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, availability.Borrowed, item.Availability)
	assert.Equal(t, availability.Borrowed, stateInDB(1))

	// Borrowing it again is rejected and rolled back locally.
	_, err = c.Borrow(ctx, "1")
	var actionErr *client.ActionError
	require.True(t, errors.As(err, &actionErr))
	assert.Equal(t, http.StatusConflict, actionErr.Status)
	assert.Equal(t, "Item already borrowed", c.LastError())
	local, _ := c.Find("1")
	assert.Equal(t, availability.Borrowed, local.Availability)

	// Returning the legacy item rewrites it in string form and notifies the watcher.
	item, err = c.Return(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, availability.Available, item.Availability)

	var row model.Item
	require.NoError(t, gormDB.First(&row, 10).Error)
	require.NotNil(t, row.Availability)
	assert.Equal(t, "available", *row.Availability)
	assert.Nil(t, row.Available)
	assert.Equal(t, int64(2), row.Version)

	assert.Eventually(t, func() bool {
		sent := sender.sent()
		return len(sent) == 1 && sent[0] == "https://push.example.com/tent Tent is available again!"
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh client sees the server's truth.
	fresh := client.New(server.URL)
	require.NoError(t, fresh.Load(ctx))
	drill, _ := fresh.Find("1")
	assert.Equal(t, availability.Borrowed, drill.Availability)
	kayak, _ := fresh.Find("11")
	assert.Equal(t, availability.Available, kayak.Availability)
}

// TestConcurrentBorrowsOverHTTP checks that only one of many simultaneous
// borrow requests for the same item wins.
func TestConcurrentBorrowsOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	gormDB, err := db.Init(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	appStore := store.NewGormStore(gormDB)
	require.NoError(t, importer.NewService(&config.SeedConfig{Items: config.DefaultSeedItems()}, appStore).SeedOnce(ctx))

	svc := lending.NewService(appStore)
	serverCfg := config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000}
	server := httptest.NewServer(api.NewRouter(serverCfg, api.NewHandler(appStore, svc, nil, nil), nil))
	defer server.Close()

	const n = 10
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Post(server.URL+"/api/items/3/borrow", "application/json", nil)
			if err != nil {
				codes <- 0
				return
			}
			resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, 1, counts[http.StatusOK])
	assert.Equal(t, n-1, counts[http.StatusConflict])

	rec, err := appStore.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, availability.Borrowed, rec.Availability)
	assert.Equal(t, int64(2), rec.Version)
}
