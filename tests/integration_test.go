package tests

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/techmart/internal/adapter/storage"
	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/core/service"
)

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	cache   *storage.RedisAdapter
	db      *storage.MySQLAdapter
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/techmart?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	schema, err := os.ReadFile("../migrations/001_storefront.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	for _, stmt := range strings.Split(string(schema), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}

	return &testEnv{
		redis: rdb,
		mysql: db,
		cache: storage.NewRedisAdapter(rdb),
		db:    storage.NewMySQLAdapter(db),
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

func newStorefront(env *testEnv) *service.Storefront {
	return service.NewStorefront(service.Dependencies{
		Cache:   env.cache,
		Catalog: env.db,
		Timing: service.Timing{
			NewsletterDelay: 20 * time.Millisecond,
			ContactDelay:    20 * time.Millisecond,
		},
		QueueSize: 100,
	})
}

func TestIntegration_CartAndCatalogFlow(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	productID := "integration-" + uuid.NewString()[:8]

	_, err := env.mysql.ExecContext(ctx, `
		INSERT INTO products (id, name, category, brand, price_label, rating_label, position)
		VALUES (?, 'Integration Phone', 'smartphones', 'apple', '$1,099.00', '4.9 (12 reviews)', 0)`, productID)
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	defer env.mysql.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, productID)

	store := newStorefront(env)
	defer store.Close()

	session := store.Sessions.New()
	defer env.redis.Del(ctx, storage.CartKey(session.ID))

	product, err := store.Catalog.Product(ctx, productID)
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	if !product.Price.Equal(decimal.RequireFromString("1099")) {
		t.Fatalf("expected price 1099, got %s", product.Price)
	}

	item := domain.CartItem{ID: product.ID, Name: product.Name, Price: product.Price, Quantity: 1}
	for i := 0; i < 2; i++ {
		if _, err := store.Cart.AddToCart(ctx, session.ID, item); err != nil {
			t.Fatalf("AddToCart failed: %v", err)
		}
	}

	// Reload keeps the persisted cart
	store.Sessions.Reload(session.ID)

	summary, err := store.Cart.CartSummary(ctx, session.ID)
	if err != nil {
		t.Fatalf("CartSummary failed: %v", err)
	}
	if summary.ItemCount != 2 {
		t.Errorf("expected count 2, got %d", summary.ItemCount)
	}
	if got := domain.FormatCurrency(summary.Total); got != "$2373.84" {
		t.Errorf("expected total $2373.84, got %s", got)
	}

	cards, err := store.Catalog.Browse(ctx, domain.ProductFilter{Categories: []string{"smartphones"}}, domain.SortPriceHigh)
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	found := false
	for _, c := range cards {
		if c.ID == productID {
			found = c.Visible
		}
	}
	if !found {
		t.Error("integration product should be visible under smartphones")
	}
}

func TestIntegration_ConcurrentAddsKeepCount(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	store := newStorefront(env)
	defer store.Close()

	sessionID := "integration-" + uuid.NewString()
	defer env.redis.Del(ctx, storage.CartKey(sessionID))

	var successCount atomic.Int32
	var wg sync.WaitGroup
	concurrency := 50

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Cart.AddToCart(ctx, sessionID, domain.CartItem{
				ID: "concurrent-item", Name: "Concurrent Item", Price: decimal.NewFromInt(1), Quantity: 1,
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			successCount.Add(1)
		}()
	}
	wg.Wait()

	count, err := store.Cart.CartCount(ctx, sessionID)
	if err != nil {
		t.Fatalf("CartCount failed: %v", err)
	}
	if count != int(successCount.Load()) {
		t.Errorf("expected count %d, got %d", successCount.Load(), count)
	}
}

func TestIntegration_SubmissionsPersisted(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	ctx := context.Background()
	store := newStorefront(env)
	workers := service.StartSubmissionWorkers(2, store.Forms.GetSubmissionQueue(), env.db, nil)

	session := store.Sessions.New()
	email := uuid.NewString()[:8] + "@example.com"
	key := uuid.NewString()

	op, _, err := store.Forms.SubscribeNewsletter(ctx, session, email, key)
	if err != nil {
		t.Fatalf("SubscribeNewsletter failed: %v", err)
	}
	if err := op.Wait(ctx); err != nil {
		t.Fatalf("operation failed: %v", err)
	}

	// The same key is refused
	if _, _, err := store.Forms.SubscribeNewsletter(ctx, session, email, key); err != service.ErrDuplicateSubmission {
		t.Errorf("expected ErrDuplicateSubmission, got: %v", err)
	}

	store.Close()
	workers.Wait()

	var count int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE email = ? AND kind = 'newsletter'`, email).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 persisted submission, got %d", count)
	}
	env.mysql.ExecContext(ctx, `DELETE FROM submissions WHERE email = ?`, email)
	env.redis.Del(ctx, "submission:newsletter:"+key)
}
