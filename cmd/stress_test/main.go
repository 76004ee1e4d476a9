package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/techmart/internal/adapter/storage"
	"github.com/rl1809/techmart/internal/core/domain"
	"github.com/rl1809/techmart/internal/core/service"
)

const (
	totalRequests = 50
	productCount  = 5
)

func main() {
	ctx := context.Background()

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	sessionID := "stress-" + uuid.NewString()
	defer rdb.Del(ctx, storage.CartKey(sessionID))

	store := service.NewStorefront(service.Dependencies{
		Cache:   storage.NewRedisAdapter(rdb),
		Catalog: storage.NewStaticCatalog(),
	})
	defer store.Close()

	var successCount atomic.Int32
	var failCount atomic.Int32

	// Every request adds one unit of one of a few products to the same cart
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := store.Cart.AddToCart(ctx, sessionID, domain.CartItem{
				ID:       fmt.Sprintf("product-%d", n%productCount),
				Name:     fmt.Sprintf("Product %d", n%productCount),
				Price:    decimal.NewFromInt(int64(10 * (n%productCount + 1))),
				Quantity: 1,
			})
			if err == nil {
				successCount.Add(1)
			} else {
				failCount.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	items, err := store.Cart.Cart(ctx, sessionID)
	if err != nil {
		log.Fatalf("failed to read cart: %v", err)
	}
	summary := domain.Summarize(items)
	fmt.Printf("Cart lines:       %d\n", len(items))
	fmt.Printf("Cart count:       %d\n", summary.ItemCount)
	fmt.Printf("Cart total:       %s\n", domain.FormatCurrency(summary.Total))

	if int32(summary.ItemCount) == success && fail == 0 {
		fmt.Printf("PASS: cart count matches %d successful adds\n", success)
	} else {
		fmt.Printf("FAIL: expected count %d, got %d (%d failed)\n", success, summary.ItemCount, fail)
	}

	if len(items) == productCount {
		fmt.Println("PASS: one line per product")
	} else {
		fmt.Printf("FAIL: expected %d lines, got %d\n", productCount, len(items))
	}
}
