package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goRelay "github.com/MrEthical07/goRelay"
	"github.com/MrEthical07/goRelay/envelope"
	"github.com/MrEthical07/goRelay/session"
	"github.com/MrEthical07/goRelay/token"
	"github.com/MrEthical07/goRelay/transport"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type seededSession struct {
	sid    string
	userID string
	access string
}

func main() {
	var (
		sessions    = flag.Int("sessions", 50000, "number of sessions to seed")
		connections = flag.Int("connections", 5000, "number of bound realtime connections")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (authorize + send)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *sessions <= 0 || *connections <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, connections, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goRelay.DefaultConfig()
	cfg.Token.PrivateKey = []byte("loadtest-signing-key-0123456789!")
	cfg.Authz.CacheWindow = 30 * time.Second

	hub := transport.NewLocalHub()

	engine, err := goRelay.New().
		WithConfig(cfg).
		WithRedis(client).
		WithPusher(hub).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	minter, err := token.NewManager(token.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		SigningMethod: token.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cfg.Token.PrivateKey,
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
		Leeway:        cfg.Token.Leeway,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "token manager init failed: %v\n", err)
		os.Exit(1)
	}

	store := session.NewStore(client, cfg.Session.RedisPrefix)

	states := make([]seededSession, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	startSeed := time.Now()
	now := time.Now()
	for i := 0; i < *sessions; i++ {
		sid := fmt.Sprintf("sid-%d", i)
		uid := fmt.Sprintf("user-%d", i)
		rec := &session.Record{
			SessionID:   sid,
			UserID:      uid,
			DisplayName: "Load Tester",
			Roles:       []string{"user"},
			CreatedAt:   now.Unix(),
			LastSeenAt:  now.Unix(),
			ExpiresAt:   now.Add(24 * time.Hour).Unix(),
		}
		if err := store.Save(ctx, rec, 24*time.Hour); err != nil {
			fmt.Fprintf(os.Stderr, "session save failed: %v\n", err)
			os.Exit(1)
		}
		access, err := minter.Create(uid, sid, "Load Tester", []string{"user"})
		if err != nil {
			fmt.Fprintf(os.Stderr, "token mint failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = seededSession{sid: sid, userID: uid, access: access}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	connIDs, drained := bindConnections(ctx, engine, hub, states, *connections)
	fmt.Printf("bound %d connections\n", len(connIDs))

	authorizeStats := runAuthorizePhase(ctx, engine, states, *ops, *concurrency)
	sendStats := runSendPhase(ctx, engine, connIDs, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("authorize", authorizeStats)
	printStats("send", sendStats)
	fmt.Printf("payloads drained: %d\n", drained.Load())
}

// bindConnections registers realtime connections round-robin over the seeded
// sessions and starts a drain goroutine per connection so pushes never block.
func bindConnections(ctx context.Context, engine *goRelay.Engine, hub *transport.LocalHub, states []seededSession, n int) ([]string, *atomic.Int64) {
	drained := &atomic.Int64{}
	connIDs := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("conn-%d", i)
		payloads := hub.Open(id, 64)
		go func() {
			for range payloads {
				drained.Add(1)
			}
		}()
		owner := states[i%len(states)]
		if err := engine.Bind(ctx, id, owner.userID); err != nil {
			fmt.Fprintf(os.Stderr, "bind failed: %v\n", err)
			os.Exit(1)
		}
		connIDs[i] = id
	}
	return connIDs, drained
}

func runAuthorizePhase(ctx context.Context, engine *goRelay.Engine, states []seededSession, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(states))
				t0 := time.Now()
				decision := engine.Authorize(ctx, states[idx].access, "chat:send")
				d := time.Since(t0)
				if !decision.Allow {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runSendPhase(ctx context.Context, engine *goRelay.Engine, connIDs []string, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(connIDs))
				env := envelope.NewTypingStatus(i%2 == 0)
				t0 := time.Now()
				delivered, err := engine.Send(ctx, connIDs[idx], env)
				d := time.Since(t0)
				if err != nil || !delivered {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
