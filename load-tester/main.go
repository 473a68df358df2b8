package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	BaseURL           string
	Total             int
	Rate              int
	Concurrency       int
	ConversionPercent int
	BotPercent        int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.BaseURL, "base-url", "", "Tracking service base URL (required)")
	flag.IntVar(&c.Total, "total", 10000, "Total clicks")
	flag.IntVar(&c.Rate, "rate", 2000, "Clicks per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.ConversionPercent, "conversion-percent", 5, "Percent of tracked clicks that report a conversion")
	flag.IntVar(&c.BotPercent, "bot-percent", 0, "Percent of clicks sent with a bot user agent")
	flag.Parse()

	if c.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -base-url is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 20 // Auto-scale workers
		if c.Concurrency < 50 {
			c.Concurrency = 50
		}
	}

	for _, p := range []*int{&c.ConversionPercent, &c.BotPercent} {
		if *p > 100 {
			*p = 100
		} else if *p < 0 {
			*p = 0
		}
	}

	return c
}

type Stats struct {
	ok          uint64
	blocked     uint64
	conversions uint64
	errors      uint64
	latency     int64 // microseconds
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddBlocked() {
	atomic.AddUint64(&s.blocked, 1)
}

func (s *Stats) AddConversion() {
	atomic.AddUint64(&s.conversions, 1)
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)
			blocked := atomic.LoadUint64(&s.blocked)
			convs := atomic.LoadUint64(&s.conversions)
			latTotal := atomic.LoadInt64(&s.latency)

			curOK := ok - lastOK
			curErr := errs - lastErr
			lastOK, lastErr = ok, errs

			avgLat := 0.0
			if ok > 0 {
				avgLat = float64(latTotal) / float64(ok) / 1000.0
			}

			log.Printf("[STATS] 1s -> OK: %d | ERR: %d | AvgLat: %.2fms | Total OK: %d | Blocked: %d | Conversions: %d",
				curOK, curErr, avgLat, ok, blocked, convs)
		}
	}
}

// clickPool collects click ids returned by the tracker so workers can
// report conversions against real clicks.
type clickPool struct {
	mu  sync.RWMutex
	buf []string
	max int
}

func newClickPool(max int) *clickPool {
	return &clickPool{buf: make([]string, 0, max), max: max}
}

func (p *clickPool) Add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) >= p.max {
		p.buf = p.buf[1:]
	}
	p.buf = append(p.buf, id)
}

func (p *clickPool) GetRandom(rng *rand.Rand) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.buf) == 0 {
		return "", false
	}
	return p.buf[rng.Intn(len(p.buf))], true
}

func main() {
	cfg := parseFlags()
	stats := &Stats{}
	pool := newClickPool(10000)

	// High-performance HTTP Client
	client := &http.Client{
		Timeout: 10 * time.Second,
		// Do not chase offer redirects; a 302 already proves the click landed.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency, // Critical: Keep as many connections open as there are workers.
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Starting Load Test: Target=%s Rate=%d/s Total=%d Workers=%d", cfg.BaseURL, cfg.Rate, cfg.Total, cfg.Concurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stats Logger
	go stats.StartLogger(ctx)

	// Job Queue
	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rngs := make([]*rand.Rand, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		rngs[i] = rand.New(rand.NewSource(rng.Int63()))
	}

	// Workers
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go startWorker(client, cfg, jobs, stats, pool, rngs[i], &wg)
	}

	// Rate Limiter (Main Loop)
	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := cfg.Rate
		if remaining < batch {
			batch = remaining
		}

		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		elapsed := time.Since(start)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Total OK: %d | Blocked: %d | Conversions: %d | Total Errors: %d",
		atomic.LoadUint64(&stats.ok), atomic.LoadUint64(&stats.blocked),
		atomic.LoadUint64(&stats.conversions), atomic.LoadUint64(&stats.errors))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, pool *clickPool, rng *rand.Rand, wg *sync.WaitGroup) {
	defer wg.Done()

	for range jobs {
		start := time.Now()

		clickID, status, err := sendClick(client, cfg.BaseURL, rng, cfg.BotPercent)
		switch {
		case err != nil:
			stats.AddError()
			continue
		case status == http.StatusForbidden:
			stats.AddBlocked()
			continue
		default:
			stats.AddOK(time.Since(start))
		}

		if clickID != "" {
			pool.Add(clickID)
		}

		if cfg.ConversionPercent > 0 && rng.Intn(100) < cfg.ConversionPercent {
			if id, ok := pool.GetRandom(rng); ok {
				if err := sendConversion(client, cfg.BaseURL, id, rng); err != nil {
					stats.AddError()
				} else {
					stats.AddConversion()
				}
			}
		}
	}
}

var (
	countries  = []string{"US", "DE", "BR", "IN", "TR"}
	devices    = []string{"mobile", "desktop", "tablet"}
	sources    = []string{"newsletter", "social", "search", "display"}
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	}
)

func sendClick(client *http.Client, baseURL string, rng *rand.Rand, botPercent int) (string, int, error) {
	query := url.Values{}
	query.Set("offer_id", fmt.Sprintf("off_%03d", rng.Intn(100)))
	query.Set("affiliate_id", fmt.Sprintf("aff_%03d", rng.Intn(500)))
	query.Set("ip", randomPublicIP(rng))
	query.Set("country", countries[rng.Intn(len(countries))])
	query.Set("device", devices[rng.Intn(len(devices))])
	query.Set("source", sources[rng.Intn(len(sources))])
	query.Set("sub1", fmt.Sprintf("campaign_%d", rng.Intn(50)))

	req, err := http.NewRequest(http.MethodGet, baseURL+"/track/click?"+query.Encode(), nil)
	if err != nil {
		return "", 0, err
	}
	ua := userAgents[rng.Intn(len(userAgents))]
	if botPercent > 0 && rng.Intn(100) < botPercent {
		ua = "Bot/1.0"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Referer", "https://publisher.example/landing")

	resp, err := client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	// Redirect responses carry the click id only server-side; conversions
	// are sampled from JSON responses.
	if resp.StatusCode == http.StatusOK {
		var result struct {
			ClickID string `json:"click_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
			return result.ClickID, resp.StatusCode, nil
		}
	}

	// Performance Hack: Read and discard the Body so the connection can be reused (Keep-Alive)
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return "", resp.StatusCode, fmt.Errorf("http status: %d", resp.StatusCode)
	}
	return "", resp.StatusCode, nil
}

func sendConversion(client *http.Client, baseURL, clickID string, rng *rand.Rand) error {
	payload := map[string]any{
		"click_id":       clickID,
		"payout":         fmt.Sprintf("%.2f", rng.Float64()*50),
		"transaction_id": fmt.Sprintf("txn_%d", rng.Int63()),
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, baseURL+"/track/conversion", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}
	return nil
}

func randomPublicIP(rng *rand.Rand) string {
	// Public address space so the fraud heuristics see realistic traffic.
	return fmt.Sprintf("203.0.%d.%d", rng.Intn(114), 1+rng.Intn(254))
}
