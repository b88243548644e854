// Нагрузочный прогон валидационного API: обстреливает проверки 80/20,
// добавления строк и валидацию аффектаций, собирает латентности и коды
// ответов. Предполагает сервис, запущенный с демо-набором справочников.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type loadMode string

const (
	modeCompliance loadMode = "compliance"
	modeLines      loadMode = "lines"
	modeSchedule   loadMode = "schedule"
	modeMixed      loadMode = "mixed"
)

type config struct {
	baseURL     string
	total       int
	concurrency int
	timeout     time.Duration
	mode        loadMode
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type endpointReport struct {
	Calls     int64            `json:"calls"`
	Success   int64            `json:"success"`
	Failed    int64            `json:"failed"`
	ErrorRate float64          `json:"error_rate"`
	Statuses  map[string]int64 `json:"statuses"`
	LatencyMs latencySummary   `json:"latency_ms"`
}

type report struct {
	StartedAt       time.Time                 `json:"started_at"`
	DurationSeconds float64                   `json:"duration_seconds"`
	TotalRequests   int64                     `json:"total_requests"`
	FailedRequests  int64                     `json:"failed_requests"`
	ErrorRate       float64                   `json:"error_rate"`
	RPS             float64                   `json:"rps"`
	Endpoints       map[string]endpointReport `json:"endpoints"`
}

type endpointStats struct {
	calls     int64
	success   int64
	failed    int64
	statuses  map[string]int64
	latencies []float64
}

type collector struct {
	mu        sync.Mutex
	endpoints map[string]*endpointStats
}

func newCollector() *collector {
	return &collector{endpoints: make(map[string]*endpointStats)}
}

// Успехом считается любой осмысленный ответ API: и 200, и доменный
// отказ 422 — прогон меряет доступность и латентность, а не долю
// валидных черновиков.
func (c *collector) record(endpoint string, latency time.Duration, status int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats, ok := c.endpoints[endpoint]
	if !ok {
		stats = &endpointStats{statuses: make(map[string]int64)}
		c.endpoints[endpoint] = stats
	}

	stats.calls++
	switch {
	case err != nil:
		stats.failed++
		stats.statuses["transport_error"]++
	case status == http.StatusOK || status == http.StatusUnprocessableEntity:
		stats.success++
		stats.statuses[strconv.Itoa(status)]++
	default:
		stats.failed++
		stats.statuses[strconv.Itoa(status)]++
	}
	stats.latencies = append(stats.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) buildReport(startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		Endpoints:       make(map[string]endpointReport, len(c.endpoints)),
	}

	for name, stats := range c.endpoints {
		statusesCopy := make(map[string]int64, len(stats.statuses))
		for status, count := range stats.statuses {
			statusesCopy[status] = count
		}
		result.TotalRequests += stats.calls
		result.FailedRequests += stats.failed
		result.Endpoints[name] = endpointReport{
			Calls:     stats.calls,
			Success:   stats.success,
			Failed:    stats.failed,
			ErrorRate: ratio(stats.failed, stats.calls),
			Statuses:  statusesCopy,
			LatencyMs: buildLatencySummary(stats.latencies),
		}
	}

	result.ErrorRate = ratio(result.FailedRequests, result.TotalRequests)
	if duration > 0 {
		result.RPS = float64(result.TotalRequests) / duration.Seconds()
	}

	return result
}

func parseConfig() (config, error) {
	var cfg config
	var modeValue string
	var timeoutValue string

	flag.StringVar(&cfg.baseURL, "url", "http://localhost:8080", "validation API base URL")
	flag.IntVar(&cfg.total, "total", 1000, "total requests to execute")
	flag.IntVar(&cfg.concurrency, "concurrency", 20, "number of concurrent workers")
	flag.StringVar(&timeoutValue, "timeout", "5s", "per-request timeout")
	flag.StringVar(&modeValue, "mode", string(modeMixed), "load mode: compliance | lines | schedule | mixed")
	flag.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	flag.Parse()

	timeout, err := time.ParseDuration(strings.TrimSpace(timeoutValue))
	if err != nil {
		return cfg, fmt.Errorf("parse timeout: %w", err)
	}
	cfg.timeout = timeout

	switch loadMode(strings.TrimSpace(modeValue)) {
	case modeCompliance, modeLines, modeSchedule, modeMixed:
		cfg.mode = loadMode(strings.TrimSpace(modeValue))
	default:
		return cfg, fmt.Errorf("unsupported mode: %s", modeValue)
	}

	if cfg.total <= 0 {
		return cfg, errors.New("total must be > 0")
	}
	if cfg.concurrency <= 0 {
		return cfg, errors.New("concurrency must be > 0")
	}
	if cfg.timeout <= 0 {
		return cfg, errors.New("timeout must be > 0")
	}
	cfg.baseURL = strings.TrimRight(cfg.baseURL, "/")

	return cfg, nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: cfg.timeout}
	col := newCollector()
	startedAt := time.Now()

	jobs := make(chan int, cfg.concurrency*2)
	var transportFailures int64
	var wg sync.WaitGroup

	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if err := runRequest(client, cfg, id, col); err != nil {
					atomic.AddInt64(&transportFailures, 1)
				}
			}
		}()
	}

	for i := 0; i < cfg.total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	duration := time.Since(startedAt)
	result := col.buildReport(startedAt, duration)

	printReport(result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	}

	if result.FailedRequests > 0 {
		os.Exit(1)
	}
}

func runRequest(client *http.Client, cfg config, index int, col *collector) error {
	mode := cfg.mode
	if mode == modeMixed {
		switch index % 3 {
		case 0:
			mode = modeCompliance
		case 1:
			mode = modeLines
		default:
			mode = modeSchedule
		}
	}

	switch mode {
	case modeCompliance:
		return post(client, cfg, "/api/v1/orders/compliance", compliancePayload(index), col)
	case modeLines:
		return post(client, cfg, "/api/v1/orders/lines/check", linePayload(index), col)
	default:
		return post(client, cfg, "/api/v1/assignments/validate", schedulePayload(index), col)
	}
}

// compliancePayload чередует конформные и неконформные корзины,
// чтобы прогон покрывал обе ветки расчёта.
func compliancePayload(index int) map[string]any {
	primaryQty := 100
	independentQty := 5
	if index%2 == 1 {
		independentQty = 100
	}
	return map[string]any{
		"lines": []map[string]any{
			{
				"product_id":   "prod-buns",
				"warehouse_id": "wh-paris-nord",
				"quantity":     primaryQty,
				"unit_price":   "0.55",
			},
			{
				"product_id":   "prod-beef",
				"warehouse_id": "wh-rungis",
				"quantity":     independentQty,
				"unit_price":   "12.40",
			},
		},
	}
}

func linePayload(index int) map[string]any {
	quantity := 1 + index%50
	return map[string]any{
		"lines": []map[string]any{},
		"line": map[string]any{
			"product_id":   "prod-buns",
			"warehouse_id": "wh-paris-nord",
			"quantity":     quantity,
		},
	}
}

func schedulePayload(index int) map[string]any {
	day := 1 + index%28
	return map[string]any{
		"truck_id":    "truck-01",
		"location_id": "loc-republique",
		"start_date":  fmt.Sprintf("2031-07-%02d", day),
		"start_time":  "11:00",
		"end_time":    "15:00",
	}
}

func post(client *http.Client, cfg config, path string, payload map[string]any, col *collector) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := client.Post(cfg.baseURL+path, "application/json", bytes.NewReader(raw))
	latency := time.Since(start)

	if err != nil {
		col.record(path, latency, 0, err)
		return err
	}
	defer resp.Body.Close()

	col.record(path, latency, resp.StatusCode, nil)
	return nil
}

func writeJSONReport(path string, result report) error {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == string(filepath.Separator) {
		return errors.New("output path must point to a file")
	}
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output path must be inside current directory: %s", path)
	}

	// #nosec G304 -- path is an explicit CLI output parameter for local load-test reports.
	file, err := os.Create(cleanPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printReport(result report, cfg config) {
	fmt.Println("Load test summary")
	fmt.Printf("mode=%s total=%d failed=%d error_rate=%.4f\n",
		cfg.mode, result.TotalRequests, result.FailedRequests, result.ErrorRate)
	fmt.Printf("duration=%.2fs rps=%.2f\n", result.DurationSeconds, result.RPS)

	names := make([]string, 0, len(result.Endpoints))
	for name := range result.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := result.Endpoints[name]
		fmt.Printf(
			"%s: calls=%d success=%d failed=%d p50=%.2fms p95=%.2fms p99=%.2fms\n",
			name,
			stats.Calls,
			stats.Success,
			stats.Failed,
			stats.LatencyMs.P50,
			stats.LatencyMs.P95,
			stats.LatencyMs.P99,
		)
	}
}

func buildLatencySummary(values []float64) latencySummary {
	if len(values) == 0 {
		return latencySummary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, value := range sorted {
		sum += value
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(sorted, 50),
		P95: percentile(sorted, 95),
		P99: percentile(sorted, 99),
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := (p / 100.0) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}

	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight
}

func ratio(failed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(failed) / float64(total)
}
