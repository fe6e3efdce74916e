package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	recordWrites = newCounterVec("op", "result")
	mailSent     = newCounterVec("kind", "result")
	joinRequests = newCounterVec("result")

	storeDuration = newHistogram([]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

// IncRecordWrite counts a create, update or delete with its outcome.
func IncRecordWrite(op, result string) {
	recordWrites.Inc(op, result)
}

// IncMailSent counts a mail delivery attempt by kind (join, contact).
func IncMailSent(kind, result string) {
	mailSent.Inc(kind, result)
}

// IncJoinRequest counts join-request submissions.
func IncJoinRequest(result string) {
	joinRequests.Inc(result)
}

// ObserveStoreDuration records a record-store call duration.
func ObserveStoreDuration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	storeDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "record_writes_total", "Record writes by operation and result", recordWrites)
	writeCounterVec(&buf, "mail_sent_total", "Mail deliveries by kind and result", mailSent)
	writeCounterVec(&buf, "join_requests_total", "Join requests by result", joinRequests)
	writeHistogram(&buf, "record_store_duration_ms", "Record store call duration in milliseconds", storeDuration.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	labels []string
	values map[string]uint64
}

func newCounterVec(labels ...string) *counterVec {
	return &counterVec{labels: labels, values: make(map[string]uint64)}
}

func (v *counterVec) Inc(values ...string) {
	parts := make([]string, len(v.labels))
	for i, name := range v.labels {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		parts[i] = fmt.Sprintf("%s=%q", name, val)
	}
	key := strings.Join(parts, ",")
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounterVec(buf *bytes.Buffer, name, help string, v *counterVec) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	snap := v.snapshot()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, k, snap[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
