package metrics

import (
	"time"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

// SnapshotSource is implemented by the mirror
type SnapshotSource interface {
	Snapshot() service.Snapshot
}

// MirrorCollector exports gauges computed from the mirror at scrape time
type MirrorCollector struct {
	source            SnapshotSource
	lowStockThreshold int

	queueEntries         *prometheus.Desc
	pendingPrescriptions *prometheus.Desc
	lowStockMedicines    *prometheus.Desc
	revenue              *prometheus.Desc
	mirrorAge            *prometheus.Desc
}

func NewMirrorCollector(namespace string, source SnapshotSource, lowStockThreshold int) *MirrorCollector {
	return &MirrorCollector{
		source:            source,
		lowStockThreshold: lowStockThreshold,
		queueEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mirror", "queue_entries"),
			"Queue entries by status",
			[]string{"status"}, nil,
		),
		pendingPrescriptions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mirror", "pending_prescriptions"),
			"Prescriptions waiting to be dispensed",
			nil, nil,
		),
		lowStockMedicines: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mirror", "low_stock_medicines"),
			"Medicines below the low stock threshold",
			nil, nil,
		),
		revenue: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mirror", "revenue_total"),
			"Sum of all recorded transactions",
			nil, nil,
		),
		mirrorAge: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "mirror", "age_seconds"),
			"Seconds since the last full refresh",
			nil, nil,
		),
	}
}

// RegisterMirror exposes the mirror gauges on m's registry
func (m *Metrics) RegisterMirror(c *MirrorCollector) {
	if m == nil {
		return
	}
	m.registry.MustRegister(c)
}

func (c *MirrorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queueEntries
	ch <- c.pendingPrescriptions
	ch <- c.lowStockMedicines
	ch <- c.revenue
	ch <- c.mirrorAge
}

func (c *MirrorCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.source.Snapshot()

	byStatus := map[entity.QueueStatus]int{
		entity.QueueStatusWaiting:   0,
		entity.QueueStatusExamining: 0,
		entity.QueueStatusPayment:   0,
		entity.QueueStatusPharmacy:  0,
		entity.QueueStatusCompleted: 0,
	}
	for _, q := range snap.Queue {
		byStatus[q.Status]++
	}
	for status, n := range byStatus {
		ch <- prometheus.MustNewConstMetric(c.queueEntries, prometheus.GaugeValue, float64(n), string(status))
	}

	pending := 0
	for i := range snap.Prescriptions {
		if snap.Prescriptions[i].IsPending() {
			pending++
		}
	}
	ch <- prometheus.MustNewConstMetric(c.pendingPrescriptions, prometheus.GaugeValue, float64(pending))

	lowStock := 0
	for i := range snap.Medicines {
		if snap.Medicines[i].IsLowStock(c.lowStockThreshold) {
			lowStock++
		}
	}
	ch <- prometheus.MustNewConstMetric(c.lowStockMedicines, prometheus.GaugeValue, float64(lowStock))

	revenue := 0.0
	for _, t := range snap.Transactions {
		revenue += t.Amount.InexactFloat64()
	}
	ch <- prometheus.MustNewConstMetric(c.revenue, prometheus.GaugeValue, revenue)

	age := 0.0
	if !snap.RefreshedAt.IsZero() {
		age = time.Since(snap.RefreshedAt).Seconds()
	}
	ch <- prometheus.MustNewConstMetric(c.mirrorAge, prometheus.GaugeValue, age)
}
