package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "alcotrade"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CMSMetrics counts editorial operations: entity saves, media uploads and
// best-effort remote deletes.
type CMSMetrics struct {
	saves         *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	remoteDeletes *prometheus.CounterVec
}

// NewCMSMetrics registers the counters on reg. A nil registerer yields a
// recorder that drops everything.
func NewCMSMetrics(reg prometheus.Registerer) *CMSMetrics {
	if reg == nil {
		return &CMSMetrics{}
	}
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_saves_total",
		Help:      "Committed or failed entity saves.",
	}, []string{"entity", "outcome"})
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_uploads_total",
		Help:      "Media uploads by storage provider.",
	}, []string{"provider", "outcome"})
	remoteDeletes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_remote_deletes_total",
		Help:      "Remote object deletions by storage provider.",
	}, []string{"provider", "outcome"})
	reg.MustRegister(saves, uploads, remoteDeletes)
	return &CMSMetrics{saves: saves, uploads: uploads, remoteDeletes: remoteDeletes}
}

func (m *CMSMetrics) IncSave(entity string, err error) {
	if m == nil || m.saves == nil {
		return
	}
	m.saves.WithLabelValues(normalizeLabel(entity), outcome(err)).Inc()
}

func (m *CMSMetrics) IncUpload(provider string, err error) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(provider), outcome(err)).Inc()
}

func (m *CMSMetrics) IncRemoteDelete(provider string, err error) {
	if m == nil || m.remoteDeletes == nil {
		return
	}
	m.remoteDeletes.WithLabelValues(normalizeLabel(provider), outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
