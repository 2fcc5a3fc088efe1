package http

import "github.com/prometheus/client_golang/prometheus"

const (
	decisionBot      = "bot"
	decisionPreview  = "preview"
	decisionRedirect = "redirect"

	outcomeRedirect   = "redirect"
	outcomeBadRequest = "bad_request"
	outcomeNotFound   = "not_found"
	outcomeStoreError = "store_error"
)

type metrics struct {
	classifier *prometheus.CounterVec
	redirects  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		classifier: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortlink_classifier_total",
			Help: "Short-URL requests by classification decision.",
		}, []string{"decision"}),
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shortlink_redirects_total",
			Help: "Redirect resolutions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.classifier, m.redirects)

	return m
}
