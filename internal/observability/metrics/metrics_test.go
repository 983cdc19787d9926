package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestMailMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMailMetrics(reg)
	m.ObserveRender("subject", true)
	m.ObserveRender("html", false)
	m.ObserveDispatch("sendgrid", true, 0.2)
	m.ObserveDispatch("sendgrid", false, 0.4)
	m.SetTemplatesStored(3)

	rr := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	for _, want := range []string{
		`templated_mail_render_total{field="html",status="error"} 1`,
		`templated_mail_dispatch_total{provider="sendgrid",status="rejected"} 1`,
		`templated_mail_dispatch_latency_seconds_count{provider="sendgrid"} 2`,
		`templated_mail_templates_stored 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in exposition:\n%s", want, body)
		}
	}
}

func TestMailMetricsNilSafe(t *testing.T) {
	var m *MailMetrics
	m.ObserveRender("text", true)
	m.ObserveDispatch("stub", true, 0.1)
	m.SetTemplatesStored(1)
}
