package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorBusinessCounters(t *testing.T) {
	c := NewCollector("agentxrp")

	c.VoteCast("up")
	c.VoteCast("up")
	c.VoteCast("down")
	c.TipRecorded(5_000_000)
	c.TipRecorded(0)
	c.DuplicateTipRejected()
	c.KarmaRecalculationFailed()
	c.EventPublishFailed("tip.recorded")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.VotesCast.WithLabelValues("up")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.VotesCast.WithLabelValues("down")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.TipsRecorded))
	assert.Equal(t, 5_000_000.0, testutil.ToFloat64(c.TipDropsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.DuplicateTips))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.KarmaFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.EventPublishFailures.WithLabelValues("tip.recorded")))
}

func TestCollectorBusOutcomes(t *testing.T) {
	c := NewCollector("agentxrp")

	c.ObserveCommand("CastVoteCommand", 3*time.Millisecond, nil)
	c.ObserveCommand("CastVoteCommand", time.Millisecond, errors.New("boom"))
	c.ObserveQuery("StatsQuery", time.Millisecond, nil)
	c.ObserveHTTP(http.MethodGet, "/api/stats", http.StatusOK, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Commands.WithLabelValues("CastVoteCommand", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Commands.WithLabelValues("CastVoteCommand", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Queries.WithLabelValues("StatsQuery", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("GET", "/api/stats", "200")))
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("agentxrp")
	c.DuplicateTipRejected()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "agentxrp_duplicate_tips_rejected_total 1"))
}

func TestInitTracing(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracing(ctx, TracingConfig{ServiceName: "test", Exporter: ExporterNone})
	require.NoError(t, err)
	_, span := tp.Tracer().Start(ctx, "noop")
	span.End()
	assert.NoError(t, tp.Shutdown(ctx))

	var buf strings.Builder
	tp, err = InitTracing(ctx, TracingConfig{ServiceName: "test", Exporter: ExporterStdout, Writer: &buf})
	require.NoError(t, err)
	_, span = tp.Tracer().Start(ctx, "recorded")
	span.End()
	require.NoError(t, tp.Shutdown(ctx))
	assert.Contains(t, buf.String(), "recorded")

	_, err = InitTracing(ctx, TracingConfig{Exporter: "zipkin"})
	assert.Error(t, err)
}
