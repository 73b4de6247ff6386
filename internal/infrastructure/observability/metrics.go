package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics.
// Implements the ticket.Recorder interface.
type Metrics struct {
	meter metric.Meter

	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPRequestsActive  metric.Int64UpDownCounter

	// Relay pipeline metrics
	TicketsRelayedTotal metric.Int64Counter
	RelayDuration       metric.Float64Histogram

	// Enrichment metrics
	CommentsFetchedTotal     metric.Int64Counter
	CommentFetchDegradations metric.Int64Counter
	AuthorLookupsTotal       metric.Int64Counter
	AuthorCacheHitsTotal     metric.Int64Counter

	// Dispatch metrics
	DispatchesTotal     metric.Int64Counter
	DispatchDuration    metric.Float64Histogram
	DispatchErrorsTotal metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// HTTP metrics
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http.server.requests.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_request_duration: %w", err)
	}

	m.HTTPRequestsActive, err = meter.Int64UpDownCounter(
		"http.server.requests.active",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http_requests_active: %w", err)
	}

	// Relay pipeline metrics
	m.TicketsRelayedTotal, err = meter.Int64Counter(
		"tickets.relayed.total",
		metric.WithDescription("Total number of ticket events run through the pipeline"),
		metric.WithUnit("{tickets}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tickets_relayed_total: %w", err)
	}

	m.RelayDuration, err = meter.Float64Histogram(
		"tickets.relay.duration",
		metric.WithDescription("Ticket relay duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating relay_duration: %w", err)
	}

	// Enrichment metrics
	m.CommentsFetchedTotal, err = meter.Int64Counter(
		"zendesk.comments.fetched.total",
		metric.WithDescription("Total number of ticket comments fetched"),
		metric.WithUnit("{comments}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating comments_fetched_total: %w", err)
	}

	m.CommentFetchDegradations, err = meter.Int64Counter(
		"zendesk.comments.degraded.total",
		metric.WithDescription("Total number of comment fetches that failed and degraded to a summary-only message"),
		metric.WithUnit("{fetches}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment_fetch_degradations: %w", err)
	}

	m.AuthorLookupsTotal, err = meter.Int64Counter(
		"zendesk.author.lookups.total",
		metric.WithDescription("Total number of author lookups by outcome"),
		metric.WithUnit("{lookups}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating author_lookups_total: %w", err)
	}

	m.AuthorCacheHitsTotal, err = meter.Int64Counter(
		"zendesk.author.cache_hits.total",
		metric.WithDescription("Total number of author resolutions served from the per-run cache"),
		metric.WithUnit("{hits}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating author_cache_hits_total: %w", err)
	}

	// Dispatch metrics
	m.DispatchesTotal, err = meter.Int64Counter(
		"dispatches.total",
		metric.WithDescription("Total number of chat dispatch attempts"),
		metric.WithUnit("{dispatches}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatches_total: %w", err)
	}

	m.DispatchDuration, err = meter.Float64Histogram(
		"dispatches.duration",
		metric.WithDescription("Dispatch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch_duration: %w", err)
	}

	m.DispatchErrorsTotal, err = meter.Int64Counter(
		"dispatches.errors.total",
		metric.WithDescription("Total number of failed dispatches"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatch_errors_total: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordTicketRelayed records the final stage of a pipeline run.
func (m *Metrics) RecordTicketRelayed(ctx context.Context, stage, errorKind string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("stage", stage),
		attribute.String("error.kind", errorKind),
	}

	m.TicketsRelayedTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RelayDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCommentsFetched records the outcome of a comment fetch.
func (m *Metrics) RecordCommentsFetched(ctx context.Context, count int, degraded bool) {
	if degraded {
		m.CommentFetchDegradations.Add(ctx, 1)
		return
	}
	m.CommentsFetchedTotal.Add(ctx, int64(count))
}

// RecordAuthorLookup records one backend author lookup.
func (m *Metrics) RecordAuthorLookup(ctx context.Context, outcome string) {
	m.AuthorLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordAuthorCacheHit records an author resolution served from cache.
func (m *Metrics) RecordAuthorCacheHit(ctx context.Context) {
	m.AuthorCacheHitsTotal.Add(ctx, 1)
}

// RecordDispatch records dispatch metrics.
func (m *Metrics) RecordDispatch(ctx context.Context, dispatcher string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("dispatcher", dispatcher),
		attribute.Bool("success", success),
	}

	m.DispatchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.DispatchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))

	if !success {
		m.DispatchErrorsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
