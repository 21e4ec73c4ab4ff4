package observability

// Metric name prefixes
const (
	MetricPrefix = "vpsboard"
)

// Metric names
const (
	// HTTP metrics
	HTTPRequestsTotal = MetricPrefix + ".http.requests_total"

	// Points metrics
	PointsTransactionsTotal = MetricPrefix + ".points.transactions_total"

	// Provisioning metrics
	VPSRequestsTotal = MetricPrefix + ".provisioning.requests_total"

	// Rate guard metrics
	RateFlagsTotal = MetricPrefix + ".rate_guard.flags_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelStatus    = "status"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Points transaction types
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)
