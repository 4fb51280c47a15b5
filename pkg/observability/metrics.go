package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics emits custom CloudWatch metrics. When disabled every call is a
// no-op, so call sites never need to branch.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	enabled   bool
	logger    *zap.Logger
}

// NewMetrics creates a metrics emitter under the given namespace.
func NewMetrics(client *cloudwatch.Client, namespace string, enabled bool, logger *zap.Logger) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		enabled:   enabled,
		logger:    logger,
	}
}

// RecordRequest emits request count and latency for one handled HTTP
// request. Emission is asynchronous and best-effort; metric delivery never
// delays or fails a response.
func (m *Metrics) RecordRequest(route string, status int, duration time.Duration) {
	if !m.enabled {
		return
	}

	dimensions := []types.Dimension{
		{Name: aws.String("Route"), Value: aws.String(route)},
		{Name: aws.String("StatusClass"), Value: aws.String(statusClass(status))},
	}
	now := time.Now().UTC()

	data := []types.MetricDatum{
		{
			MetricName: aws.String("RequestCount"),
			Dimensions: dimensions,
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(1),
		},
		{
			MetricName: aws.String("RequestLatency"),
			Dimensions: dimensions,
			Timestamp:  aws.Time(now),
			Unit:       types.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(duration.Milliseconds())),
		},
	}

	go m.put(data)
}

// RecordHookResult emits the outcome of an identity hook invocation.
func (m *Metrics) RecordHookResult(hook string, success bool) {
	if !m.enabled {
		return
	}

	outcome := "Failure"
	if success {
		outcome = "Success"
	}

	go m.put([]types.MetricDatum{
		{
			MetricName: aws.String("IdentityHookResult"),
			Dimensions: []types.Dimension{
				{Name: aws.String("Hook"), Value: aws.String(hook)},
				{Name: aws.String("Outcome"), Value: aws.String(outcome)},
			},
			Timestamp: aws.Time(time.Now().UTC()),
			Unit:      types.StandardUnitCount,
			Value:     aws.Float64(1),
		},
	})
}

func (m *Metrics) put(data []types.MetricDatum) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Warn("failed to put metric data", zap.Error(err))
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
