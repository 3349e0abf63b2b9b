package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

// PushToGateway sends all registered metrics to a Pushgateway. The archiver
// is a one-shot batch job, so pushing at the end of a run replaces the pull
// endpoint a long-lived service would expose. Errors are advisory.
func PushToGateway(gatewayURL string, logger *zap.Logger) {
	if gatewayURL == "" {
		return
	}
	err := push.New(gatewayURL, "frigate_exports_backup").
		Gatherer(prometheus.DefaultGatherer).
		Push()
	if err != nil {
		logger.Warn("pushing metrics failed", zap.String("gateway", gatewayURL), zap.Error(err))
		return
	}
	logger.Info("metrics pushed", zap.String("gateway", gatewayURL))
}
