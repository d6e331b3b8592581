package scheduler

import "content_ingest/internal/domain"

// nextStatus applies one probe/fetch outcome to the health state machine.
//
//	unknown -> healthy        first success
//	healthy -> degraded       single failure after prior success
//	degraded -> healthy       next success
//	degraded -> unreachable   failures reach the threshold
//	unreachable -> degraded   any success; recovery is gradual so a
//	                          flapping source cannot jump straight back
func nextStatus(cur domain.HealthStatus, success bool, failures, threshold int) domain.HealthStatus {
	if success {
		if cur == domain.StatusUnreachable {
			return domain.StatusDegraded
		}
		return domain.StatusHealthy
	}

	if failures >= threshold {
		return domain.StatusUnreachable
	}
	if cur == domain.StatusHealthy {
		return domain.StatusDegraded
	}
	return cur
}
