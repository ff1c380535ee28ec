// Package metrics define e registra as métricas Prometheus do serviço hospitalar.
// É a fonte única de nomes, labels e textos de ajuda.
//
// As métricas são registradas no registry padrão via promauto na
// inicialização do pacote; o endpoint /metrics as expõe com promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hospital"

// ── Credenciais ───────────────────────────────────────────────────────────────

// TokensIssuedTotal conta tokens emitidos.
// Label:
//   - role: papel do usuário no token (e.g. "Doctor")
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of signed credentials issued, by role.",
	},
	[]string{"role"},
)

// CredentialRejectionsTotal conta tokens rejeitados na verificação.
// Label:
//   - reason: "expired", "signature", "claims" ou "malformed"
var CredentialRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_rejections_total",
		Help:      "Total number of credentials rejected during verification, by reason.",
	},
	[]string{"reason"},
)

// LoginAttemptsTotal conta tentativas de login.
// Label:
//   - result: "success", "invalid_credentials" ou "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Store ─────────────────────────────────────────────────────────────────────

// StoreErrorsTotal conta falhas do banco classificadas.
// Label:
//   - kind: "store_unavailable", "constraint_violation" ou "internal"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of store failures, by error kind.",
	},
	[]string{"kind"},
)

// StoreOperationDuration mede a duração de cada operação do repositório.
// Labels:
//   - entity: tipo da entidade (e.g. "domain.Invoice")
//   - operation: "get_by_id", "get_all", "filter", "add", "update", "delete", "find_by_name", ...
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of repository operations against the store.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"entity", "operation"},
)

// ObserveStoreOperation registra a duração desde start. Uso: defer ObserveStoreOperation(e, op, time.Now()).
func ObserveStoreOperation(entity, operation string, start time.Time) {
	StoreOperationDuration.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
}
