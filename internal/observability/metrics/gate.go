package metrics

import (
	"errors"

	obserrors "github.com/notrick-no/iReasearch/internal/observability/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Navigation result labels.
const (
	ResultProceed       = "proceed"
	ResultRedirectLogin = "redirect_login"
	ResultRedirectHome  = "redirect_home"
	ResultRedirectOther = "redirect_other"
)

// GateRecorder receives session gate outcomes. Implementations must be safe for concurrent use.
type GateRecorder interface {
	Navigation(result string)
	SessionInvalidated(redirected bool)
	StoreError(op string, err error)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Navigation(string)        {}
func (Nop) SessionInvalidated(bool)  {}
func (Nop) StoreError(string, error) {}

// Gate exports gate outcomes as Prometheus counters.
type Gate struct {
	navigations   *prometheus.CounterVec
	invalidations *prometheus.CounterVec
	storeErrors   *prometheus.CounterVec
}

var _ GateRecorder = (*Gate)(nil)

// NewGate creates the gate collectors and registers them with reg (the default registerer when nil).
// Collectors already registered under the same names are reused.
func NewGate(reg prometheus.Registerer) (*Gate, error) {
	g := &Gate{
		navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ireasearch",
			Subsystem: "gate",
			Name:      "navigations_total",
			Help:      "Navigation verdicts by result.",
		}, []string{"result"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ireasearch",
			Subsystem: "gate",
			Name:      "session_invalidations_total",
			Help:      "Sessions cleared after an authentication failure, by whether a login redirect was emitted.",
		}, []string{"redirected"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ireasearch",
			Subsystem: "gate",
			Name:      "store_errors_total",
			Help:      "Session store failures by operation and error class.",
		}, []string{"op", "class"}),
	}

	var err error
	if g.navigations, err = registerCounterVec(reg, g.navigations); err != nil {
		return nil, err
	}
	if g.invalidations, err = registerCounterVec(reg, g.invalidations); err != nil {
		return nil, err
	}
	if g.storeErrors, err = registerCounterVec(reg, g.storeErrors); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gate) Navigation(result string) {
	g.navigations.WithLabelValues(result).Inc()
}

func (g *Gate) SessionInvalidated(redirected bool) {
	label := "false"
	if redirected {
		label = "true"
	}
	g.invalidations.WithLabelValues(label).Inc()
}

func (g *Gate) StoreError(op string, err error) {
	g.storeErrors.WithLabelValues(op, obserrors.Classify(err)).Inc()
}

// registerCounterVec registers c, returning the existing collector on duplicate registration.
func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
