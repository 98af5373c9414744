package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var durationBuckets = []float64{
	// fast responses
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	// medium
	750, 1000, 1500, 2000,
	// slow, dominated by external detector/payment calls
	3000, 5000, 10000, 15000, 30000, 60000,
}

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label; the default maps requests to their route template.
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus gathers HTTP request metrics and serves them on its own
// listener, away from the API port.
type Prometheus struct {
	reqCnt *prometheus.CounterVec
	reqDur *prometheus.HistogramVec

	listenAddress string
	MetricsPath   string

	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	Subsystem               string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn
	Logger                  *zap.SugaredLogger
}

func NewPrometheus(opts NewPrometheusOptions) *Prometheus {
	subsystem := opts.Subsystem
	if subsystem == "" {
		subsystem = "http"
	}
	p := &Prometheus{
		MetricsPath:             "/metrics",
		ReqCntURLLabelMappingFn: opts.ReqCntURLLabelMappingFn,
		logger:                  opts.Logger,
		reqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "req_total",
			Help:      "How many HTTP requests processed, partitioned by status code, method and url.",
		}, []string{"code", "method", "url"}),
		reqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "req_dur_ms",
			Help:      "The HTTP request latencies in milliseconds.",
			Buckets:   durationBuckets,
		}, []string{"code", "method", "url"}),
	}
	if p.ReqCntURLLabelMappingFn == nil {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string { return c.Request.URL.Path }
	}
	prometheus.MustRegister(p.reqCnt, p.reqDur)
	return p
}

// SetListenAddress serves the metrics endpoint on a dedicated address.
func (p *Prometheus) SetListenAddress(addr string) {
	p.listenAddress = addr
}

// Use attaches the middleware to the engine and starts the metrics listener.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.handlerFunc())
	p.runListener()
}

func (p *Prometheus) runListener() {
	if p.listenAddress == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle(p.MetricsPath, promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(p.listenAddress, mux); err != nil {
			if p.logger != nil {
				p.logger.Errorf("metrics listener stopped: %v", err)
			}
		}
	}()
}

func (p *Prometheus) handlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.ReqCntURLLabelMappingFn(c)
		elapsed := float64(time.Since(start)) / float64(time.Millisecond)

		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
