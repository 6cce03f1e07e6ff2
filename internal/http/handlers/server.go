package handlers

import (
	"github.com/rogerio-castellano/shelf-locator/internal/layout"
	"github.com/rogerio-castellano/shelf-locator/internal/metrics"
	"github.com/rogerio-castellano/shelf-locator/internal/resolver"
	"github.com/sirupsen/logrus"
)

var (
	productResolver *resolver.Resolver
	storeLayout     *layout.Layout
	serviceMetrics  *metrics.Metrics
	logger          logrus.FieldLogger = logrus.StandardLogger()
)

func SetResolver(r *resolver.Resolver) {
	productResolver = r
}

func SetLayout(l *layout.Layout) {
	storeLayout = l
}

func SetMetrics(m *metrics.Metrics) {
	serviceMetrics = m
}

func SetLogger(l logrus.FieldLogger) {
	logger = l.WithField("component", "handlers")
}

func observeLookup(field, outcome string) {
	if serviceMetrics != nil {
		serviceMetrics.ObserveLookup(field, outcome)
	}
}
