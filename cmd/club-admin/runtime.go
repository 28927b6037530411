package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/robocore-nitk/club-admin/modules"
	"github.com/robocore-nitk/club-admin/modules/logging"
	"github.com/robocore-nitk/club-admin/modules/recruitment/presentation/controllers"
	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/application"
	"github.com/robocore-nitk/club-admin/pkg/configuration"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/routing"
	"github.com/robocore-nitk/club-admin/pkg/toast"
)

const adminRoute = "/admin/recruitment"

type runtime struct {
	conf     *configuration.Configuration
	logger   *logrus.Logger
	app      application.Application
	ctl      *controllers.RecruitmentController
	registry *prometheus.Registry
	tracing  *sdktrace.TracerProvider
}

type runtimeOptions struct {
	envFiles []string
	driveID  int64
	stderr   io.Writer
	// mount loads the admin lists; public commands skip it.
	mount bool
}

func newRuntime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	conf, err := configuration.Load(opts.envFiles)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	logger := conf.Logger()
	stderr := opts.stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	rules, err := routing.LoadAllowlist(conf.Routing.ErrorPagesPath, conf.Routing.Entrypoint)
	if err != nil {
		logger.WithError(err).Warn("error page allowlist not loaded, using defaults")
		rules = routing.DefaultRules()
	}
	interceptor := apiclient.NewInterceptor(
		routing.NewClassifier(rules),
		func() string { return adminRoute },
		apiclient.NavigatorFunc(func(route string) {
			fmt.Fprintf(stderr, "see %s\n", route)
		}),
	).WithLogger(logger)

	rt := &runtime{conf: conf, logger: logger}
	ready := false
	defer func() {
		if !ready {
			rt.close()
		}
	}()
	var metrics *apiclient.Metrics
	if conf.Prometheus.Enabled {
		rt.registry = prometheus.NewRegistry()
		metrics = apiclient.NewMetrics(rt.registry, conf.Prometheus.Namespace)
	}

	if conf.Telemetry.Endpoint != "" {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(conf.Telemetry.Endpoint))
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		rt.tracing = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", conf.Telemetry.ServiceName))),
		)
	}

	var cookie *http.Cookie
	if conf.API.SessionCookie != "" {
		cookie = &http.Cookie{Name: conf.API.SessionCookieName, Value: conf.API.SessionCookie}
	}
	client, err := apiclient.New(apiclient.Options{
		BaseURL:         conf.API.BaseURL,
		Authorization:   conf.API.Authorization,
		SessionCookie:   cookie,
		Timeout:         conf.API.Timeout,
		Interceptor:     interceptor,
		Logger:          logger,
		RequestIDHeader: conf.API.RequestIDHeader,
		Metrics:         metrics,
		TracerProvider:  rt.tracerProvider(),
	})
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	tc := toast.New(toast.WithDelay(conf.Toast.Duration))
	tc.OnChange(func(s toast.State) {
		if s.Visible {
			fmt.Fprintf(stderr, "[%s] %s\n", s.Kind, s.Message)
		}
	})

	rt.app = application.New(&application.ApplicationOptions{
		Client:   client,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
		Toast:    tc,
	})
	if err := modules.Load(rt.app, enabledModules(conf)...); err != nil {
		return nil, err
	}

	rt.ctl = controllers.NewRecruitmentControllerFromApp(rt.app, conf.Location(), conf.Lists.ApplicationsPageSize)
	if !opts.mount {
		ready = true
		return rt, nil
	}
	if err := rt.ctl.Mount(ctx); err != nil {
		return nil, classify(err)
	}
	if opts.driveID != 0 && opts.driveID != rt.ctl.SelectedDriveID() {
		if err := rt.ctl.SelectDrive(ctx, opts.driveID); err != nil {
			return nil, classify(err)
		}
	}
	ready = true
	return rt, nil
}

func (rt *runtime) tracerProvider() trace.TracerProvider {
	if rt.tracing == nil {
		return nil
	}
	return rt.tracing
}

func enabledModules(conf *configuration.Configuration) []application.Module {
	out := make([]application.Module, 0, len(modules.BuiltInModules))
	for _, m := range modules.BuiltInModules {
		if m.Name() == "logging" {
			if !conf.ActionLogEnabled {
				continue
			}
			m = logging.NewModule(logging.WithActionLogPath(conf.ActionLogPath))
		}
		out = append(out, m)
	}
	return out
}

// close reports the request metrics gathered during the run and releases the
// log file.
func (rt *runtime) close() {
	if rt == nil {
		return
	}
	if rt.registry != nil {
		families, err := rt.registry.Gather()
		if err != nil {
			rt.logger.WithError(err).Warn("gather metrics")
		}
		for _, mf := range families {
			for _, m := range mf.GetMetric() {
				fields := logrus.Fields{"metric": mf.GetName()}
				for _, l := range m.GetLabel() {
					fields[l.GetName()] = l.GetValue()
				}
				switch {
				case m.GetCounter() != nil:
					fields["value"] = m.GetCounter().GetValue()
				case m.GetHistogram() != nil:
					fields["count"] = m.GetHistogram().GetSampleCount()
					fields["sum"] = m.GetHistogram().GetSampleSum()
				}
				rt.logger.WithFields(fields).Info("api metrics")
			}
		}
	}
	if rt.tracing != nil {
		if err := rt.tracing.Shutdown(context.Background()); err != nil {
			rt.logger.WithError(err).Warn("flush traces")
		}
	}
	rt.conf.Unload()
}
