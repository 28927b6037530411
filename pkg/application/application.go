// Package application is the registry modules plug into: it owns the shared
// API client, event bus, toast controller and service instances.
package application

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/robocore-nitk/club-admin/pkg/apiclient"
	"github.com/robocore-nitk/club-admin/pkg/eventbus"
	"github.com/robocore-nitk/club-admin/pkg/logging"
	"github.com/robocore-nitk/club-admin/pkg/toast"
)

type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	Logger() *logrus.Logger
	Client() *apiclient.Client
	EventPublisher() eventbus.EventBusWithError
	Toast() *toast.Controller
	RegisterServices(services ...any)
	Service(service any) any
	Services() map[reflect.Type]any
}

type ApplicationOptions struct {
	Client   *apiclient.Client
	EventBus eventbus.EventBusWithError
	Logger   *logrus.Logger
	Toast    *toast.Controller
}

func New(opts *ApplicationOptions) Application {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	bus := opts.EventBus
	if bus == nil {
		bus = eventbus.NewEventPublisher(logger)
	}
	t := opts.Toast
	if t == nil {
		t = toast.New()
	}
	return &application{
		client:         opts.Client,
		eventPublisher: bus,
		logger:         logger,
		toast:          t,
		services:       make(map[reflect.Type]any),
	}
}

// application with a dynamically extendable service registry
type application struct {
	client         *apiclient.Client
	eventPublisher eventbus.EventBusWithError
	logger         *logrus.Logger
	toast          *toast.Controller
	mu             sync.RWMutex
	services       map[reflect.Type]any
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) Client() *apiclient.Client {
	return app.client
}

func (app *application) EventPublisher() eventbus.EventBusWithError {
	return app.eventPublisher
}

func (app *application) Toast() *toast.Controller {
	return app.toast
}

// RegisterServices registers services by their pointed-to type.
func (app *application) RegisterServices(services ...any) {
	app.mu.Lock()
	defer app.mu.Unlock()
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type; pass the zero value, e.g.
// app.Service(services.DriveService{}).(*services.DriveService).
func (app *application) Service(service any) any {
	serviceType := reflect.TypeOf(service)
	app.mu.RLock()
	defer app.mu.RUnlock()
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) Services() map[reflect.Type]any {
	app.mu.RLock()
	defer app.mu.RUnlock()
	out := make(map[reflect.Type]any, len(app.services))
	for k, v := range app.services {
		out[k] = v
	}
	return out
}
