package apiclient

import (
	"github.com/sirupsen/logrus"

	"github.com/robocore-nitk/club-admin/pkg/routing"
)

// RouteFunc reports the route the admin is currently on.
type RouteFunc func() string

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Interceptor is the global response policy: transport failures, 403 and 5xx
// responses send the admin to the matching error page. It never swallows the
// error.
type Interceptor struct {
	classifier *routing.Classifier
	route      RouteFunc
	navigator  Navigator
	log        *logrus.Entry
}

func NewInterceptor(classifier *routing.Classifier, route RouteFunc, navigator Navigator) *Interceptor {
	if classifier == nil {
		classifier = routing.NewClassifier(routing.DefaultRules())
	}
	return &Interceptor{
		classifier: classifier,
		route:      route,
		navigator:  navigator,
	}
}

func (i *Interceptor) WithLogger(log *logrus.Logger) *Interceptor {
	if log != nil {
		i.log = log.WithField("component", "interceptor")
	}
	return i
}

// Decide is the pure redirect policy.
func (i *Interceptor) Decide(route string, err error) (string, bool) {
	if err == nil || IsCanceled(err) {
		return "", false
	}
	apiErr, ok := AsError(err)
	if !ok {
		return "", false
	}

	var class routing.RouteClass
	switch apiErr.Kind {
	case KindNetwork:
		class = routing.RouteClassOffline
	case KindForbidden:
		class = routing.RouteClassForbidden
	case KindServer:
		class = routing.RouteClassServerError
	default:
		return "", false
	}

	if i.classifier.IsErrorPage(route) {
		return "", false
	}
	return i.classifier.ErrorPage(class)
}

// Handle applies the policy and returns err unchanged.
func (i *Interceptor) Handle(err error) error {
	if i == nil || err == nil {
		return err
	}
	route := ""
	if i.route != nil {
		route = i.route()
	}
	target, ok := i.Decide(route, err)
	if !ok || i.navigator == nil {
		return err
	}
	if i.log != nil {
		i.log.WithFields(logrus.Fields{"from": route, "to": target}).Warn("redirecting to error page")
	}
	i.navigator.Navigate(target)
	return err
}
