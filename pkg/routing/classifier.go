package routing

import (
	"sort"
	"strings"
)

type Classifier struct {
	rules      []AllowlistRule
	errorPages map[RouteClass]string
}

func NewClassifier(rules []AllowlistRule) *Classifier {
	copied := make([]AllowlistRule, 0, len(rules))
	errorPages := make(map[RouteClass]string, 3)
	for _, rule := range rules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		if rule.Prefix == "" {
			continue
		}
		if rule.Class.IsErrorPage() {
			if _, ok := errorPages[rule.Class]; !ok {
				errorPages[rule.Class] = rule.Prefix
			}
		}
		copied = append(copied, rule)
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return len(copied[i].Prefix) > len(copied[j].Prefix)
	})

	return &Classifier{
		rules:      copied,
		errorPages: errorPages,
	}
}

func (c *Classifier) MatchAllowlist(path string) (RouteClass, bool) {
	path = stripQuery(path)
	for _, rule := range c.rules {
		if HasPathPrefixOnBoundary(path, rule.Prefix) {
			return rule.Class, true
		}
	}
	return "", false
}

func (c *Classifier) ClassifyPath(path string) RouteClass {
	if class, ok := c.MatchAllowlist(path); ok {
		return class
	}
	return RouteClassPublic
}

// IsErrorPage reports whether path is one of the configured error pages.
func (c *Classifier) IsErrorPage(path string) bool {
	class, ok := c.MatchAllowlist(path)
	return ok && class.IsErrorPage()
}

// ErrorPage returns the route configured for an error class.
func (c *Classifier) ErrorPage(class RouteClass) (string, bool) {
	p, ok := c.errorPages[class]
	return p, ok
}

func HasPathPrefixOnBoundary(path, prefix string) bool {
	if prefix == "" {
		return false
	}

	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	if len(path) == len(prefix) {
		return true
	}

	if strings.HasSuffix(prefix, "/") {
		return true
	}

	return path[len(prefix)] == '/'
}

func stripQuery(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i]
	}
	return path
}
