package routing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type RouteClass string

const (
	RouteClassOffline     RouteClass = "offline"
	RouteClassForbidden   RouteClass = "forbidden"
	RouteClassServerError RouteClass = "server_error"
	RouteClassAdmin       RouteClass = "admin"
	RouteClassPublic      RouteClass = "public"
)

// IsErrorPage reports whether routes of this class are error pages. The
// response interceptor never redirects away from them.
func (c RouteClass) IsErrorPage() bool {
	switch c {
	case RouteClassOffline, RouteClassForbidden, RouteClassServerError:
		return true
	default:
		return false
	}
}

var ErrAllowlistNotFound = errors.New("routing allowlist not found")

type AllowlistRule struct {
	Prefix string     `yaml:"prefix"`
	Class  RouteClass `yaml:"class"`
}

type allowlistFile struct {
	Version     int                        `yaml:"version"`
	Entrypoints map[string][]AllowlistRule `yaml:"entrypoints"`
}

// DefaultRules mirror config/routing/error_pages.yaml and are used when no
// file is configured.
func DefaultRules() []AllowlistRule {
	return []AllowlistRule{
		{Prefix: "/offline", Class: RouteClassOffline},
		{Prefix: "/403", Class: RouteClassForbidden},
		{Prefix: "/500", Class: RouteClassServerError},
		{Prefix: "/admin", Class: RouteClassAdmin},
		{Prefix: "/", Class: RouteClassPublic},
	}
}

func DefaultAllowlistPath() string {
	if p := strings.TrimSpace(os.Getenv("ROUTING_ERROR_PAGES_PATH")); p != "" {
		return p
	}

	const relative = "config/routing/error_pages.yaml"
	if wd, err := os.Getwd(); err == nil {
		if repoRoot, ok := findGoModRoot(wd); ok {
			abs := filepath.Join(repoRoot, filepath.FromSlash(relative))
			if _, statErr := os.Stat(abs); statErr == nil {
				return abs
			}
		}
	}

	return filepath.FromSlash(relative)
}

func LoadAllowlist(path, entrypoint string) ([]AllowlistRule, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultAllowlistPath()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAllowlistNotFound, path)
		}
		return nil, err
	}
	return ParseAllowlist(raw, entrypoint)
}

func ParseAllowlist(raw []byte, entrypoint string) ([]AllowlistRule, error) {
	var file allowlistFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if file.Version != 1 {
		return nil, fmt.Errorf("unsupported allowlist version: %d", file.Version)
	}

	if strings.TrimSpace(entrypoint) == "" {
		entrypoint = "admin"
	}
	rules, ok := file.Entrypoints[entrypoint]
	if !ok {
		return nil, fmt.Errorf("entrypoint %q not found in allowlist", entrypoint)
	}

	seen := map[RouteClass]bool{}
	for i := range rules {
		rules[i].Prefix = strings.TrimSpace(rules[i].Prefix)
		if rules[i].Prefix == "" {
			return nil, fmt.Errorf("allowlist rule[%d]: empty prefix", i)
		}
		if !strings.HasPrefix(rules[i].Prefix, "/") {
			return nil, fmt.Errorf("allowlist rule[%d]: prefix must start with '/': %q", i, rules[i].Prefix)
		}
		switch rules[i].Class {
		case RouteClassOffline, RouteClassForbidden, RouteClassServerError:
			if seen[rules[i].Class] {
				return nil, fmt.Errorf("allowlist rule[%d]: duplicate error page class: %q", i, rules[i].Class)
			}
			seen[rules[i].Class] = true
		case RouteClassAdmin, RouteClassPublic:
		default:
			return nil, fmt.Errorf("allowlist rule[%d]: unknown class: %q", i, rules[i].Class)
		}
	}
	for _, class := range []RouteClass{RouteClassOffline, RouteClassForbidden, RouteClassServerError} {
		if !seen[class] {
			return nil, fmt.Errorf("allowlist entrypoint %q: missing error page for class %q", entrypoint, class)
		}
	}

	return rules, nil
}

func findGoModRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
