package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowlist_LoadsAndHasErrorPages(t *testing.T) {
	rules, err := LoadAllowlist("", "admin")
	require.NoError(t, err)

	requireAllowlistRule(t, rules, "/offline", RouteClassOffline)
	requireAllowlistRule(t, rules, "/403", RouteClassForbidden)
	requireAllowlistRule(t, rules, "/500", RouteClassServerError)
	requireAllowlistRule(t, rules, "/admin", RouteClassAdmin)
}

func TestParseAllowlist_Rejects(t *testing.T) {
	cases := map[string]string{
		"version": "version: 2\nentrypoints: {}\n",
		"unknown class": `version: 1
entrypoints:
  admin:
    - {prefix: /offline, class: offline}
    - {prefix: /403, class: forbidden}
    - {prefix: /500, class: server_error}
    - {prefix: /x, class: nope}
`,
		"missing error page": `version: 1
entrypoints:
  admin:
    - {prefix: /offline, class: offline}
    - {prefix: /403, class: forbidden}
`,
		"relative prefix": `version: 1
entrypoints:
  admin:
    - {prefix: offline, class: offline}
`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAllowlist([]byte(raw), "admin")
			require.Error(t, err)
		})
	}
}

func TestClassifier_ErrorPages(t *testing.T) {
	c := NewClassifier(DefaultRules())

	require.True(t, c.IsErrorPage("/403"))
	require.True(t, c.IsErrorPage("/offline?from=/admin"))
	require.True(t, c.IsErrorPage("/500/"))
	require.False(t, c.IsErrorPage("/4030"))
	require.False(t, c.IsErrorPage("/admin/recruitment"))
	require.Equal(t, RouteClassAdmin, c.ClassifyPath("/admin/recruitment"))
	require.Equal(t, RouteClassPublic, c.ClassifyPath("/recruitment"))

	p, ok := c.ErrorPage(RouteClassServerError)
	require.True(t, ok)
	require.Equal(t, "/500", p)
}

func requireAllowlistRule(t *testing.T, rules []AllowlistRule, prefix string, class RouteClass) {
	t.Helper()

	for _, rule := range rules {
		if rule.Prefix == prefix && rule.Class == class {
			return
		}
	}
	t.Fatalf("allowlist missing rule: %q -> %q", prefix, class)
}
