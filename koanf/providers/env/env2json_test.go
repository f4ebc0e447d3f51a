package env

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestProvider(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		delim    string
		keyFn    KeyFunc
		vars     []string
		expected string
	}{
		{
			name:     "single key",
			prefix:   "TEST_",
			delim:    "__",
			vars:     []string{"TEST_AUTH__PASSWORD=secret"},
			expected: `{"TEST_AUTH":{"PASSWORD":"secret"}}`,
		},
		{
			name:   "array handling",
			prefix: "TEST_",
			delim:  "__",
			vars: []string{
				"TEST_ROLES__0=admin",
				"TEST_ROLES__1=member",
			},
			expected: `{"TEST_ROLES":["admin","member"]}`,
		},
		{
			name:   "prefix filtering",
			prefix: "TEST_",
			delim:  "__",
			vars: []string{
				"TEST_KEY=app_value",
				"OTHER_KEY=other_value",
			},
			expected: `{"TEST_KEY":"app_value"}`,
		},
		{
			name:   "key func trims and lowercases",
			prefix: "KEYSTONE_",
			delim:  "__",
			keyFn: func(s string) string {
				return strings.ToLower(strings.TrimPrefix(s, "KEYSTONE_"))
			},
			vars:     []string{"KEYSTONE_AUTH__AUTH_URL=http://keystone:5000"},
			expected: `{"auth":{"auth_url":"http://keystone:5000"}}`,
		},
		{
			name:   "blank key is dropped",
			prefix: "TEST_",
			delim:  "__",
			keyFn: func(s string) string {
				if s == "TEST_SKIP" {
					return ""
				}
				return s
			},
			vars:     []string{"TEST_SKIP=1", "TEST_KEEP=2"},
			expected: `{"TEST_KEEP":"2"}`,
		},
		{
			name:     "value containing equals",
			prefix:   "TEST_",
			delim:    "__",
			vars:     []string{"TEST_DSN=a=b"},
			expected: `{"TEST_DSN":"a=b"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Provider(tt.prefix, tt.delim, tt.keyFn).WithEnviron(environ(tt.vars...))
			out, err := p.ReadBytes()
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(out))
		})
	}
}

func TestProvider_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("AUTHCFG_TEST__VALUE", "from-env")

	out, err := Provider("AUTHCFG_", "__", nil).ReadBytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), "from-env")
}

func TestProvider_ReadUnsupported(t *testing.T) {
	_, err := Provider("", "__", nil).Read()
	assert.Error(t, err)
}
