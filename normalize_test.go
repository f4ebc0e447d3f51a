package authconfig

import (
	"errors"
	"testing"

	"github.com/goliatone/go-authconfig/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = opt.Schema{
	{Name: "auth", Opts: []opt.Opt{
		{Name: "foo", Type: opt.Integer, Deprecated: []opt.DeprecatedOpt{{Name: "old_foo"}}},
		{Name: "bar", Type: opt.Integer},
		{Name: "insecure", Type: opt.Boolean, Default: false},
		{Name: "auth-url", Type: opt.URI},
	}},
	{Name: "cache", Opts: []opt.Opt{
		{Name: "memcached_servers", Type: opt.List},
	}},
	{Name: "auth", Opts: []opt.Opt{
		{Name: "baz", Type: opt.Integer},
	}},
}

func TestNormalize_DeprecatedAliasConverted(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{String("old_foo", "42")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": 42}, out)
}

func TestNormalize_ConversionFailure(t *testing.T) {
	_, err := Normalize("auth", testSchema, Overrides{
		String("foo", "1"),
		String("bar", "notanumber"),
	})
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "bar", cfgErr.Key)
	assert.Contains(t, err.Error(), "unable to convert the value of bar option into correct type")
}

func TestNormalize_UnknownKeyPassesThrough(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{String("unrelated_opt", "x")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"unrelated_opt": "x"}, out)
}

func TestNormalize_NilValueKeepsKey(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{Null("old_foo"), Null("bar")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"old_foo": nil, "bar": nil}, out)
}

func TestNormalize_LastWriteWins(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{
		String("foo", "1"),
		String("old_foo", "2"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": 2}, out)

	out, err = Normalize("auth", testSchema, Overrides{
		String("old_foo", "2"),
		String("foo", "1"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": 1}, out)
}

func TestNormalize_OnlyFirstGroupConsulted(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{String("baz", "7")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"baz": "7"}, out)
}

func TestNormalize_DestinationRenaming(t *testing.T) {
	out, err := Normalize("auth", testSchema, Overrides{
		String("auth_url", "https://keystone:5000/v3"),
		String("insecure", "yes"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"auth_url": "https://keystone:5000/v3",
		"insecure": true,
	}, out)
}

func TestNormalize_UnknownGroup(t *testing.T) {
	out, err := Normalize("missing", testSchema, Overrides{String("foo", "abc")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"foo": "abc"}, out)
}

func TestNormalize_Empty(t *testing.T) {
	out, err := Normalize("auth", testSchema, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOverridesFromMap_Sorted(t *testing.T) {
	raw := OverridesFromMap(map[string]string{"b": "2", "a": "1"})
	require.Len(t, raw, 2)
	assert.Equal(t, "a", raw[0].Key)
	assert.Equal(t, "2", *raw[1].Value)
}
