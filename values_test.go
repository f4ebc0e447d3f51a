package authconfig

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-authconfig/cfgx"
	"github.com/goliatone/go-authconfig/logger"
	"github.com/goliatone/go-authconfig/opt"
	"github.com/goliatone/go-authconfig/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var middlewareSchema = opt.Schema{
	{Name: "keystone_authtoken", Opts: []opt.Opt{
		{Name: "www_authenticate_uri", Type: opt.URI, Deprecated: []opt.DeprecatedOpt{{Name: "auth_uri"}}},
		{Name: "http_connect_timeout", Type: opt.Duration, Default: "30s"},
		{Name: "http_request_max_retries", Type: opt.Integer, Default: 3},
		{Name: "delay_auth_decision", Type: opt.Boolean, Default: false},
		{Name: "memcached_servers", Type: opt.List},
		{Name: "region_name"},
	}},
}

type authToken struct {
	URI          string        `koanf:"www_authenticate_uri"`
	Timeout      time.Duration `koanf:"http_connect_timeout"`
	Retries      int           `koanf:"http_request_max_retries"`
	Delay        bool          `koanf:"delay_auth_decision"`
	Memcached    []string      `koanf:"memcached_servers"`
	Region       string        `koanf:"region_name"`
	Unregistered string        `koanf:"extra"`
}

func middlewareConfig(t *testing.T, raw Overrides) *Config {
	t.Helper()
	s := store.NewEmpty(store.WithLogger(logger.Nop()))
	g, _ := middlewareSchema.Lookup("keystone_authtoken")
	require.NoError(t, s.Register(g.Name, g.Opts...))

	cfg, err := New(context.Background(), g.Name, middlewareSchema, raw, External{Store: s}, quiet())
	require.NoError(t, err)
	return cfg
}

func TestTypedAccessors(t *testing.T) {
	cfg := middlewareConfig(t, Overrides{
		String("auth_uri", "https://keystone:5000/v3"),
		String("memcached_servers", "a:11211,b:11211"),
		String("delay_auth_decision", "true"),
	})

	uri, err := cfg.String("www_authenticate_uri")
	require.NoError(t, err)
	assert.Equal(t, "https://keystone:5000/v3", uri)

	timeout, err := cfg.Duration("http_connect_timeout")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, timeout)

	retries, err := cfg.Int("http_request_max_retries")
	require.NoError(t, err)
	assert.Equal(t, 3, retries)

	delay, err := cfg.Bool("delay_auth_decision")
	require.NoError(t, err)
	assert.True(t, delay)

	servers, err := cfg.Strings("memcached_servers")
	require.NoError(t, err)
	assert.Equal(t, []string{"a:11211", "b:11211"}, servers)

	region, err := cfg.String("region_name")
	require.NoError(t, err)
	assert.Empty(t, region)
}

func TestTypedAccessors_TypeMismatch(t *testing.T) {
	cfg := middlewareConfig(t, nil)

	_, err := cfg.String("http_request_max_retries")
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "http_request_max_retries", typeErr.Name)
	assert.Equal(t, "string", typeErr.Want)
	assert.Equal(t, 3, typeErr.Got)

	_, err = cfg.Int("missing")
	assert.True(t, store.IsNoSuchOption(err))
}

func TestDecode(t *testing.T) {
	cfg := middlewareConfig(t, Overrides{
		String("auth_uri", "https://keystone:5000/v3"),
		String("http_request_max_retries", "5"),
		String("extra", "kept"),
		Null("region_name"),
	})

	got, err := Decode[authToken](cfg)
	require.NoError(t, err)
	assert.Equal(t, authToken{
		URI:          "https://keystone:5000/v3",
		Timeout:      30 * time.Second,
		Retries:      5,
		Memcached:    nil,
		Unregistered: "kept",
	}, got)
}

func TestDecode_Validator(t *testing.T) {
	cfg := middlewareConfig(t, nil)

	_, err := Decode[authToken](cfg, cfgx.WithValidatorFunc(func(a authToken) error {
		if a.URI == "" {
			return assert.AnError
		}
		return nil
	}))
	assert.ErrorIs(t, err, cfgx.ErrValidate)
}
