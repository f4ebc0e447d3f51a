package solvers

import (
	"encoding/base64"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestURISolver_FileProtocol(t *testing.T) {
	k := loadMap(map[string]any{
		"auth": map[string]any{
			"password": "@file://secrets/admin_password",
			"missing":  "@file://secrets/nothing",
		},
	})

	fsys := fstest.MapFS{
		"secrets/admin_password": &fstest.MapFile{Data: []byte("s3cr3t\n")},
	}
	out := NewURISolverWithFS("@", "://", fsys).Solve(k)

	assert.Equal(t, "s3cr3t", out.Get("auth.password"))
	assert.Equal(t, "@file://secrets/nothing", out.Get("auth.missing"))
}

func TestURISolver_AbsolutePathIsRootRelative(t *testing.T) {
	k := loadMap(map[string]any{"password": "@file:///etc/keystone/password"})

	fsys := fstest.MapFS{
		"etc/keystone/password": &fstest.MapFile{Data: []byte("pw")},
	}
	out := NewURISolverWithFS("@", "://", fsys).Solve(k)

	assert.Equal(t, "pw", out.Get("password"))
}

func TestURISolver_Base64Protocol(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("memcache-secret"))
	k := loadMap(map[string]any{"memcache_secret_key": "@base64://" + encoded})

	out := NewURISolverWithFS("@", "://", fstest.MapFS{}).Solve(k)

	assert.Equal(t, "memcache-secret", out.Get("memcache_secret_key"))
}

func TestURISolver_EnvProtocol(t *testing.T) {
	t.Setenv("AUTHCFG_SERVICE_TOKEN", "token-value")
	k := loadMap(map[string]any{
		"token":   "@env://AUTHCFG_SERVICE_TOKEN",
		"unknown": "@env://AUTHCFG_DOES_NOT_EXIST",
	})

	out := NewURISolverWithFS("@", "://", fstest.MapFS{}).Solve(k)

	assert.Equal(t, "token-value", out.Get("token"))
	assert.Equal(t, "@env://AUTHCFG_DOES_NOT_EXIST", out.Get("unknown"))
}

func TestURISolver_IgnoresEmbeddedAndUnknown(t *testing.T) {
	k := loadMap(map[string]any{
		"embedded": "prefix @file://secret",
		"unknown":  "@ftp://host/file",
		"invalid":  "@file://../secret",
	})

	out := NewURISolverWithFS("@", "://", fstest.MapFS{
		"secret": &fstest.MapFile{Data: []byte("x")},
	}).Solve(k)

	assert.Equal(t, "prefix @file://secret", out.Get("embedded"))
	assert.Equal(t, "@ftp://host/file", out.Get("unknown"))
	assert.Equal(t, "@file://../secret", out.Get("invalid"))
}
