package solvers

import (
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
)

func loadMap(values map[string]any) *koanf.Koanf {
	k := koanf.New(".")
	k.Load(confmap.Provider(values, "."), nil)
	return k
}

func TestVariablesSolver_FullReferenceKeepsType(t *testing.T) {
	k := loadMap(map[string]any{
		"DEFAULT": map[string]any{"timeout": 30},
		"auth":    map[string]any{"http_connect_timeout": "${DEFAULT.timeout}"},
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, 30, out.Get("auth.http_connect_timeout"))
}

func TestVariablesSolver_EmbeddedReferences(t *testing.T) {
	k := loadMap(map[string]any{
		"host": "keystone.local",
		"port": 5000,
		"auth": map[string]any{
			"www_authenticate_uri": "https://${host}:${port}/v3",
			"missing":              "https://${nope}/v3",
		},
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "https://keystone.local:5000/v3", out.Get("auth.www_authenticate_uri"))
	assert.Equal(t, "https://${nope}/v3", out.Get("auth.missing"))
}

func TestVariablesSolver_CustomDelimiters(t *testing.T) {
	k := loadMap(map[string]any{
		"region": "RegionOne",
		"auth":   map[string]any{"region_name": "@/region/"},
		"other":  "@/nothing/",
	})

	out := NewVariablesSolver("@/", "/").Solve(k)

	assert.Equal(t, "RegionOne", out.Get("auth.region_name"))
	assert.Equal(t, "@/nothing/", out.Get("other"))
}

func TestVariablesSolver_UnterminatedReference(t *testing.T) {
	k := loadMap(map[string]any{
		"host":  "keystone",
		"value": "${host",
	})

	out := NewVariablesSolver("${", "}").Solve(k)

	assert.Equal(t, "${host", out.Get("value"))
}
