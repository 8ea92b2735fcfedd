package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	URL    string
	Bucket string
	Port   int
}

type sinkConf struct {
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
	Port   int    `json:"port"`
}

func newTestRegistry(t *testing.T) *Registry[*sink] {
	t.Helper()
	reg := NewRegistry[*sink]()
	require.NoError(t, reg.Register("influx", func(conf map[string]any) (*sink, error) {
		var c sinkConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sink{URL: c.URL, Bucket: c.Bucket, Port: c.Port}, nil
	}))
	return reg
}

func TestRegistry_Create(t *testing.T) {
	reg := newTestRegistry(t)
	inst, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086", "bucket": "teams", "port": 8086}})
	require.NoError(t, err)
	assert.Equal(t, "http://influx:8086", inst.URL)
	assert.Equal(t, "teams", inst.Bucket)
	assert.Equal(t, 8086, inst.Port)
}

func TestRegistry_DecodeWeaklyTyped(t *testing.T) {
	reg := newTestRegistry(t)
	inst, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{"port": "9090"}})
	require.NoError(t, err)
	assert.Equal(t, 9090, inst.Port)
}

func TestRegistry_Errors(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Error(t, reg.Register("influx", func(map[string]any) (*sink, error) { return nil, nil }))
	assert.Error(t, reg.Register("nil", nil))

	_, err := reg.Create(ModuleConfig{Type: "prometheus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influx")
	assert.Equal(t, []string{"influx"}, reg.Names())
}
