package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/powerscope/streamcore/sensor"
	"github.com/powerscope/streamcore/sensor/stub"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()
	r.Register(1, func() (sensor.Adapter, error) { return stub.New(1, 4), nil })
	r.Register(2, func() (sensor.Adapter, error) { return stub.New(2, 6), nil })

	require.Equal(t, 2, r.Count())
	a, ok := r.Get(2)
	require.True(t, ok)
	require.Equal(t, uint8(2), a.TypeID())
}

func TestGetUnknownType(t *testing.T) {
	r := New()
	_, ok := r.Get(99)
	require.False(t, ok)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(1, func() (sensor.Adapter, error) { return stub.New(1, 4), nil })
	require.Panics(t, func() {
		r.Register(1, func() (sensor.Adapter, error) { return stub.New(1, 4), nil })
	})
}

func TestGetFactoryErrorReturnsNotFound(t *testing.T) {
	r := New()
	r.Register(1, func() (sensor.Adapter, error) { return nil, errors.New("boom") })
	_, ok := r.Get(1)
	require.False(t, ok)
}

func TestTypeAt(t *testing.T) {
	r := New()
	r.Register(5, func() (sensor.Adapter, error) { return stub.New(5, 2), nil })
	r.Register(7, func() (sensor.Adapter, error) { return stub.New(7, 2), nil })
	require.Equal(t, uint8(5), r.TypeAt(0))
	require.Equal(t, uint8(7), r.TypeAt(1))
}
