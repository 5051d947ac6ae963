package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/databridge/pkg/config"
	"github.com/ekaya-inc/databridge/pkg/store"
)

type fakeLoader struct{}

func (fakeLoader) Name() string                            { return "fake" }
func (fakeLoader) Load(context.Context) (*store.Store, error) { return store.New(), nil }
func (fakeLoader) Close() error                            { return nil }

func TestRegistry(t *testing.T) {
	Register("fake", func(context.Context, *config.Config, *zap.Logger) (Loader, error) {
		return fakeLoader{}, nil
	})
	assert.True(t, Registered("fake"))
	assert.False(t, Registered("nope"))

	l, err := New(context.Background(), &config.Config{Source: "fake"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "fake", l.Name())

	_, err = New(context.Background(), &config.Config{Source: "nope"}, nil)
	assert.Error(t, err)
}
