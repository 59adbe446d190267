package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestCheck(t *testing.T) {
	rep := NewHealthService(Deps{Storage: pinger{}, Version: "1.0.0"}).Check(context.Background())
	assert.True(t, rep.StorageUp)
	assert.Nil(t, rep.CacheUp)
	assert.Equal(t, "1.0.0", rep.Version)

	rep = NewHealthService(Deps{Storage: pinger{err: errors.New("down")}, Cache: pinger{}}).Check(context.Background())
	assert.False(t, rep.StorageUp)
	require.NotNil(t, rep.CacheUp)
	assert.True(t, *rep.CacheUp)

	assert.False(t, NewHealthService(Deps{}).Check(context.Background()).StorageUp)
}
