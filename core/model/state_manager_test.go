package model

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateManager_Lifecycle(t *testing.T) {
	sm := NewStateManager()

	assert.False(t, sm.IsFitted())
	assert.Error(t, sm.RequireFitted())

	sm.SetDimensions(4, 100)
	sm.SetFitted()

	assert.True(t, sm.IsFitted())
	assert.NoError(t, sm.RequireFitted())
	nf, ns := sm.GetDimensions()
	assert.Equal(t, 4, nf)
	assert.Equal(t, 100, ns)

	sm.Reset()
	assert.False(t, sm.IsFitted())
	nf, ns = sm.GetDimensions()
	assert.Equal(t, 0, nf)
	assert.Equal(t, 0, ns)
}

func TestStateManager_ConcurrentReads(t *testing.T) {
	sm := NewStateManager()
	sm.SetFitted()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = sm.IsFitted()
				_, _ = sm.GetDimensions()
			}
		}()
	}
	wg.Wait()
}

type fixtureState struct {
	Name  string
	Alpha []float64
	Theta float64
}

func TestSaveLoadModel_RoundTrip(t *testing.T) {
	original := &fixtureState{
		Name:  "svc",
		Alpha: []float64{0.5, 0.25, 1.0},
		Theta: -0.125,
	}

	path := t.TempDir() + "/state.gob"
	require.NoError(t, SaveModel(original, path))

	var restored fixtureState
	require.NoError(t, LoadModel(&restored, path))
	assert.Equal(t, *original, restored)
}

func TestSaveLoadModel_WriterReader(t *testing.T) {
	original := &fixtureState{Name: "svc", Alpha: []float64{1}, Theta: 2}

	var buf bytes.Buffer
	require.NoError(t, SaveModelToWriter(original, &buf))

	var restored fixtureState
	require.NoError(t, LoadModelFromReader(&restored, &buf))
	assert.Equal(t, *original, restored)
}

func TestLoadModel_MissingFile(t *testing.T) {
	var restored fixtureState
	err := LoadModel(&restored, t.TempDir()+"/does-not-exist.gob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestLoadModelFromReader_Garbage(t *testing.T) {
	var restored fixtureState
	err := LoadModelFromReader(&restored, bytes.NewBufferString("not gob data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode model")
}
