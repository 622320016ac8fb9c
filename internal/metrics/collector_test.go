package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordAndSnapshot(t *testing.T) {
	c := NewCollector()

	c.Record(OpChat, 10*time.Millisecond, nil)
	c.Record(OpChat, 30*time.Millisecond, nil)
	c.Record(OpChat, 20*time.Millisecond, errors.New("boom"))

	snap := c.Snapshot(2)
	assert.Equal(t, 2, snap.Sessions)
	require.NotNil(t, snap.Chat)
	assert.Equal(t, int64(3), snap.Chat.Count)
	assert.Equal(t, int64(1), snap.Chat.Errors)
	assert.Equal(t, int64(10), snap.Chat.MinTimeMs)
	assert.Equal(t, int64(30), snap.Chat.MaxTimeMs)
	assert.Equal(t, int64(60), snap.Chat.TotalTimeMs)
	assert.InDelta(t, 20.0, snap.Chat.AvgTimeMs, 0.001)
}

func TestCollector_EmptyOperationsOmitted(t *testing.T) {
	c := NewCollector()
	snap := c.Snapshot(0)
	assert.Nil(t, snap.Embedding)
	assert.Nil(t, snap.Generate)
	assert.Nil(t, snap.Ingest)
}

func TestCollector_Observe(t *testing.T) {
	c := NewCollector()

	func() {
		var err error
		defer c.Observe(OpIngest, time.Now(), &err)
		err = errors.New("failed")
	}()

	snap := c.Snapshot(0)
	require.NotNil(t, snap.Ingest)
	assert.Equal(t, int64(1), snap.Ingest.Count)
	assert.Equal(t, int64(1), snap.Ingest.Errors)
}
