package cron

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RegisterJobs(t *testing.T) {
	noop := cron.FuncJob(func() {})

	t.Run("valid schedule", func(t *testing.T) {
		mgr := NewCronManager()
		mgr.Add("sweep", "0 0 2 * * *", noop)
		require.NoError(t, mgr.RegisterJobs())
		assert.Len(t, mgr.engine.Entries(), 1)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		mgr := NewCronManager()
		mgr.Add("sweep", "every day", noop)
		err := mgr.RegisterJobs()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sweep")
	})

	t.Run("start and stop", func(t *testing.T) {
		mgr := NewCronManager()
		require.NoError(t, InitCron(mgr))
		mgr.Stop()
	})
}
