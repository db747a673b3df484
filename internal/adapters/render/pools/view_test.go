package pools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt-labs/sponsorctl/internal/application"
	"github.com/veldt-labs/sponsorctl/internal/domain"
)

func TestRenderEmptyCollection(t *testing.T) {
	output, err := Render(application.Snapshot{}, RenderOptions{Now: time.Now()})

	require.NoError(t, err)
	assert.Contains(t, output, "pools: 0 (0 active)")
	assert.Contains(t, output, "No pools available")
}

func TestRenderPoolList(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	balance := 2.5

	snapshot := application.Snapshot{
		Pools: []domain.Pool{
			{
				ID:        "pool-1",
				Name:      "research",
				Balance:   &balance,
				UsageCap:  0.1,
				StartTime: now.Add(-12 * time.Hour),
				EndTime:   now.Add(12 * time.Hour),
				Whitelist: []string{"a", "b"},
			},
			{
				ID:        "pool-2",
				Name:      "archive",
				StartTime: now.Add(-48 * time.Hour),
				EndTime:   now.Add(-24 * time.Hour),
			},
		},
		Selected:    "pool-1",
		TotalPools:  2,
		ActivePools: 1,
		Now:         now,
	}

	output, err := Render(snapshot, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "pools: 2 (1 active)")
	assert.Contains(t, output, "* research (pool-1)")
	assert.Contains(t, output, "archive (pool-2)")
	assert.Contains(t, output, "2.500000 Credits")
	assert.Contains(t, output, "n/a")
	assert.Contains(t, output, "50% elapsed")
	assert.Contains(t, output, "12h 0m 0s remaining")
	assert.Contains(t, output, "window ended")
	assert.Contains(t, output, "whitelist: 2 addresses")
}

func TestRenderNotStartedPool(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	snapshot := application.Snapshot{
		Pools: []domain.Pool{
			{
				ID:        "pool-3",
				Name:      "upcoming",
				StartTime: now.Add(25 * time.Hour),
				EndTime:   now.Add(48 * time.Hour),
			},
		},
		TotalPools:  1,
		ActivePools: 1,
		Now:         now,
	}

	output, err := Render(snapshot, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "in 1d 1h 0m 0s")
}

func TestRenderDetailedShowsWhitelistAndSponsor(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	snapshot := application.Snapshot{
		Pools: []domain.Pool{
			{
				ID:          "pool-1",
				Name:        "research",
				StartTime:   now.Add(-time.Hour),
				EndTime:     now.Add(time.Hour),
				Whitelist:   []string{"addr-one", "addr-two"},
				SponsorInfo: "Veldt Labs",
			},
		},
		Selected:   "pool-1",
		TotalPools: 1,
		Now:        now,
	}

	output, err := Render(snapshot, RenderOptions{Now: now, Detailed: true})

	require.NoError(t, err)
	assert.Contains(t, output, "whitelist (2):")
	assert.Contains(t, output, "addr-one")
	assert.Contains(t, output, "sponsored by Veldt Labs")
}
