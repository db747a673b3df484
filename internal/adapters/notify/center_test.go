package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt-labs/sponsorctl/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestCenterKeepsArrivalOrderWithoutMerging(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	center := NewCenter(clock)

	center.Success("Pool Created", "one")
	center.Success("Pool Created", "one")
	center.Warning("Partial Success", "two")

	pending := center.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, "one", pending[0].Message)
	assert.Equal(t, domain.SeverityWarning, pending[2].Severity)
	assert.NotEqual(t, pending[0].ID, pending[1].ID)
}

func TestCenterExpiresNoticesAfterTTL(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	center := NewCenter(clock)

	center.Info("Loading", "")
	clock.now = clock.now.Add(domain.NotificationTTL - time.Millisecond)
	require.Len(t, center.Pending(), 1)

	clock.now = clock.now.Add(2 * time.Millisecond)
	assert.Empty(t, center.Pending())
}

func TestCenterDismissRemovesOnlyThatNotice(t *testing.T) {
	t.Parallel()

	center := NewCenter(&fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
	center.Info("first", "")
	center.Info("second", "")

	pending := center.Pending()
	require.Len(t, pending, 2)

	center.Dismiss(pending[0].ID)
	remaining := center.Pending()
	require.Len(t, remaining, 1)
	assert.Equal(t, "second", remaining[0].Title)
}

func TestCenterFailedFlagResetsOnFlush(t *testing.T) {
	t.Parallel()

	center := NewCenter(&fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)})
	center.Error("Load Failed", "boom")
	assert.True(t, center.Failed())

	var sb strings.Builder
	center.Flush(&sb)
	assert.Contains(t, sb.String(), "Load Failed")
	assert.Contains(t, sb.String(), "boom")
	assert.False(t, center.Failed())
	assert.Empty(t, center.Pending())
}
