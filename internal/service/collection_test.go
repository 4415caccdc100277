package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cosecdesk/internal/domain"
)

func TestListFiltersAndPaginates(t *testing.T) {
	var specialists []domain.Specialist
	for i := 1; i <= 25; i++ {
		specialists = append(specialists, domain.Specialist{
			ID:      fmt.Sprintf("s%d", i),
			Title:   fmt.Sprintf("Sdn Bhd package %d", i),
			IsDraft: i%5 == 0,
		})
	}
	specialists = append(specialists, domain.Specialist{ID: "llp", Title: "LLP registration"})
	repo := &fakeSpecialistRepo{list: specialists}
	c := NewSpecialistCollection(repo, zap.NewNop())

	page, err := c.List(context.Background(), testIdentity, domain.SpecialistFilter{}, false)
	require.NoError(t, err)
	assert.Equal(t, 26, page.Total)
	assert.Equal(t, 10, page.PageSize)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, domain.TabCounts{All: 26, Drafts: 5, Published: 21}, page.Counts)

	page, err = c.List(context.Background(), testIdentity, domain.SpecialistFilter{Search: "sdn", Tab: domain.SpecialistTabDrafts}, false)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, domain.TabCounts{All: 25, Drafts: 5, Published: 20}, page.Counts)

	page, err = c.List(context.Background(), testIdentity, domain.SpecialistFilter{Page: 3, PageSize: 10}, false)
	require.NoError(t, err)
	assert.Len(t, page.Items, 6)

	page, err = c.List(context.Background(), testIdentity, domain.SpecialistFilter{Page: 9}, false)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, repo.listCalls)

	_, err = c.List(context.Background(), testIdentity, domain.SpecialistFilter{}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)
}

func TestListLoadFailureKeepsServerMessage(t *testing.T) {
	repo := &fakeSpecialistRepo{listErr: &domain.RemoteError{StatusCode: 503}}
	c := NewSpecialistCollection(repo, zap.NewNop())

	_, err := c.List(context.Background(), testIdentity, domain.SpecialistFilter{}, false)
	require.Error(t, err)
	assert.Equal(t, "Failed to load specialists", err.Error())
}

func TestPatchDoesNotShareSlices(t *testing.T) {
	repo := &fakeSpecialistRepo{list: []domain.Specialist{{ID: "a", AdditionalOfferings: []string{"ssm_access"}}}}
	c := NewSpecialistCollection(repo, zap.NewNop())
	require.NoError(t, c.Load(context.Background(), testIdentity))

	got, err := c.Get(context.Background(), testIdentity, "a")
	require.NoError(t, err)
	got.AdditionalOfferings[0] = "mutated"

	again, err := c.Get(context.Background(), testIdentity, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"ssm_access"}, again.AdditionalOfferings)

	_, ok := c.Patch(testIdentity, "missing", func(*domain.Specialist) {})
	assert.False(t, ok)
}

func TestAppendReplacesExistingID(t *testing.T) {
	c := NewSpecialistCollection(&fakeSpecialistRepo{}, zap.NewNop())
	require.NoError(t, c.Load(context.Background(), testIdentity))

	c.Append(testIdentity, domain.Specialist{ID: "a", Title: "first"})
	c.Append(testIdentity, domain.Specialist{ID: "a", Title: "second"})

	page, err := c.List(context.Background(), testIdentity, domain.SpecialistFilter{}, false)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "second", page.Items[0].Title)
}

func TestEachCallerLoadsOwnList(t *testing.T) {
	repo := &fakeSpecialistRepo{list: []domain.Specialist{{ID: "a", Title: "Sdn Bhd"}}}
	c := NewSpecialistCollection(repo, zap.NewNop())

	_, err := c.List(context.Background(), testIdentity, domain.SpecialistFilter{}, false)
	require.NoError(t, err)

	other := domain.Identity{Token: "other-token", Subject: "admin-1"}
	_, err = c.Get(context.Background(), other, "a")
	require.NoError(t, err)

	assert.Equal(t, 2, repo.listCalls)
	assert.Equal(t, []string{"tok", "other-token"}, repo.listTokens)

	c.Patch(other, "a", func(s *domain.Specialist) { s.Title = "patched" })

	mine, err := c.Get(context.Background(), testIdentity, "a")
	require.NoError(t, err)
	assert.Equal(t, "Sdn Bhd", mine.Title)
	assert.Equal(t, 2, repo.listCalls)
}

func TestIdleCallerListIsDropped(t *testing.T) {
	repo := &fakeSpecialistRepo{list: []domain.Specialist{{ID: "a"}}}
	c := NewSpecialistCollection(repo, zap.NewNop())
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Load(context.Background(), testIdentity))

	now = now.Add(scopeTTL + time.Minute)
	require.NoError(t, c.Load(context.Background(), domain.Identity{Token: "other"}))

	c.mu.Lock()
	_, kept := c.scopes[testIdentity.Key()]
	c.mu.Unlock()
	assert.False(t, kept)
}
