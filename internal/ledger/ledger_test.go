package ledger_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/ledger"
)

func newLedger(agents ...domain.AgentProfile) *ledger.Ledger {
	l := ledger.NewLedger()
	l.Load(agents)
	return l
}

func TestLeastLoadedEligiblePicksMinimumWorkload(t *testing.T) {
	l := newLedger(
		domain.AgentProfile{ID: 1, CurrentWorkload: 3, Skills: []int64{10}},
		domain.AgentProfile{ID: 2, CurrentWorkload: 1, Skills: []int64{10}},
		domain.AgentProfile{ID: 3, CurrentWorkload: 0, Skills: []int64{20}},
	)

	agentID, ok := l.LeastLoadedEligible(10)
	require.True(t, ok)
	assert.Equal(t, int64(2), agentID)
}

func TestLeastLoadedEligibleFiltersBySkill(t *testing.T) {
	l := newLedger(
		domain.AgentProfile{ID: 1, CurrentWorkload: 0, Skills: []int64{20}},
	)

	_, ok := l.LeastLoadedEligible(10)
	assert.False(t, ok)
}

func TestLeastLoadedEligibleTieBreaksOnSmallestID(t *testing.T) {
	l := newLedger(
		domain.AgentProfile{ID: 9, CurrentWorkload: 2, Skills: []int64{10}},
		domain.AgentProfile{ID: 4, CurrentWorkload: 2, Skills: []int64{10}},
		domain.AgentProfile{ID: 7, CurrentWorkload: 2, Skills: []int64{10}},
	)

	for i := 0; i < 20; i++ {
		agentID, ok := l.LeastLoadedEligible(10)
		require.True(t, ok)
		assert.Equal(t, int64(4), agentID)
	}
}

func TestIncrementDecrementRoundTrip(t *testing.T) {
	l := newLedger(domain.AgentProfile{ID: 1, Skills: []int64{10}})

	l.Increment(1)
	l.Increment(1)
	workload, ok := l.Workload(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), workload)

	l.Decrement(1)
	workload, _ = l.Workload(1)
	assert.Equal(t, int64(1), workload)
}

func TestDecrementFloorsAtZero(t *testing.T) {
	l := newLedger(domain.AgentProfile{ID: 1, Skills: []int64{10}})

	l.Decrement(1)
	l.Decrement(1)

	workload, ok := l.Workload(1)
	require.True(t, ok)
	assert.Equal(t, int64(0), workload)
}

func TestUnknownAgentIsIgnored(t *testing.T) {
	l := newLedger(domain.AgentProfile{ID: 1, Skills: []int64{10}})

	l.Increment(99)
	l.Decrement(99)
	_, ok := l.Workload(99)
	assert.False(t, ok)
}

func TestLoadReplacesStateWholesale(t *testing.T) {
	l := newLedger(domain.AgentProfile{ID: 1, CurrentWorkload: 5, Skills: []int64{10}})

	l.Load([]domain.AgentProfile{{ID: 2, CurrentWorkload: 0, Skills: []int64{10}}})

	_, ok := l.Workload(1)
	assert.False(t, ok)
	agentID, ok := l.LeastLoadedEligible(10)
	require.True(t, ok)
	assert.Equal(t, int64(2), agentID)
}

func TestConcurrentCountersStayConsistent(t *testing.T) {
	l := newLedger(domain.AgentProfile{ID: 1, Skills: []int64{10}})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Increment(1)
				l.LeastLoadedEligible(10)
			}
		}()
	}
	wg.Wait()

	workload, ok := l.Workload(1)
	require.True(t, ok)
	assert.Equal(t, int64(800), workload)
}
