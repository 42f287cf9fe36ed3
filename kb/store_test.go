package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrieveByTopic(t *testing.T) {
	s := NewStore(
		Document{Content: "RIS phase sweeps help under deep fading.", Topics: []string{"agent.ris"}},
		Document{Content: "NOMA far users need the larger power share.", Topics: []string{"agent.noma"}},
		Document{Content: "V2I safety messaging wants 15 dB SNR.", Topics: []string{"agent.v2i"}},
	)

	hits := s.Retrieve("agent.noma", 5)
	assert.Equal(t, []string{"NOMA far users need the larger power share."}, hits)
}

func TestRetrieveLimitsAndOrder(t *testing.T) {
	s := NewStore()
	s.Add(Document{Content: "first", Topics: []string{"x"}})
	s.Add(Document{Content: "second", Topics: []string{"x"}})
	s.Add(Document{Content: "third", Topics: []string{"x"}})

	hits := s.Retrieve("x", 2)
	assert.Equal(t, []string{"first", "second"}, hits)
}

func TestRetrieveEmptyQueryMatchesAll(t *testing.T) {
	s := NewStore(
		Document{Content: "a"},
		Document{Content: "b"},
	)
	assert.Len(t, s.Retrieve("", 10), 2)
}

func TestRetrieveContentFallback(t *testing.T) {
	s := NewStore(Document{Content: "Keep transmit power below 30 dBm."})
	assert.Len(t, s.Retrieve("transmit power", 1), 1)
	assert.Empty(t, s.Retrieve("unrelated", 1))
}
