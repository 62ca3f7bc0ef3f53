package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one move search.
type SearchMetric struct {
	Goroutines int
	Duration   time.Duration
	Budget     int // Episodes requested, 0 when searching by duration only
	Episodes   int // Episodes completed
	Candidates int // Distinct first moves sampled
	Stopped    bool
}

type MoveMetric struct {
	Step   int
	Player int // Player ID
	Move   int
	SearchMetric
}

type GameMetric struct {
	StartingAgent int // Index of the agent playing the human side
	Winner        string
	Score         int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

type Collector interface {
	Start(goroutines, budget int)
	AddEpisode()
	SetCandidates(n int)
	Complete() SearchMetric
}

type collector struct {
	goroutines int
	budget     int
	startTime  time.Time
	episodes   atomic.Int32
	candidates atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, budget int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.budget = budget
	m.episodes.Store(0)
	m.candidates.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) SetCandidates(n int) {
	m.candidates.Store(int32(n))
}

func (m *collector) Complete() SearchMetric {
	episodes := int(m.episodes.Load())
	return SearchMetric{
		Goroutines: m.goroutines,
		Duration:   time.Since(m.startTime),
		Budget:     m.budget,
		Episodes:   episodes,
		Candidates: int(m.candidates.Load()),
		Stopped:    m.budget > 0 && episodes < m.budget,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, budget int) {}
func (m *dummyCollector) AddEpisode()                  {}
func (m *dummyCollector) SetCandidates(n int)          {}
func (m *dummyCollector) Complete() SearchMetric       { return SearchMetric{} }
