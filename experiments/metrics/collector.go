package metrics

import (
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Expansions   int
	Generated    int
	StalePops    int
	Reopened     int
	FrontierPeak int
	PlanCost     int
	PlanLength   int
	Solved       bool
}

// Collector records search progress. A search owns its collector; it is not safe for concurrent use.
type Collector interface {
	Start()
	AddExpansion()
	AddGenerated(n int)
	AddStalePop()
	AddReopened()
	ObserveFrontier(size int)
	Solved(cost, length int)
	Complete() SearchMetric
}

type collector struct {
	startTime time.Time
	metric    SearchMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.metric = SearchMetric{}
}

func (m *collector) AddExpansion() {
	m.metric.Expansions++
}

func (m *collector) AddGenerated(n int) {
	m.metric.Generated += n
}

func (m *collector) AddStalePop() {
	m.metric.StalePops++
}

func (m *collector) AddReopened() {
	m.metric.Reopened++
}

func (m *collector) ObserveFrontier(size int) {
	if size > m.metric.FrontierPeak {
		m.metric.FrontierPeak = size
	}
}

func (m *collector) Solved(cost, length int) {
	m.metric.Solved = true
	m.metric.PlanCost = cost
	m.metric.PlanLength = length
}

func (m *collector) Complete() SearchMetric {
	metric := m.metric
	metric.Duration = time.Since(m.startTime)
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                   {}
func (m *dummyCollector) AddExpansion()            {}
func (m *dummyCollector) AddGenerated(n int)       {}
func (m *dummyCollector) AddStalePop()             {}
func (m *dummyCollector) AddReopened()             {}
func (m *dummyCollector) ObserveFrontier(size int) {}
func (m *dummyCollector) Solved(cost, length int)  {}
func (m *dummyCollector) Complete() SearchMetric   { return SearchMetric{} }
