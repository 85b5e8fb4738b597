// Package runtime coordinates transition batches between a UI tree's
// reconciliation process and the host platform's visual-transition primitive.
// It owns classification, snapshots, scheduling, and event fanout, without
// containing styling or rendering logic.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/domain/event"
	"transition-lab/observability"
	"transition-lab/projection"
	"transition-lab/runtime/workers"
)

// Settings groups the coordinator's tunables. Zero values are not usable;
// binaries fill this from their environment config.
type Settings struct {
	NumAnimators         int
	BufferSize           int
	SinkTimeout          time.Duration
	CaptureTimeout       time.Duration
	MetricInterval       time.Duration
	HealthInterval       time.Duration
	LatencyThreshold     time.Duration
	LowCapacityThreshold int
	TimelineLimit        int
}

// Coordinator wires the registry, classifier, snapshotter, and scheduler
// together and supervises the asynchronous half of the pipeline (animators,
// fanout, telemetry, health). One coordinator serves one UI-update timeline.
type Coordinator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	scheduler      *Scheduler
	classifier     *Classifier
	monitoring     *observability.MonitoringManager
	timeline       *projection.Timeline
	permanentSinks []contract.BatchSink
	events         chan event.DomainEvent
	telemetry      chan event.DomainEvent
	animations     chan *BatchHandle
	settings       Settings
	host           contract.HostPrimitive
	source         contract.SnapshotSource
}

func NewCoordinator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, host contract.HostPrimitive,
	source contract.SnapshotSource, monitoring *observability.MonitoringManager,
	settings Settings) *Coordinator {

	c := &Coordinator{
		log:        log,
		supervisor: supervisor,
		registry:   registry,
		monitoring: monitoring,
		timeline:   projection.NewTimeline(settings.TimelineLimit),
		events:     make(chan event.DomainEvent, settings.BufferSize),
		telemetry:  make(chan event.DomainEvent, settings.BufferSize),
		animations: make(chan *BatchHandle, settings.BufferSize),
		settings:   settings,
		host:       host,
		source:     source,
	}

	c.classifier = NewClassifier(log, registry)
	snapshotter := NewSnapshotter(log, source, settings.CaptureTimeout)
	c.scheduler = NewScheduler(log, registry, c.classifier, snapshotter, host, c.animations, c.emit)
	return c
}

// Propose submits one mutation batch. See Scheduler.Propose.
func (c *Coordinator) Propose(ctx context.Context, m domain.Mutation) (contract.BatchHandle, error) {
	return c.scheduler.Propose(ctx, m)
}

// RegisterParticipant opts a participant in outside a mutation batch, e.g.
// when a devtool injects one. Mutations register their mounts themselves.
func (c *Coordinator) RegisterParticipant(p *domain.Participant) error {
	return c.registry.Register(p)
}

// UnregisterParticipant releases a participant's name.
func (c *Coordinator) UnregisterParticipant(p *domain.Participant) {
	c.registry.Unregister(p)
}

// Add attaches extra lifecycle sinks before Start, e.g. a disk trace.
func (c *Coordinator) Add(sinks ...contract.BatchSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permanentSinks = append(c.permanentSinks, sinks...)
}

// Timeline exposes the in-memory history of settled batches.
func (c *Coordinator) Timeline() *projection.Timeline {
	return c.timeline
}

// Start prepares all workers and launches supervision in the background.
// It uses a preparation pattern to minimize mutex locking time.
func (c *Coordinator) Start(ctx context.Context) error {
	if c.settings.NumAnimators <= 0 {
		return fmt.Errorf("coordinator needs at least one animator, got %d", c.settings.NumAnimators)
	}

	// 1. Preparation phase (No Lock)
	animators := c.prepareAnimators()
	fanout := c.preparePipeline()
	telemetry := c.prepareTelemetry()
	health := workers.NewHealthWorker(c.log, c.monitoring, c.settings.HealthInterval)

	// 2. Critical Section (Short Lock)
	c.mu.Lock()
	c.supervisor.Add(fanout)
	c.supervisor.Add(telemetry)
	c.supervisor.Add(health)
	for _, w := range animators {
		c.supervisor.Add(w)
	}
	c.mu.Unlock()

	// 3. Execution phase (No Lock)
	// Supervision runs until the context is canceled or Stop is called;
	// Propose stays usable from the caller's goroutine meanwhile.
	c.log.Info("Starting coordinator and all supervised workers")
	go c.supervisor.Run(ctx)
	return nil
}

func (c *Coordinator) prepareAnimators() []contract.Worker {
	var res []contract.Worker
	for i := 0; i < c.settings.NumAnimators; i++ {
		res = append(res, NewAnimatorWorker(c.log, c.host, c.scheduler, c.animations))
	}
	return res
}

// preparePipeline assembles the fanout worker over the permanent sinks plus
// the built-in timeline and monitoring sinks.
func (c *Coordinator) preparePipeline() contract.Worker {
	c.mu.Lock()
	sinks := append([]contract.BatchSink{c.timeline, c.monitoring}, c.permanentSinks...)
	c.mu.Unlock()

	return workers.NewFanoutWorker(c.log, c.events, c.telemetry, c.settings.SinkTimeout).Add(sinks...)
}

func (c *Coordinator) prepareTelemetry() contract.Worker {
	handlers := []event.Handler{
		event.NewLatencyHandler(c.log, c.settings.LatencyThreshold),
		event.NewChannelCapacityHandler(c.log, c.settings.LowCapacityThreshold),
		event.NewConflictHandler(c.log, event.NewCounter()),
	}
	return workers.NewTelemetryWorker(c.log, c.settings.MetricInterval, c.telemetry, handlers)
}

// emit publishes a lifecycle event without ever blocking the scheduler.
func (c *Coordinator) emit(e event.DomainEvent) {
	select {
	case c.events <- e:
	default:
		c.log.Warn(fmt.Sprintf("Event channel full, dropping %T for batch %s", e, e.BatchID()))
	}
}

// Stop initiates a graceful shutdown: workers observe the canceled
// supervision context and drain. The already-committed UI state is never
// rolled back, only animations stop.
func (c *Coordinator) Stop() {
	c.log.Info("Requesting coordinator shutdown")
	c.supervisor.Stop()
}
