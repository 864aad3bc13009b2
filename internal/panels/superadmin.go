package panels

import (
	"context"
	"sort"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lexquote/lexquote/internal/adminapi"
	"github.com/lexquote/lexquote/internal/dashboard"
)

const securityEventLimit = 25

// SystemData feeds panels/system.html.
type SystemData struct {
	Version    string
	Uptime     time.Duration
	Healthy    bool
	Components []adminapi.ComponentStatus
}

// System shows backend deployment health.
type System struct {
	API SystemAPI
}

func (p *System) Section() dashboard.SectionID { return dashboard.SectionSystem }

func (p *System) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	status, err := p.API.SystemStatus(ctx, callerOf(v))
	if err != nil {
		return dashboard.Content{}, err
	}
	return dashboard.Content{
		Template: "panels/system.html",
		Data: SystemData{
			Version:    status.Version,
			Uptime:     time.Duration(status.UptimeSeconds) * time.Second,
			Healthy:    status.Healthy(),
			Components: status.Components,
		},
	}, nil
}

// SecurityData feeds panels/security.html.
type SecurityData struct {
	Events   []adminapi.SecurityEvent
	Failures int
}

// Security lists recent sign-in events.
type Security struct {
	API SystemAPI
}

func (p *Security) Section() dashboard.SectionID { return dashboard.SectionSecurity }

func (p *Security) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	events, err := p.API.SecurityEvents(ctx, callerOf(v), securityEventLimit)
	if err != nil {
		return dashboard.Content{}, err
	}
	failures := 0
	for _, e := range events {
		if !e.Success {
			failures++
		}
	}
	return dashboard.Content{Template: "panels/security.html", Data: SecurityData{Events: events, Failures: failures}}, nil
}

// QueueInspector is the subset of *asynq.Inspector used for monitoring.
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// QueueRow summarises one job queue.
type QueueRow struct {
	Name      string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Archived  int
	Processed int
	Failed    int
	Paused    bool
	Latency   time.Duration
}

// MonitoringData feeds panels/monitoring.html.
type MonitoringData struct {
	Queues []QueueRow
}

// Monitoring shows background job queue statistics.
type Monitoring struct {
	Inspector QueueInspector
}

func (p *Monitoring) Section() dashboard.SectionID { return dashboard.SectionMonitoring }

func (p *Monitoring) Load(ctx context.Context, v dashboard.Viewer) (dashboard.Content, error) {
	if p.Inspector == nil {
		return dashboard.Content{Template: "panels/monitoring.html", Data: MonitoringData{}}, nil
	}
	names, err := p.Inspector.Queues()
	if err != nil {
		return dashboard.Content{}, err
	}
	sort.Strings(names)
	rows := make([]QueueRow, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return dashboard.Content{}, err
		}
		info, err := p.Inspector.GetQueueInfo(name)
		if err != nil {
			return dashboard.Content{}, err
		}
		rows = append(rows, QueueRow{
			Name:      info.Queue,
			Pending:   info.Pending,
			Active:    info.Active,
			Scheduled: info.Scheduled,
			Retry:     info.Retry,
			Archived:  info.Archived,
			Processed: info.Processed,
			Failed:    info.Failed,
			Paused:    info.Paused,
			Latency:   info.Latency,
		})
	}
	return dashboard.Content{Template: "panels/monitoring.html", Data: MonitoringData{Queues: rows}}, nil
}
