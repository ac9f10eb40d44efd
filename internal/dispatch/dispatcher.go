package dispatch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
	apperrors "github.com/ANIKETSHETTY47/facility-intake-engine/internal/errors"
)

const (
	TargetFacilities    = "facilities"
	TargetCompliance    = "compliance"
	TargetAutomation    = "automation"
	TargetComplianceLog = "compliance_log"
)

const DefaultTimeout = 10 * time.Second

// Target is one external destination for an equipment event. Status is the HTTP status
// when the target speaks HTTP, 0 otherwise.
type Target interface {
	Name() string
	Deliver(ctx context.Context, ev domain.EquipmentEvent) (status int, err error)
}

// Selective targets only receive the events they want.
type Selective interface {
	Wants(ev domain.EquipmentEvent) bool
}

// Observer receives one call per attempted target.
type Observer interface {
	ObserveDispatch(target string, succeeded bool, elapsed time.Duration)
}

// Endpoints is the process-wide webhook configuration.
type Endpoints struct {
	FacilitiesSheet string
	ComplianceSheet string
	Boiler          string
	Chiller         string
	Energy          string
	ComplianceLog   string
}

// Flags lets a caller switch off the sheet targets. A nil flag means enabled.
type Flags struct {
	Facilities *bool `json:"facilities,omitempty"`
	Compliance *bool `json:"compliance,omitempty"`
}

func enabled(flag *bool) bool { return flag == nil || *flag }

type Outcome struct {
	Status    int  `json:"status,omitempty"`
	Succeeded bool `json:"succeeded"`
}

// Report aggregates one dispatch. Success is true only when no attempted target failed.
type Report struct {
	Success bool               `json:"success"`
	Queued  bool               `json:"queued,omitempty"`
	Results map[string]Outcome `json:"results"`
	Errors  map[string]string  `json:"errors,omitempty"`
}

type Options struct {
	Endpoints Endpoints
	Client    *http.Client
	Timeout   time.Duration
	// Extra targets are attempted alongside the webhooks for every event they want.
	Extra    []Target
	Observer Observer
	Logger   zerolog.Logger
}

type Dispatcher struct {
	endpoints Endpoints
	client    *http.Client
	timeout   time.Duration
	extra     []Target
	observer  Observer
	log       zerolog.Logger
}

func New(opts Options) *Dispatcher {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Dispatcher{
		endpoints: opts.Endpoints,
		client:    opts.Client,
		timeout:   opts.Timeout,
		extra:     opts.Extra,
		observer:  opts.Observer,
		log:       opts.Logger,
	}
}

// AutomationURL routes by category: boiler-class, chiller-class, otherwise energy.
func (e Endpoints) AutomationURL(category string) string {
	c := strings.ToLower(category)
	switch {
	case strings.Contains(c, "boiler"):
		return e.Boiler
	case strings.Contains(c, "chiller"):
		return e.Chiller
	default:
		return e.Energy
	}
}

// Targets resolves the target set for ev. Webhooks without a configured URL are skipped.
func (d *Dispatcher) Targets(ev domain.EquipmentEvent, flags Flags) []Target {
	var targets []Target
	add := func(name, url string) {
		if url == "" {
			d.log.Warn().Str("target", name).Msg("dispatch: no endpoint configured, skipping")
			return
		}
		targets = append(targets, NewWebhook(name, url, d.client))
	}

	if enabled(flags.Facilities) {
		add(TargetFacilities, d.endpoints.FacilitiesSheet)
	}
	if enabled(flags.Compliance) {
		add(TargetCompliance, d.endpoints.ComplianceSheet)
	}
	add(TargetAutomation, d.endpoints.AutomationURL(ev.Category))
	add(TargetComplianceLog, d.endpoints.ComplianceLog)

	for _, t := range d.extra {
		if s, ok := t.(Selective); ok && !s.Wants(ev) {
			continue
		}
		targets = append(targets, t)
	}
	return targets
}

// Dispatch sends ev to the configured targets.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.EquipmentEvent, flags Flags) Report {
	return d.Send(ctx, ev, d.Targets(ev, flags))
}

// Send delivers ev to every target concurrently and joins all of them. It never returns early.
func (d *Dispatcher) Send(ctx context.Context, ev domain.EquipmentEvent, targets []Target) Report {
	type attempt struct {
		status int
		err    error
	}
	// one slot per target; errgroup.Wait orders the writes before the reads below
	attempts := make([]attempt, len(targets))

	var g errgroup.Group
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			tctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()

			start := time.Now()
			status, err := t.Deliver(tctx, ev)
			attempts[i] = attempt{status: status, err: err}

			if d.observer != nil {
				d.observer.ObserveDispatch(t.Name(), err == nil, time.Since(start))
			}
			return nil
		})
	}
	_ = g.Wait()

	report := Report{
		Success: true,
		Results: make(map[string]Outcome, len(targets)),
	}
	for i, t := range targets {
		a := attempts[i]
		report.Results[t.Name()] = Outcome{Status: a.status, Succeeded: a.err == nil}
		if a.err == nil {
			d.log.Debug().Str("target", t.Name()).Int("status", a.status).
				Str("equipment_id", ev.EquipmentID).Msg("dispatch: delivered")
			continue
		}
		report.Success = false
		if report.Errors == nil {
			report.Errors = make(map[string]string)
		}
		report.Errors[t.Name()] = a.err.Error()
		d.log.Error().Err(apperrors.NewDispatchError(t.Name(), a.err)).Str("target", t.Name()).Int("status", a.status).
			Str("equipment_id", ev.EquipmentID).Msg("dispatch: delivery failed")
	}
	return report
}
