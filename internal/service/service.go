package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/dispatch"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/extract"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/performance"
	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/repository"
)

// Fanout delivers a finalized equipment event to the external targets.
type Fanout interface {
	Dispatch(ctx context.Context, ev domain.EquipmentEvent, flags dispatch.Flags) dispatch.Report
}

// Recorder counts registrations and ledger rows.
type Recorder interface {
	ObserveRegistration(entity, result string)
	ObserveBillingItem(itemType string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRegistration(string, string) {}
func (nopRecorder) ObserveBillingItem(string)          {}

type nopFanout struct{}

func (nopFanout) Dispatch(context.Context, domain.EquipmentEvent, dispatch.Flags) dispatch.Report {
	return dispatch.Report{Success: true, Results: map[string]dispatch.Outcome{}}
}

const (
	ResultCreated  = "created"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

type Options struct {
	Store     repository.Store
	Fanout    Fanout
	Extractor extract.Extractor
	Recorder  Recorder
	Jitter    performance.Jitter

	// HardQuota rejects equipment beyond the facility's included count.
	HardQuota bool
	// AsyncDispatch returns from registration before the fan-out completes.
	AsyncDispatch bool

	Logger zerolog.Logger
	Now    func() time.Time
}

type Services struct {
	Store       repository.Store
	Facilities  *FacilityService
	Equipment   *EquipmentService
	Performance *performance.Scorer
	Extractor   extract.Extractor
}

func New(opts Options) *Services {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Extractor == nil {
		opts.Extractor = extract.Stub{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fanout == nil {
		opts.Fanout = nopFanout{}
	}
	scorer := performance.NewScorer(opts.Jitter)

	return &Services{
		Store: opts.Store,
		Facilities: &FacilityService{
			store:    opts.Store,
			recorder: opts.Recorder,
			log:      opts.Logger.With().Str("component", "facility_registrar").Logger(),
		},
		Equipment: &EquipmentService{
			store:     opts.Store,
			scorer:    scorer,
			fanout:    opts.Fanout,
			recorder:  opts.Recorder,
			hardQuota: opts.HardQuota,
			async:     opts.AsyncDispatch,
			now:       opts.Now,
			inflight:  &sync.WaitGroup{},
			log:       opts.Logger.With().Str("component", "equipment_registrar").Logger(),
		},
		Performance: scorer,
		Extractor:   opts.Extractor,
	}
}

// Drain blocks until queued fan-outs finish or ctx is done.
func (s *Services) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.Equipment.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
