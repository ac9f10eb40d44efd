package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/facility-intake-engine/internal/domain"
)

// --- test helpers -----------------------------------------------------------

type hookServer struct {
	*httptest.Server
	hits   atomic.Int32
	mu     sync.Mutex
	bodies []domain.EquipmentEvent
}

func newHook(t *testing.T, status int, delay time.Duration) *hookServer {
	t.Helper()
	h := &hookServer{}
	h.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.hits.Add(1)
		var ev domain.EquipmentEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err == nil {
			h.mu.Lock()
			h.bodies = append(h.bodies, ev)
			h.mu.Unlock()
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(h.Close)
	return h
}

type hooks struct {
	facilities, compliance, boiler, chiller, energy, log *hookServer
}

func (h hooks) endpoints() Endpoints {
	return Endpoints{
		FacilitiesSheet: h.facilities.URL,
		ComplianceSheet: h.compliance.URL,
		Boiler:          h.boiler.URL,
		Chiller:         h.chiller.URL,
		Energy:          h.energy.URL,
		ComplianceLog:   h.log.URL,
	}
}

func allOK(t *testing.T, delay time.Duration) hooks {
	return hooks{
		facilities: newHook(t, http.StatusOK, delay),
		compliance: newHook(t, http.StatusOK, delay),
		boiler:     newHook(t, http.StatusOK, delay),
		chiller:    newHook(t, http.StatusOK, delay),
		energy:     newHook(t, http.StatusOK, delay),
		log:        newHook(t, http.StatusOK, delay),
	}
}

func boilerEvent() domain.EquipmentEvent {
	return domain.EquipmentEvent{EquipmentID: "eq-1", FacilityID: "fac-1", Category: "Boiler", RPM: 1750, EfficiencyScore: 95}
}

func newDispatcher(e Endpoints, timeout time.Duration, extra ...Target) *Dispatcher {
	return New(Options{Endpoints: e, Timeout: timeout, Extra: extra, Logger: zerolog.Nop()})
}

// --- tests ------------------------------------------------------------------

func TestDispatchAllSucceed(t *testing.T) {
	h := allOK(t, 0)
	report := newDispatcher(h.endpoints(), time.Second).Dispatch(context.Background(), boilerEvent(), Flags{})

	assert.True(t, report.Success)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Results, 4)
	for name, out := range report.Results {
		assert.True(t, out.Succeeded, name)
		assert.Equal(t, http.StatusOK, out.Status, name)
	}
	assert.EqualValues(t, 1, h.boiler.hits.Load())
	assert.EqualValues(t, 0, h.energy.hits.Load())
	require.Len(t, h.log.bodies, 1)
	assert.Equal(t, "eq-1", h.log.bodies[0].EquipmentID)
}

func TestDispatchPartialFailureDoesNotShortCircuit(t *testing.T) {
	h := allOK(t, 0)
	h.compliance = newHook(t, http.StatusInternalServerError, 0)

	report := newDispatcher(h.endpoints(), time.Second).Dispatch(context.Background(), boilerEvent(), Flags{})

	assert.False(t, report.Success)
	succeeded := 0
	for _, out := range report.Results {
		if out.Succeeded {
			succeeded++
		}
	}
	assert.Equal(t, 3, succeeded)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[TargetCompliance], "HTTP 500")
	assert.Equal(t, http.StatusInternalServerError, report.Results[TargetCompliance].Status)
	assert.EqualValues(t, 1, h.log.hits.Load())
}

func TestDispatchRunsConcurrently(t *testing.T) {
	delay := 300 * time.Millisecond
	h := allOK(t, delay)

	start := time.Now()
	report := newDispatcher(h.endpoints(), 2*time.Second).Dispatch(context.Background(), boilerEvent(), Flags{})
	elapsed := time.Since(start)

	assert.True(t, report.Success)
	// four sequential calls would take at least 4×delay
	assert.Less(t, elapsed, 3*delay)
}

func TestDispatchTimeoutIsPerTarget(t *testing.T) {
	h := allOK(t, 0)
	h.log = newHook(t, http.StatusOK, 5*time.Second)

	start := time.Now()
	report := newDispatcher(h.endpoints(), 200*time.Millisecond).Dispatch(context.Background(), boilerEvent(), Flags{})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.False(t, report.Success)
	assert.False(t, report.Results[TargetComplianceLog].Succeeded)
	assert.Contains(t, report.Errors, TargetComplianceLog)
	assert.True(t, report.Results[TargetFacilities].Succeeded)
}

func TestDispatchNetworkError(t *testing.T) {
	h := allOK(t, 0)
	e := h.endpoints()
	e.FacilitiesSheet = "http://127.0.0.1:1"

	report := newDispatcher(e, time.Second).Dispatch(context.Background(), boilerEvent(), Flags{})

	assert.False(t, report.Success)
	assert.Equal(t, Outcome{}, report.Results[TargetFacilities])
	assert.Contains(t, report.Errors, TargetFacilities)
	assert.Len(t, report.Results, 4)
}

func TestDispatchFlagsDisableSheets(t *testing.T) {
	h := allOK(t, 0)
	off := false
	report := newDispatcher(h.endpoints(), time.Second).Dispatch(context.Background(), boilerEvent(),
		Flags{Facilities: &off, Compliance: &off})

	assert.True(t, report.Success)
	assert.Len(t, report.Results, 2)
	assert.NotContains(t, report.Results, TargetFacilities)
	assert.NotContains(t, report.Results, TargetCompliance)
	assert.EqualValues(t, 0, h.facilities.hits.Load())
}

func TestAutomationRouting(t *testing.T) {
	e := Endpoints{Boiler: "b", Chiller: "c", Energy: "e"}
	assert.Equal(t, "b", e.AutomationURL("Steam BOILER"))
	assert.Equal(t, "c", e.AutomationURL("chiller"))
	assert.Equal(t, "e", e.AutomationURL("Pump"))
	assert.Equal(t, "e", e.AutomationURL(""))
}

func TestTargetsSkipUnconfigured(t *testing.T) {
	d := newDispatcher(Endpoints{ComplianceLog: "http://log"}, time.Second)
	targets := d.Targets(boilerEvent(), Flags{})
	require.Len(t, targets, 1)
	assert.Equal(t, TargetComplianceLog, targets[0].Name())
}

type fakeTarget struct {
	name  string
	err   error
	wants bool
	calls atomic.Int32
}

func (f *fakeTarget) Name() string { return f.name }

func (f *fakeTarget) Deliver(ctx context.Context, ev domain.EquipmentEvent) (int, error) {
	f.calls.Add(1)
	return 0, f.err
}

func (f *fakeTarget) Wants(ev domain.EquipmentEvent) bool { return f.wants }

func TestExtraTargets(t *testing.T) {
	h := allOK(t, 0)
	archive := &fakeTarget{name: "archive", wants: true}
	alert := &fakeTarget{name: "maintenance_alert", wants: false}
	broken := &fakeTarget{name: "broken", wants: true, err: errors.New("access denied")}

	report := newDispatcher(h.endpoints(), time.Second, archive, alert, broken).
		Dispatch(context.Background(), boilerEvent(), Flags{})

	assert.EqualValues(t, 1, archive.calls.Load())
	assert.EqualValues(t, 0, alert.calls.Load())
	assert.True(t, report.Results["archive"].Succeeded)
	assert.NotContains(t, report.Results, "maintenance_alert")
	assert.Equal(t, "access denied", report.Errors["broken"])
	assert.False(t, report.Success)
}

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]bool
}

func (r *recordingObserver) ObserveDispatch(target string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[target] = ok
}

func TestObserverSeesEveryTarget(t *testing.T) {
	h := allOK(t, 0)
	h.chiller = newHook(t, http.StatusBadGateway, 0)
	obs := &recordingObserver{calls: map[string]bool{}}

	d := New(Options{Endpoints: h.endpoints(), Timeout: time.Second, Observer: obs, Logger: zerolog.Nop()})
	ev := boilerEvent()
	ev.Category = "Chiller"
	d.Dispatch(context.Background(), ev, Flags{})

	assert.Len(t, obs.calls, 4)
	assert.False(t, obs.calls[TargetAutomation])
	assert.True(t, obs.calls[TargetComplianceLog])
}

func TestSendWithNoTargets(t *testing.T) {
	report := newDispatcher(Endpoints{}, time.Second).Send(context.Background(), boilerEvent(), nil)
	assert.True(t, report.Success)
	assert.Empty(t, report.Results)
}
