// Package dashboard keeps the display state of one COVID-19 dashboard: which region is
// selected, what was loaded for it and whether the last load failed.
//
// Selecting a region while a previous load is still running cancels that load. If the
// old load still manages to finish, its result is dropped: only the latest selection
// may change the state.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ilyalavrinov/covidboard/pkg/covid"
)

// ErrSuperseded is returned by a load that finished after a newer selection was made.
var ErrSuperseded = errors.New("load superseded by a newer selection")

// ErrNoRegion is returned by Refresh before any region was selected.
var ErrNoRegion = errors.New("no region selected")

type RegionLoader interface {
	LoadRegion(ctx context.Context, region covid.Region) (covid.RegionData, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return ""
}

// State is a copy of what the dashboard currently displays. Data and Daily belong to
// the last successful load and are replaced as a whole by the next one.
type State struct {
	Status     Status
	Region     covid.Region
	Data       covid.RegionData
	Daily      []covid.DailyPoint
	Err        error
	Generation uint64
	LoadedAt   time.Time
}

// HasData reports whether the state still holds a successful load of the selected
// region, which is the case while refreshing it or after a failed refresh.
func (s State) HasData() bool {
	return s.Data.Region != "" && s.Data.Region == s.Region
}

type Dashboard struct {
	loader RegionLoader

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
}

func New(loader RegionLoader) *Dashboard {
	return &Dashboard{loader: loader}
}

func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Select loads region and makes it the displayed one. The returned state is the one
// committed by this call; ErrSuperseded means a newer Select took over.
func (d *Dashboard) Select(ctx context.Context, region covid.Region) (State, error) {
	loadCtx, gen := d.begin(ctx, region)
	return d.load(loadCtx, gen, region)
}

// Refresh reloads the currently selected region. The region is read and the load
// registered in one step, so a Select made after it always wins.
func (d *Dashboard) Refresh(ctx context.Context) (State, error) {
	d.mu.Lock()
	region := d.state.Region
	if region == "" {
		d.mu.Unlock()
		return State{}, ErrNoRegion
	}
	loadCtx, gen := d.beginLocked(ctx, region)
	d.mu.Unlock()
	return d.load(loadCtx, gen, region)
}

func (d *Dashboard) load(ctx context.Context, gen uint64, region covid.Region) (State, error) {
	loadID := uuid.NewString()
	logger := log.WithFields(log.Fields{"region": region, "generation": gen, "load": loadID})
	logger.Debug("Dashboard load started")

	start := time.Now()
	data, err := d.loader.LoadRegion(ctx, region)
	var daily []covid.DailyPoint
	if err == nil {
		daily, err = covid.DailySeries(data.History)
		if err != nil {
			err = fmt.Errorf("could not build daily series for %s: %w", region, err)
		}
	}

	st, committed := d.commit(gen, data, daily, err)
	if !committed {
		logger.WithField("err", err).Info("Dropping result of superseded dashboard load")
		return st, ErrSuperseded
	}
	if err != nil {
		logger.WithField("err", err).Error("Dashboard load failed")
		return st, err
	}
	logger.WithFields(log.Fields{"days": len(daily), "took": time.Since(start)}).Debug("Dashboard load finished")
	return st, nil
}

func (d *Dashboard) begin(ctx context.Context, region covid.Region) (context.Context, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.beginLocked(ctx, region)
}

// beginLocked must be called with d.mu held.
func (d *Dashboard) beginLocked(ctx context.Context, region covid.Region) (context.Context, uint64) {
	if d.cancel != nil {
		d.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.gen++

	d.state.Status = StatusLoading
	d.state.Generation = d.gen
	d.state.Err = nil
	if d.state.Region != region {
		// stale data of another region must not be shown while loading
		d.state.Data = covid.RegionData{}
		d.state.Daily = nil
	}
	d.state.Region = region
	return loadCtx, d.gen
}

func (d *Dashboard) commit(gen uint64, data covid.RegionData, daily []covid.DailyPoint, err error) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen {
		return d.state, false
	}
	d.cancel()
	d.cancel = nil

	if err != nil {
		d.state.Status = StatusFailed
		d.state.Err = err
		return d.state, true
	}
	d.state = State{
		Status:     StatusReady,
		Region:     d.state.Region,
		Data:       data,
		Daily:      daily,
		Generation: gen,
		LoadedAt:   time.Now(),
	}
	return d.state, true
}
