// Package budget resolves the effective spending budget for any calendar
// month from a persisted configuration: either a single recurring template
// applied to every month, or per-month overrides keyed "YYYY-MM". The two
// modes never mix: monthly mode has no fallback to the template.
package budget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gastos/internal/core"
)

// Mode selects which half of the configuration is active.
type Mode string

const (
	ModeTemplate Mode = "template"
	ModeMonthly  Mode = "monthly"
)

const (
	// ConfigKey is the settings key the current configuration lives under.
	ConfigKey = "budget_config"
	// LegacyKey holds the pre-mode flat shape; read once, never written.
	LegacyKey = "budget"
)

var (
	ErrInvalidBudget = errors.New("must enter a valid monthly budget")
	ErrInvalidMode   = errors.New("invalid budget mode")
)

// Spec is one budget: a monthly total plus optional per-category limits,
// denominated in a single currency regardless of what currencies the
// expenses themselves use.
type Spec struct {
	MonthlyTotal int64                   `json:"monthly_total"`
	Categories   map[core.Category]int64 `json:"categories,omitempty"`
	Currency     core.Currency           `json:"currency,omitempty"`
}

// Active reports whether the spec has any effect. A spec persisted with a
// non-positive total counts as unset.
func (s Spec) Active() bool {
	return s.MonthlyTotal > 0
}

func (s Spec) clone() Spec {
	out := s
	if s.Categories != nil {
		out.Categories = make(map[core.Category]int64, len(s.Categories))
		for k, v := range s.Categories {
			out.Categories[k] = v
		}
	}
	return out
}

// Config is the persisted budget state. Switching modes leaves the inactive
// half untouched so switching back restores previous settings.
type Config struct {
	Mode     Mode            `json:"mode"`
	Template *Spec           `json:"template,omitempty"`
	Monthly  map[string]Spec `json:"monthly"`
}

// DefaultConfig is the state used on first run and when the persisted blob
// cannot be parsed.
func DefaultConfig() Config {
	return Config{Mode: ModeTemplate, Monthly: map[string]Spec{}}
}

// Store persists opaque configuration blobs under string keys.
type Store interface {
	LoadSetting(ctx context.Context, key string) ([]byte, bool, error)
	SaveSetting(ctx context.Context, key string, blob []byte) error
}

// Manager owns the budget configuration for one application instance. It is
// an explicit dependency passed to callers, never package state, so tests
// and multiple instances do not interfere. Mutations persist before
// returning.
type Manager struct {
	mu              sync.Mutex
	store           Store
	cfg             Config
	displayCurrency core.Currency
}

// Load reads the persisted configuration, migrating the legacy shape when
// only that exists. A corrupt blob degrades to the default configuration
// rather than failing startup.
func Load(ctx context.Context, store Store) (*Manager, error) {
	m := &Manager{store: store, cfg: DefaultConfig(), displayCurrency: core.DefaultCurrency}

	blob, found, err := store.LoadSetting(ctx, ConfigKey)
	if err != nil {
		return nil, fmt.Errorf("load budget config: %w", err)
	}
	if found {
		var cfg Config
		if err := json.Unmarshal(blob, &cfg); err != nil {
			slog.WarnContext(ctx, "Budget config blob is corrupt, using defaults", "error", err)
			return m, nil
		}
		m.cfg = normalize(cfg)
		return m, nil
	}

	// First run on this store: check for the legacy flat shape.
	legacyBlob, found, err := store.LoadSetting(ctx, LegacyKey)
	if err != nil {
		return nil, fmt.Errorf("load legacy budget config: %w", err)
	}
	if !found {
		return m, nil
	}

	cfg, currency, ok := migrateLegacy(ctx, legacyBlob)
	if !ok {
		return m, nil
	}
	m.cfg = cfg
	if currency.Valid() {
		m.displayCurrency = currency
	}
	if err := m.persist(ctx); err != nil {
		return nil, fmt.Errorf("persist migrated budget config: %w", err)
	}
	slog.InfoContext(ctx, "Migrated legacy budget config", "mode", cfg.Mode, "currency", m.displayCurrency)
	return m, nil
}

func normalize(cfg Config) Config {
	if cfg.Mode != ModeTemplate && cfg.Mode != ModeMonthly {
		cfg.Mode = ModeTemplate
	}
	if cfg.Monthly == nil {
		cfg.Monthly = map[string]Spec{}
	}
	return cfg
}

// Mode returns the active mode.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg.Mode
}

// DisplayCurrency is the process-wide currency budgets are shown in.
func (m *Manager) DisplayCurrency() core.Currency {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayCurrency
}

// SetDisplayCurrency changes the display currency for new budget specs.
func (m *Manager) SetDisplayCurrency(c core.Currency) {
	if !c.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displayCurrency = c
}

// Snapshot returns a copy of the current configuration.
func (m *Manager) Snapshot() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.cfg
	if m.cfg.Template != nil {
		t := m.cfg.Template.clone()
		out.Template = &t
	}
	out.Monthly = make(map[string]Spec, len(m.cfg.Monthly))
	for k, v := range m.cfg.Monthly {
		out.Monthly[k] = v.clone()
	}
	return out
}

// Resolve returns the budget in effect for a month, or nil when none
// applies. nil is a normal outcome, not an error: callers render a
// "no budget" state. In monthly mode a month without an override has no
// budget even when a template exists.
func (m *Manager) Resolve(monthKey string) *Spec {
	m.mu.Lock()
	defer m.mu.Unlock()

	var spec Spec
	switch m.cfg.Mode {
	case ModeMonthly:
		s, ok := m.cfg.Monthly[monthKey]
		if !ok || !s.Active() {
			return nil
		}
		spec = s.clone()
	default:
		if m.cfg.Template == nil || !m.cfg.Template.Active() {
			return nil
		}
		spec = m.cfg.Template.clone()
	}
	if !spec.Currency.Valid() {
		spec.Currency = m.displayCurrency
	}
	return &spec
}

// Lookup adapts Resolve for series building: the resolved monthly total in
// cents, or ok=false when no budget applies.
func (m *Manager) Lookup(monthKey string) (int64, bool) {
	spec := m.Resolve(monthKey)
	if spec == nil {
		return 0, false
	}
	return spec.MonthlyTotal, true
}

// EditableDraftFor returns the spec that should pre-populate an edit form.
// In monthly mode that is the month's existing override or a zeroed spec; in
// template mode the month is ignored and the template comes back.
func (m *Manager) EditableDraftFor(monthKey string) Spec {
	m.mu.Lock()
	defer m.mu.Unlock()

	var spec Spec
	switch m.cfg.Mode {
	case ModeMonthly:
		if s, ok := m.cfg.Monthly[monthKey]; ok {
			spec = s.clone()
		}
	default:
		if m.cfg.Template != nil {
			spec = m.cfg.Template.clone()
		}
	}
	if spec.Categories == nil {
		spec.Categories = map[core.Category]int64{}
	}
	if !spec.Currency.Valid() {
		spec.Currency = m.displayCurrency
	}
	return spec
}

// Apply validates and stores a spec: into the template in template mode, or
// under monthKey in monthly mode. The new state is persisted before Apply
// returns, so a crash immediately after never loses the written intent.
func (m *Manager) Apply(ctx context.Context, monthKey string, spec Spec) error {
	if !spec.Active() {
		return ErrInvalidBudget
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if !spec.Currency.Valid() {
		spec.Currency = m.displayCurrency
	}
	switch m.cfg.Mode {
	case ModeMonthly:
		if _, _, err := core.ParseMonthKey(monthKey); err != nil {
			return err
		}
		m.cfg.Monthly[monthKey] = spec.clone()
	default:
		s := spec.clone()
		m.cfg.Template = &s
	}
	return m.persist(ctx)
}

// Remove deletes the month's override in monthly mode, or clears the whole
// template in template mode.
func (m *Manager) Remove(ctx context.Context, monthKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.cfg.Mode {
	case ModeMonthly:
		delete(m.cfg.Monthly, monthKey)
	default:
		m.cfg.Template = nil
	}
	return m.persist(ctx)
}

// SwitchMode activates the other mode. The inactive mode's data stays in
// place so a later switch back restores it.
func (m *Manager) SwitchMode(ctx context.Context, mode Mode) error {
	if mode != ModeTemplate && mode != ModeMonthly {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cfg.Mode == mode {
		return nil
	}
	m.cfg.Mode = mode
	return m.persist(ctx)
}

// persist writes the configuration under the current key. Callers hold mu.
func (m *Manager) persist(ctx context.Context) error {
	blob, err := json.Marshal(m.cfg)
	if err != nil {
		return fmt.Errorf("marshal budget config: %w", err)
	}
	if err := m.store.SaveSetting(ctx, ConfigKey, blob); err != nil {
		return fmt.Errorf("save budget config: %w", err)
	}
	return nil
}
