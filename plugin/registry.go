package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/Abhishekgoyal007/CasperFlow/types"
)

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery for O(1) dispatch performance.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	// Type-cached plugin lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onStakeDeposited       []OnStakeDeposited
	onStakeWithdrawn       []OnStakeWithdrawn
	onRewardsAccrued       []OnRewardsAccrued
	onRewardsWithdrawn     []OnRewardsWithdrawn
	onStakeToPayToggled    []OnStakeToPayToggled
	onPlanCreated          []OnPlanCreated
	onPlanUpdated          []OnPlanUpdated
	onSubscriptionCreated  []OnSubscriptionCreated
	onSubscriptionCanceled []OnSubscriptionCanceled
	onUsageRecorded        []OnUsageRecorded
	onPeriodClosed         []OnPeriodClosed
	onInvoiceGenerated     []OnInvoiceGenerated
	onInvoicePaid          []OnInvoicePaid
	onInvoiceFailed        []OnInvoiceFailed
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	// Type-switch to cache interfaces
	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnStakeDeposited); ok {
		r.onStakeDeposited = append(r.onStakeDeposited, v)
	}
	if v, ok := p.(OnStakeWithdrawn); ok {
		r.onStakeWithdrawn = append(r.onStakeWithdrawn, v)
	}
	if v, ok := p.(OnRewardsAccrued); ok {
		r.onRewardsAccrued = append(r.onRewardsAccrued, v)
	}
	if v, ok := p.(OnRewardsWithdrawn); ok {
		r.onRewardsWithdrawn = append(r.onRewardsWithdrawn, v)
	}
	if v, ok := p.(OnStakeToPayToggled); ok {
		r.onStakeToPayToggled = append(r.onStakeToPayToggled, v)
	}
	if v, ok := p.(OnPlanCreated); ok {
		r.onPlanCreated = append(r.onPlanCreated, v)
	}
	if v, ok := p.(OnPlanUpdated); ok {
		r.onPlanUpdated = append(r.onPlanUpdated, v)
	}
	if v, ok := p.(OnSubscriptionCreated); ok {
		r.onSubscriptionCreated = append(r.onSubscriptionCreated, v)
	}
	if v, ok := p.(OnSubscriptionCanceled); ok {
		r.onSubscriptionCanceled = append(r.onSubscriptionCanceled, v)
	}
	if v, ok := p.(OnUsageRecorded); ok {
		r.onUsageRecorded = append(r.onUsageRecorded, v)
	}
	if v, ok := p.(OnPeriodClosed); ok {
		r.onPeriodClosed = append(r.onPeriodClosed, v)
	}
	if v, ok := p.(OnInvoiceGenerated); ok {
		r.onInvoiceGenerated = append(r.onInvoiceGenerated, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnInvoiceFailed); ok {
		r.onInvoiceFailed = append(r.onInvoiceFailed, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", r.getImplementedInterfaces(p),
	)

	return nil
}

// getImplementedInterfaces returns a list of interfaces implemented by the plugin.
func (r *Registry) getImplementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	// Check each interface
	checkInterface := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	// List all interfaces to check
	checkInterface(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	checkInterface(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	checkInterface(reflect.TypeOf((*OnStakeDeposited)(nil)).Elem(), "OnStakeDeposited")
	checkInterface(reflect.TypeOf((*OnRewardsAccrued)(nil)).Elem(), "OnRewardsAccrued")
	checkInterface(reflect.TypeOf((*OnPlanCreated)(nil)).Elem(), "OnPlanCreated")
	checkInterface(reflect.TypeOf((*OnSubscriptionCreated)(nil)).Elem(), "OnSubscriptionCreated")
	checkInterface(reflect.TypeOf((*OnUsageRecorded)(nil)).Elem(), "OnUsageRecorded")
	checkInterface(reflect.TypeOf((*OnPeriodClosed)(nil)).Elem(), "OnPeriodClosed")
	checkInterface(reflect.TypeOf((*OnInvoiceGenerated)(nil)).Elem(), "OnInvoiceGenerated")
	checkInterface(reflect.TypeOf((*OnInvoicePaid)(nil)).Elem(), "OnInvoicePaid")

	return interfaces
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("plugin OnInit failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("plugin OnShutdown failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStakeDeposited emits a stake deposited event.
func (r *Registry) EmitStakeDeposited(ctx context.Context, owner types.Address, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onStakeDeposited
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStakeDeposited(ctx, owner, amount)
		}); err != nil {
			r.logger.Warn("plugin OnStakeDeposited failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStakeWithdrawn emits a stake withdrawn event.
func (r *Registry) EmitStakeWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onStakeWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStakeWithdrawn(ctx, owner, amount)
		}); err != nil {
			r.logger.Warn("plugin OnStakeWithdrawn failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRewardsAccrued emits a rewards accrued event.
func (r *Registry) EmitRewardsAccrued(ctx context.Context, owner types.Address, minted types.Amount) {
	r.mu.RLock()
	plugins := r.onRewardsAccrued
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRewardsAccrued(ctx, owner, minted)
		}); err != nil {
			r.logger.Warn("plugin OnRewardsAccrued failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitRewardsWithdrawn emits a rewards withdrawn event.
func (r *Registry) EmitRewardsWithdrawn(ctx context.Context, owner types.Address, amount types.Amount) {
	r.mu.RLock()
	plugins := r.onRewardsWithdrawn
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnRewardsWithdrawn(ctx, owner, amount)
		}); err != nil {
			r.logger.Warn("plugin OnRewardsWithdrawn failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitStakeToPayToggled emits a stake-to-pay toggled event.
func (r *Registry) EmitStakeToPayToggled(ctx context.Context, owner types.Address, enabled bool) {
	r.mu.RLock()
	plugins := r.onStakeToPayToggled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnStakeToPayToggled(ctx, owner, enabled)
		}); err != nil {
			r.logger.Warn("plugin OnStakeToPayToggled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPlanCreated emits a plan created event.
func (r *Registry) EmitPlanCreated(ctx context.Context, plan interface{}) {
	r.mu.RLock()
	plugins := r.onPlanCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPlanCreated(ctx, plan)
		}); err != nil {
			r.logger.Warn("plugin OnPlanCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPlanUpdated emits a plan updated event.
func (r *Registry) EmitPlanUpdated(ctx context.Context, oldPlan, newPlan interface{}) {
	r.mu.RLock()
	plugins := r.onPlanUpdated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPlanUpdated(ctx, oldPlan, newPlan)
		}); err != nil {
			r.logger.Warn("plugin OnPlanUpdated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSubscriptionCreated emits a subscription created event.
func (r *Registry) EmitSubscriptionCreated(ctx context.Context, sub interface{}) {
	r.mu.RLock()
	plugins := r.onSubscriptionCreated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSubscriptionCreated(ctx, sub)
		}); err != nil {
			r.logger.Warn("plugin OnSubscriptionCreated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitSubscriptionCanceled emits a subscription canceled event.
func (r *Registry) EmitSubscriptionCanceled(ctx context.Context, sub interface{}) {
	r.mu.RLock()
	plugins := r.onSubscriptionCanceled
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnSubscriptionCanceled(ctx, sub)
		}); err != nil {
			r.logger.Warn("plugin OnSubscriptionCanceled failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitUsageRecorded emits a usage recorded event.
func (r *Registry) EmitUsageRecorded(ctx context.Context, record interface{}) {
	r.mu.RLock()
	plugins := r.onUsageRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnUsageRecorded(ctx, record)
		}); err != nil {
			r.logger.Warn("plugin OnUsageRecorded failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitPeriodClosed emits a period closed event.
func (r *Registry) EmitPeriodClosed(ctx context.Context, period interface{}) {
	r.mu.RLock()
	plugins := r.onPeriodClosed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnPeriodClosed(ctx, period)
		}); err != nil {
			r.logger.Warn("plugin OnPeriodClosed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceGenerated emits an invoice generated event.
func (r *Registry) EmitInvoiceGenerated(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceGenerated
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceGenerated(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceGenerated failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv interface{}, pay interface{}) {
	r.mu.RLock()
	plugins := r.onInvoicePaid
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoicePaid(ctx, inv, pay)
		}); err != nil {
			r.logger.Warn("plugin OnInvoicePaid failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInvoiceFailed emits an invoice failed event.
func (r *Registry) EmitInvoiceFailed(ctx context.Context, inv interface{}) {
	r.mu.RLock()
	plugins := r.onInvoiceFailed
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return p.OnInvoiceFailed(ctx, inv)
		}); err != nil {
			r.logger.Warn("plugin OnInvoiceFailed failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the billing pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
