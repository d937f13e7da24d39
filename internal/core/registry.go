package core

import (
	"fmt"
	"log/slog"
	"sync"
)

// Wrap installs a spy on the func slot method of target. The spy forwards to
// the original func until Returns or Throws is configured on it.
//
// Targets are pointers to structs with an exported field named method, or
// string-keyed maps whose entry method exists. The field or entry must hold a
// non-nil func, either directly or inside an interface value such as any.
// Wrap fails with ErrTarget for anything else, and for a slot that already
// holds a double.
//
// An installed double is remembered process-wide until Restore, which keeps
// the target reachable. Pair Wrap with Restore or RestoreOnCleanup.
func Wrap(target any, method string, opts ...Option) (*Double, error) {
	return wrap(KindSpy, target, method, opts)
}

// WrapStub installs a stub on the func slot method of target. The stub does
// nothing and returns zero values until configured.
func WrapStub(target any, method string, opts ...Option) (*Double, error) {
	return wrap(KindStub, target, method, opts)
}

// Restore writes the original func back into the slot and detaches the double.
// It fails with ErrRestore when the double is not installed.
func (d *Double) Restore() error {
	d.mu.Lock()
	inst := d.install
	d.install = nil
	d.mu.Unlock()

	if inst == nil {
		return fmt.Errorf("%w: %s", ErrRestore, d)
	}

	inst.slot.store(inst.original)
	releaseSlot(inst.slot.key(), d)

	d.logger.Debug("double restored", slog.String("double", d.String()), slog.String("slot", inst.slot.String()))

	return nil
}

// unexported variables.
var (
	// Go func values carry no identity, so the only way to tell that a slot
	// already holds a double is to remember which slots are occupied.
	// Entries live from install to restore.
	//nolint:gochecknoglobals // occupied slots, owned by the doubles that installed them
	installed = make(map[slotKey]*Double)
	//nolint:gochecknoglobals // Mutex for installed
	installedMu sync.Mutex
)

// claimSlot records d as the occupant of key, failing if another double holds it.
func claimSlot(key slotKey, description string, d *Double) error {
	installedMu.Lock()
	defer installedMu.Unlock()

	if owner, ok := installed[key]; ok {
		return fmt.Errorf("%w: %s is already wrapped by %s", ErrTarget, description, owner)
	}

	installed[key] = d

	return nil
}

func releaseSlot(key slotKey, d *Double) {
	installedMu.Lock()
	defer installedMu.Unlock()

	if installed[key] == d {
		delete(installed, key)
	}
}

func wrap(kind Kind, target any, method string, opts []Option) (*Double, error) {
	resolved, err := resolveSlot(target, method)
	if err != nil {
		return nil, err
	}

	original := resolved.load()
	cfg := newConfig(append([]Option{WithName(method)}, opts...))
	d := newDouble(kind, original.Type(), cfg)
	d.receiver = target

	if kind == KindSpy {
		d.plan = plan{behavior: behaveDelegate, delegate: original}
	}

	err = claimSlot(resolved.key(), resolved.String(), d)
	if err != nil {
		return nil, err
	}

	d.install = &installation{slot: resolved, original: original}
	resolved.store(d.fn)

	d.logger.Debug("double installed", slog.String("double", d.String()), slog.String("slot", resolved.String()))

	return d, nil
}
