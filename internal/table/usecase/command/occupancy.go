package command

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tair/qr-order/internal/notifier"
	"github.com/tair/qr-order/internal/table/domain"
	"github.com/tair/qr-order/pkg/apperr"
	"github.com/tair/qr-order/pkg/database"
	"github.com/tair/qr-order/pkg/logger"
)

// Manager owns table occupancy and merge state
type Manager struct {
	repo     domain.Repository
	orders   domain.ActiveOrderCounter
	tx       *database.Transactor
	notifier notifier.Publisher
}

// NewManager creates a new table occupancy manager
func NewManager(
	repo domain.Repository,
	orders domain.ActiveOrderCounter,
	tx *database.Transactor,
	publisher notifier.Publisher,
) *Manager {
	return &Manager{repo: repo, orders: orders, tx: tx, notifier: publisher}
}

// lock loads and locks a table, reporting unknown ids as ErrInvalidTable
func (m *Manager) lock(ctx context.Context, id string) (*domain.Table, error) {
	t, err := m.repo.LockByID(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%w: table %s does not exist", apperr.ErrInvalidTable, id)
	}
	return t, err
}

// lockAll locks tables in id order so overlapping merges cannot deadlock
func (m *Manager) lockAll(ctx context.Context, ids []string) (map[string]*domain.Table, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	locked := make(map[string]*domain.Table, len(sorted))
	for _, id := range sorted {
		t, err := m.lock(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = t
	}
	return locked, nil
}

// MarkOccupied moves an EMPTY table to OCCUPIED. An OCCUPIED table is left
// as is, and a MERGED table stays MERGED.
func (m *Manager) MarkOccupied(ctx context.Context, tableID string) error {
	return m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		t, err := m.lock(ctx, tableID)
		if err != nil {
			return err
		}
		if t.Status != domain.StatusEmpty {
			return nil
		}

		if _, err := m.repo.UpdateStatusIf(ctx, tableID, domain.StatusOccupied, domain.StatusEmpty); err != nil {
			return err
		}
		logger.Debug(ctx).Str("table_id", tableID).Msg("Table occupied")
		return nil
	})
}

// ReleaseIfNoActiveOrders moves an OCCUPIED table back to EMPTY when none of
// its orders is still active. It reports whether the table was freed.
func (m *Manager) ReleaseIfNoActiveOrders(ctx context.Context, tableID string) (bool, error) {
	released := false
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		t, err := m.lock(ctx, tableID)
		if err != nil {
			return err
		}
		if t.Status != domain.StatusOccupied {
			return nil
		}

		active, err := m.orders.CountActiveByTable(ctx, tableID)
		if err != nil {
			return fmt.Errorf("failed to count active orders: %w", err)
		}
		if active > 0 {
			logger.Debug(ctx).
				Str("table_id", tableID).
				Int64("active_orders", active).
				Msg("Table kept occupied")
			return nil
		}

		released, err = m.repo.UpdateStatusIf(ctx, tableID, domain.StatusEmpty, domain.StatusOccupied)
		return err
	})
	if err != nil {
		return false, err
	}

	if released {
		logger.Info(ctx).Str("table_id", tableID).Msg("Table released")
	}
	return released, nil
}

// MergeCommand groups member tables under a main table
type MergeCommand struct {
	MainTableID    string
	MemberTableIDs []string
}

// Merge marks the main table MERGED with no target and each member MERGED
// into the main table, all in one transaction. The main table is skipped if
// listed as a member. Chains are rejected: a member may not head another
// group or belong to one, and the main table may not belong to one.
func (m *Manager) Merge(ctx context.Context, cmd MergeCommand) ([]domain.Table, error) {
	if cmd.MainTableID == "" {
		return nil, fmt.Errorf("%w: main table is required", apperr.ErrInvalidPayload)
	}
	if len(cmd.MemberTableIDs) == 0 {
		return nil, fmt.Errorf("%w: no tables to merge", apperr.ErrInvalidPayload)
	}

	members := make([]string, 0, len(cmd.MemberTableIDs))
	seen := map[string]bool{cmd.MainTableID: true}
	for _, id := range cmd.MemberTableIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: no tables to merge besides the main table", apperr.ErrInvalidPayload)
	}

	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := m.lockAll(ctx, append([]string{cmd.MainTableID}, members...))
		if err != nil {
			return err
		}

		mainTable := locked[cmd.MainTableID]
		if mainTable.MergedIntoID != nil {
			return fmt.Errorf("%w: table %s is merged into %s", apperr.ErrInvalidMerge, mainTable.Name, *mainTable.MergedIntoID)
		}

		for _, id := range members {
			t := locked[id]
			if t.MergedIntoID != nil && *t.MergedIntoID != mainTable.ID {
				return fmt.Errorf("%w: table %s is already merged into another table", apperr.ErrInvalidMerge, t.Name)
			}
			if t.IsMergeMain() {
				n, err := m.repo.CountMembers(ctx, t.ID)
				if err != nil {
					return fmt.Errorf("failed to count merged tables: %w", err)
				}
				if n > 0 {
					return fmt.Errorf("%w: table %s heads another merge group", apperr.ErrInvalidMerge, t.Name)
				}
			}
		}

		if err := m.repo.SetState(ctx, mainTable.ID, domain.StatusMerged, nil); err != nil {
			return err
		}
		mainID := mainTable.ID
		for _, id := range members {
			if err := m.repo.SetState(ctx, id, domain.StatusMerged, &mainID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("main_table_id", cmd.MainTableID).
		Strs("member_table_ids", members).
		Msg("Tables merged")

	m.notifier.Publish(ctx, notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventStaffBroadcast,
		TableID: cmd.MainTableID,
		Message: "Tables merged",
		Data: map[string]interface{}{
			"kind":    "tables-merged",
			"main":    cmd.MainTableID,
			"members": members,
		},
	})

	return m.repo.FindByIDs(ctx, append([]string{cmd.MainTableID}, members...))
}

// SplitCommand resets the listed tables
type SplitCommand struct {
	TableIDs []string
}

// Split resets every listed table to EMPTY with no merge target, whatever its
// prior state, in one transaction.
func (m *Manager) Split(ctx context.Context, cmd SplitCommand) ([]domain.Table, error) {
	if len(cmd.TableIDs) == 0 {
		return nil, fmt.Errorf("%w: no tables to split", apperr.ErrInvalidPayload)
	}

	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := m.lockAll(ctx, cmd.TableIDs); err != nil {
			return err
		}
		for _, id := range cmd.TableIDs {
			if err := m.repo.SetState(ctx, id, domain.StatusEmpty, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).Strs("table_ids", cmd.TableIDs).Msg("Tables split")

	m.notifier.Publish(ctx, notifier.StaffChannel, notifier.Event{
		Type:    notifier.EventStaffBroadcast,
		Message: "Tables split",
		Data: map[string]interface{}{
			"kind":   "tables-split",
			"tables": cmd.TableIDs,
		},
	})

	return m.repo.FindByIDs(ctx, cmd.TableIDs)
}
