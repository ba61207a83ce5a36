package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the occupancy state of a table
type Status string

const (
	StatusEmpty    Status = "EMPTY"
	StatusOccupied Status = "OCCUPIED"
	StatusMerged   Status = "MERGED"
)

// Table is a physical table customers order from.
//
// A MERGED member points at its main table through MergedIntoID. The main
// table of a group is MERGED too, with a nil MergedIntoID. EMPTY and OCCUPIED
// tables never carry a pointer.
type Table struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Status       Status    `json:"status" gorm:"type:varchar(16);not null;default:EMPTY;index"`
	MergedIntoID *string   `json:"merged_into_id" gorm:"type:varchar(64);index"`
	MergedInto   *Table    `json:"-" gorm:"foreignKey:MergedIntoID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Table) TableName() string {
	return "cafe_tables"
}

// BeforeCreate assigns an id when the caller did not
func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = StatusEmpty
	}
	return nil
}

// IsMergeMain reports whether t heads a merge group
func (t *Table) IsMergeMain() bool {
	return t.Status == StatusMerged && t.MergedIntoID == nil
}

// Valid reports whether the status and merge pointer agree
func (t *Table) Valid() bool {
	switch t.Status {
	case StatusEmpty, StatusOccupied:
		return t.MergedIntoID == nil
	case StatusMerged:
		return t.MergedIntoID == nil || *t.MergedIntoID != t.ID
	default:
		return false
	}
}

// Repository defines the contract for table data access
type Repository interface {
	Create(ctx context.Context, table *Table) error
	FindByID(ctx context.Context, id string) (*Table, error)
	FindByIDs(ctx context.Context, ids []string) ([]Table, error)
	FindAll(ctx context.Context) ([]Table, error)
	// LockByID reads the table and holds a row lock until the surrounding transaction ends
	LockByID(ctx context.Context, id string) (*Table, error)
	// UpdateStatusIf moves the table to status only when its current status is one of from.
	// It reports whether a row changed.
	UpdateStatusIf(ctx context.Context, id string, status Status, from ...Status) (bool, error)
	SetState(ctx context.Context, id string, status Status, mergedInto *string) error
	CountMembers(ctx context.Context, mainID string) (int64, error)
}

// ActiveOrderCounter counts orders on a table that are not yet terminal
type ActiveOrderCounter interface {
	CountActiveByTable(ctx context.Context, tableID string) (int64, error)
}
