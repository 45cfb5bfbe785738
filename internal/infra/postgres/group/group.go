package infra_postgres_group

import (
	"context"

	"github.com/google/uuid"
	"github.com/humanbelnik/wannawatch/core/internal/model"
	"github.com/jmoiron/sqlx"
)

// Driver is a read view over group rosters. Create and AddMember are used
// for seeding only; membership is managed by the groups service.
type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type memberDTO struct {
	GroupID uuid.UUID `db:"group_id"`
	UserID  uuid.UUID `db:"user_id"`
	Role    string    `db:"role"`
}

func (d *Driver) Create(ctx context.Context, g model.Group) error {
	query := `INSERT INTO watch_groups (id, name, created_by) VALUES ($1, $2, $3)`
	_, err := d.db.ExecContext(ctx, query, g.ID, g.Name, g.CreatedBy)
	return err
}

func (d *Driver) AddMember(ctx context.Context, m model.Member) error {
	query := `
		INSERT INTO group_members (group_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := d.db.ExecContext(ctx, query, m.GroupID, m.UserID, string(m.Role))
	return err
}

// Members returns the current roster.
func (d *Driver) Members(ctx context.Context, groupID uuid.UUID) ([]model.Member, error) {
	var dtos []memberDTO

	query := `
		SELECT group_id, user_id, role
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at, user_id
	`

	if err := d.db.SelectContext(ctx, &dtos, query, groupID); err != nil {
		return nil, err
	}

	members := make([]model.Member, 0, len(dtos))
	for _, dto := range dtos {
		members = append(members, model.Member{
			GroupID: dto.GroupID,
			UserID:  dto.UserID,
			Role:    model.Role(dto.Role),
		})
	}
	return members, nil
}

func (d *Driver) IsMember(ctx context.Context, groupID uuid.UUID, userID uuid.UUID) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	if err := d.db.GetContext(ctx, &exists, query, groupID, userID); err != nil {
		return false, err
	}
	return exists, nil
}
