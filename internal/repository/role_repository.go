package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/daycare-backend/internal/model"
)

var ErrRoleNotFound = errors.New("role not found")

// RoleRepository handles role and permission data access.
type RoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

// GetPermissionsByRoleID retrieves all permission codes for a given role.
func (r *RoleRepository) GetPermissionsByRoleID(ctx context.Context, roleID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.code
		 FROM permissions p
		 JOIN role_permissions rp ON p.id = rp.permission_id
		 WHERE rp.role_id = $1
		 ORDER BY p.code`, roleID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		permissions = append(permissions, code)
	}
	return permissions, rows.Err()
}

// GetByName retrieves a role and its permissions.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	role := &model.Role{Name: name}
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&role.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}

	role.Permissions, err = r.GetPermissionsByRoleID(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// EnsureRole returns the ID of the named role, creating it when missing.
func (r *RoleRepository) EnsureRole(ctx context.Context, name string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO roles (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, name).Scan(&id)
	return id, err
}

// GrantPermissions assigns permission codes to a role, ignoring codes it already holds
// and codes missing from the permissions table.
func (r *RoleRepository) GrantPermissions(ctx context.Context, roleID int, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO role_permissions (role_id, permission_id)
		 SELECT $1, p.id FROM permissions p WHERE p.code = ANY($2)
		 ON CONFLICT DO NOTHING`, roleID, codes)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SyncPermissionCodes makes sure every code exists in the permissions table.
func (r *RoleRepository) SyncPermissionCodes(ctx context.Context, codes []string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO permissions (code) SELECT UNNEST($1::text[]) ON CONFLICT (code) DO NOTHING`, codes)
	return err
}
