package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core/author"
)

// roleTables maps a role to the table holding its rows. Table names are
// fixed at compile time; only values are ever interpolated into queries.
var roleTables = map[author.Role]string{
	author.RoleAdmin:   "admins",
	author.RoleTeacher: "teachers",
	author.RoleParent:  "parents",
	author.RoleStudent: "students",
}

type directory struct {
	db *sqlx.DB
}

var _ author.Directory = (*directory)(nil) // interface compliance check

func NewDirectory(db *sqlx.DB) *directory {
	return &directory{db: db}
}

func (dir *directory) exists(ctx context.Context, role author.Role, id string) (bool, error) {
	var exists bool
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", roleTables[role])
	if err := dir.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrapf(err, "checking %s", role)
	}
	return exists, nil
}

func (dir *directory) AdminExists(ctx context.Context, id string) (bool, error) {
	return dir.exists(ctx, author.RoleAdmin, id)
}

func (dir *directory) TeacherExists(ctx context.Context, id string) (bool, error) {
	return dir.exists(ctx, author.RoleTeacher, id)
}

func (dir *directory) ParentExists(ctx context.Context, id string) (bool, error) {
	return dir.exists(ctx, author.RoleParent, id)
}

func (dir *directory) StudentExists(ctx context.Context, id string) (bool, error) {
	return dir.exists(ctx, author.RoleStudent, id)
}

func (dir *directory) GetByEmail(ctx context.Context, role author.Role, email string) (author.Person, error) {
	table, ok := roleTables[role]
	if !ok {
		return author.Person{}, author.ErrNotFound
	}

	var p author.Person
	q := fmt.Sprintf("SELECT * FROM %s WHERE email = $1", table)
	if err := dir.db.GetContext(ctx, &p, q, email); err != nil {
		if err == sql.ErrNoRows {
			return author.Person{}, author.ErrNotFound
		}
		return author.Person{}, errors.Wrapf(err, "finding %s by email", role)
	}
	return p, nil
}

func (dir *directory) CreateAdmin(ctx context.Context, p author.Person) (author.Person, error) {
	p.ID = uuid.New().String()
	q := `INSERT INTO admins (id, name, email, password_hash, created_at, updated_at)
	      VALUES (:id, :name, :email, :password_hash, :created_at, :updated_at)`
	if _, err := dir.db.NamedExecContext(ctx, q, p); err != nil {
		return author.Person{}, errors.Wrap(err, "inserting admin")
	}
	return p, nil
}
