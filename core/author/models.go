package author

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("person not found")

// Role selects one of the four disjoint person tables. There is no shared
// person table: an (id, role) pair is valid iff a row with that id exists in
// the table the role selects, even when ids collide across tables.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleStudent Role = "student"
)

var KnownRoles = []Role{RoleAdmin, RoleTeacher, RoleParent, RoleStudent}

func (r Role) Known() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Person is a row in one of the four role tables.
type Person struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (p *Person) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = hash
	return nil
}

func (p *Person) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(p.PasswordHash, []byte(pwd))
}

// Directory is the persistence contract over the four person tables.
type Directory interface {
	AdminExists(ctx context.Context, id string) (bool, error)
	TeacherExists(ctx context.Context, id string) (bool, error)
	ParentExists(ctx context.Context, id string) (bool, error)
	StudentExists(ctx context.Context, id string) (bool, error)
	// GetByEmail fetches a person from the table selected by role;
	// returns ErrNotFound when no row matches.
	GetByEmail(ctx context.Context, role Role, email string) (Person, error)
	CreateAdmin(ctx context.Context, p Person) (Person, error)
}
