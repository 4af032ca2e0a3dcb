package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/maktab-app/maktab/core/author"
)

type directory struct {
	db *personTables
}

var _ author.Directory = (*directory)(nil) // interface compliance check

func NewDirectory(db *DB) *directory {
	return &directory{db: db.persons}
}

func (dir *directory) table(role author.Role) map[string]*author.Person {
	switch role {
	case author.RoleAdmin:
		return dir.db.admins
	case author.RoleTeacher:
		return dir.db.teachers
	case author.RoleParent:
		return dir.db.parents
	case author.RoleStudent:
		return dir.db.students
	}
	return nil
}

func (dir *directory) exists(role author.Role, id string) (bool, error) {
	dir.db.RLock()
	defer dir.db.RUnlock()
	_, ok := dir.table(role)[id]
	return ok, nil
}

func (dir *directory) AdminExists(_ context.Context, id string) (bool, error) {
	return dir.exists(author.RoleAdmin, id)
}

func (dir *directory) TeacherExists(_ context.Context, id string) (bool, error) {
	return dir.exists(author.RoleTeacher, id)
}

func (dir *directory) ParentExists(_ context.Context, id string) (bool, error) {
	return dir.exists(author.RoleParent, id)
}

func (dir *directory) StudentExists(_ context.Context, id string) (bool, error) {
	return dir.exists(author.RoleStudent, id)
}

func (dir *directory) GetByEmail(_ context.Context, role author.Role, email string) (author.Person, error) {
	dir.db.RLock()
	defer dir.db.RUnlock()

	for _, p := range dir.table(role) {
		if p.Email == email {
			return *p, nil
		}
	}
	return author.Person{}, author.ErrNotFound
}

func (dir *directory) CreateAdmin(_ context.Context, p author.Person) (author.Person, error) {
	return dir.AddPerson(author.RoleAdmin, p), nil
}

// AddPerson inserts p into the table selected by role; test seeding helper.
func (dir *directory) AddPerson(role author.Role, p author.Person) author.Person {
	dir.db.Lock()
	defer dir.db.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	dir.table(role)[p.ID] = &p
	return p
}
