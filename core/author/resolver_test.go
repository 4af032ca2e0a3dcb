package author_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maktab-app/maktab/core/author"
	dummydb "github.com/maktab-app/maktab/storage/database/dummy"
)

func TestResolve(t *testing.T) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	dir := dummydb.NewDirectory(db)

	admin := dir.AddPerson(author.RoleAdmin, author.Person{Name: "Alia"})
	teacher := dir.AddPerson(author.RoleTeacher, author.Person{Name: "Bakr"})
	parent := dir.AddPerson(author.RoleParent, author.Person{Name: "Chadia"})
	student := dir.AddPerson(author.RoleStudent, author.Person{Name: "Daud"})

	resolver := author.NewResolver(dir)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		role author.Role
		want bool
	}{
		{"admin found", admin.ID, author.RoleAdmin, true},
		{"teacher found", teacher.ID, author.RoleTeacher, true},
		{"parent found", parent.ID, author.RoleParent, true},
		{"student found", student.ID, author.RoleStudent, true},
		{"id in wrong table", admin.ID, author.RoleStudent, false},
		{"unknown id", "4cc13f75-5ad4-4f6b-b4a2-ec92f5f1b985", author.RoleTeacher, false},
		{"unknown role", student.ID, author.Role("staff"), false},
		{"empty role", student.ID, author.Role(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := resolver.Resolve(ctx, tt.id, tt.role)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRoleKnown(t *testing.T) {
	for _, role := range author.KnownRoles {
		assert.True(t, role.Known())
	}
	assert.False(t, author.Role("staff").Known())
	assert.False(t, author.Role("").Known())
}
