package author

import "context"

type lookupFunc func(ctx context.Context, id string) (bool, error)

// Resolver resolves an (id, role) pair against the role-partitioned person
// tables through an explicit role → lookup dispatch table.
type Resolver struct {
	lookups map[Role]lookupFunc
}

func NewResolver(dir Directory) *Resolver {
	return &Resolver{
		lookups: map[Role]lookupFunc{
			RoleAdmin:   dir.AdminExists,
			RoleTeacher: dir.TeacherExists,
			RoleParent:  dir.ParentExists,
			RoleStudent: dir.StudentExists,
		},
	}
}

// Resolve reports whether a person with the given id exists in the table
// selected by role. A role outside the known set resolves to false without
// error; it is rejected downstream the same way a nonexistent author is.
// Store errors propagate as-is so callers can tell a transient failure from
// a missing row.
func (r *Resolver) Resolve(ctx context.Context, id string, role Role) (bool, error) {
	lookup, ok := r.lookups[role]
	if !ok {
		return false, nil
	}
	return lookup(ctx, id)
}
