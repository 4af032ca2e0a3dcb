package dummydb

import (
	"sync"

	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
	"github.com/maktab-app/maktab/core/forum"
)

type (
	// DB is an in-memory stand-in for the relational store, used by tests
	// and local tooling.
	DB struct {
		persons     *personTables
		forums      *forumTables
		enrollments *enrollmentTable
		payments    *paymentTable
	}

	personTables struct {
		sync.RWMutex
		admins   map[string]*author.Person
		teachers map[string]*author.Person
		parents  map[string]*author.Person
		students map[string]*author.Person
	}

	forumTables struct {
		sync.RWMutex
		forums map[string]*forum.Forum
		topics map[string]*forum.Topic
		posts  map[string]*forum.Post
	}

	enrollmentTable struct {
		sync.RWMutex
		table map[string]*billing.Enrollment
	}

	paymentTable struct {
		sync.RWMutex
		table map[string]*billing.Payment
	}
)

func Open() (*DB, error) {
	db := &DB{
		persons: &personTables{
			admins:   make(map[string]*author.Person),
			teachers: make(map[string]*author.Person),
			parents:  make(map[string]*author.Person),
			students: make(map[string]*author.Person),
		},
		forums: &forumTables{
			forums: make(map[string]*forum.Forum),
			topics: make(map[string]*forum.Topic),
			posts:  make(map[string]*forum.Post),
		},
		enrollments: &enrollmentTable{table: make(map[string]*billing.Enrollment)},
		payments:    &paymentTable{table: make(map[string]*billing.Payment)},
	}
	return db, nil
}
