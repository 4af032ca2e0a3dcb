package forum

import (
	"time"

	"github.com/maktab-app/maktab/core/author"
)

// Forum is a named container of topics. Forums are created by the platform
// admins out of band; this layer only ever reads them.
type Forum struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

type Topic struct {
	ID         string      `json:"id" db:"id"`
	ForumID    string      `json:"forum_id" db:"forum_id"`
	AuthorID   string      `json:"author_id" db:"author_id"`
	AuthorRole author.Role `json:"author_role" db:"author_role"`
	Title      string      `json:"title" db:"title"`
	Content    string      `json:"content" db:"content"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

type Post struct {
	ID         string      `json:"id" db:"id"`
	TopicID    string      `json:"topic_id" db:"topic_id"`
	AuthorID   string      `json:"author_id" db:"author_id"`
	AuthorRole author.Role `json:"author_role" db:"author_role"`
	Content    string      `json:"content" db:"content"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewTopic contains information needed to create a new Topic.
type NewTopic struct {
	ForumID    string      `json:"forum_id" validate:"required,uuid4"`
	AuthorID   string      `json:"author_id" validate:"required,uuid4"`
	AuthorRole author.Role `json:"author_role" validate:"required,oneof=admin teacher parent student"`
	Title      string      `json:"title" validate:"required,min=3,max=255"`
	Content    string      `json:"content" validate:"required"`
}

// UpdateTopic carries a partial update; nil fields are left untouched.
type UpdateTopic struct {
	ForumID    *string      `json:"forum_id" validate:"omitempty,uuid4"`
	AuthorID   *string      `json:"author_id" validate:"omitempty,uuid4"`
	AuthorRole *author.Role `json:"author_role" validate:"omitempty,oneof=admin teacher parent student"`
	Title      *string      `json:"title" validate:"omitempty,min=3,max=255"`
	Content    *string      `json:"content" validate:"omitempty,min=1"`
}

type NewPost struct {
	TopicID    string      `json:"topic_id" validate:"required,uuid4"`
	AuthorID   string      `json:"author_id" validate:"required,uuid4"`
	AuthorRole author.Role `json:"author_role" validate:"required,oneof=admin teacher parent student"`
	Content    string      `json:"content" validate:"required"`
}

type UpdatePost struct {
	TopicID    *string      `json:"topic_id" validate:"omitempty,uuid4"`
	AuthorID   *string      `json:"author_id" validate:"omitempty,uuid4"`
	AuthorRole *author.Role `json:"author_role" validate:"omitempty,oneof=admin teacher parent student"`
	Content    *string      `json:"content" validate:"omitempty,min=1"`
}
