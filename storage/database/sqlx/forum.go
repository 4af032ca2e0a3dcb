package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core/forum"
)

type forumRepository struct {
	db *sqlx.DB
}

var _ forum.Repository = (*forumRepository)(nil) // interface compliance check

func NewForumRepository(db *sqlx.DB) *forumRepository {
	return &forumRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to the given domain not-found error.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// Forums

func (repo *forumRepository) QueryForums(ctx context.Context) ([]forum.Forum, error) {
	forums := make([]forum.Forum, 0)
	if err := repo.db.SelectContext(ctx, &forums, "SELECT * FROM forums"); err != nil {
		return nil, errors.Wrap(err, "querying forums")
	}
	return forums, nil
}

func (repo *forumRepository) ForumExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM forums WHERE id = $1)"
	if err := repo.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrap(err, "checking forum")
	}
	return exists, nil
}

// Topics

func (repo *forumRepository) CreateTopic(ctx context.Context, topic forum.Topic) (forum.Topic, error) {
	topic.ID = uuid.New().String()
	q := `INSERT INTO topics (id, forum_id, author_id, author_role, title, content, created_at, updated_at)
	      VALUES (:id, :forum_id, :author_id, :author_role, :title, :content, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, topic); err != nil {
		return forum.Topic{}, errors.Wrap(err, "inserting topic")
	}
	return topic, nil
}

func (repo *forumRepository) QueryTopics(ctx context.Context) ([]forum.Topic, error) {
	topics := make([]forum.Topic, 0)
	if err := repo.db.SelectContext(ctx, &topics, "SELECT * FROM topics"); err != nil {
		return nil, errors.Wrap(err, "querying topics")
	}
	return topics, nil
}

func (repo *forumRepository) QueryTopicsByForum(ctx context.Context, forumID string) ([]forum.Topic, error) {
	topics := make([]forum.Topic, 0)
	q := "SELECT * FROM topics WHERE forum_id = $1"
	if err := repo.db.SelectContext(ctx, &topics, q, forumID); err != nil {
		return nil, errors.Wrap(err, "querying topics by forum")
	}
	return topics, nil
}

func (repo *forumRepository) GetTopicByID(ctx context.Context, id string) (forum.Topic, error) {
	var topic forum.Topic
	if err := repo.db.GetContext(ctx, &topic, "SELECT * FROM topics WHERE id = $1", id); err != nil {
		return forum.Topic{}, trapNoRowsErr(err, forum.ErrTopicNotFound, "getting topic")
	}
	return topic, nil
}

func (repo *forumRepository) TopicExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM topics WHERE id = $1)"
	if err := repo.db.GetContext(ctx, &exists, q, id); err != nil {
		return false, errors.Wrap(err, "checking topic")
	}
	return exists, nil
}

func (repo *forumRepository) UpdateTopic(ctx context.Context, topic forum.Topic) (forum.Topic, error) {
	q := `UPDATE topics
	      SET forum_id = :forum_id, author_id = :author_id, author_role = :author_role,
	          title = :title, content = :content, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, topic)
	if err != nil {
		return forum.Topic{}, errors.Wrap(err, "updating topic")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.Topic{}, forum.ErrTopicNotFound
	}
	return topic, nil
}

func (repo *forumRepository) DeleteTopic(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM topics WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting topic")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.ErrTopicNotFound
	}
	return nil
}

// Posts

func (repo *forumRepository) CreatePost(ctx context.Context, post forum.Post) (forum.Post, error) {
	post.ID = uuid.New().String()
	q := `INSERT INTO posts (id, topic_id, author_id, author_role, content, created_at, updated_at)
	      VALUES (:id, :topic_id, :author_id, :author_role, :content, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, post); err != nil {
		return forum.Post{}, errors.Wrap(err, "inserting post")
	}
	return post, nil
}

func (repo *forumRepository) QueryPosts(ctx context.Context) ([]forum.Post, error) {
	posts := make([]forum.Post, 0)
	q := "SELECT * FROM posts ORDER BY created_at ASC"
	if err := repo.db.SelectContext(ctx, &posts, q); err != nil {
		return nil, errors.Wrap(err, "querying posts")
	}
	return posts, nil
}

func (repo *forumRepository) QueryPostsByTopic(ctx context.Context, topicID string) ([]forum.Post, error) {
	posts := make([]forum.Post, 0)
	q := "SELECT * FROM posts WHERE topic_id = $1 ORDER BY created_at ASC"
	if err := repo.db.SelectContext(ctx, &posts, q, topicID); err != nil {
		return nil, errors.Wrap(err, "querying posts by topic")
	}
	return posts, nil
}

func (repo *forumRepository) GetPostByID(ctx context.Context, id string) (forum.Post, error) {
	var post forum.Post
	if err := repo.db.GetContext(ctx, &post, "SELECT * FROM posts WHERE id = $1", id); err != nil {
		return forum.Post{}, trapNoRowsErr(err, forum.ErrPostNotFound, "getting post")
	}
	return post, nil
}

func (repo *forumRepository) UpdatePost(ctx context.Context, post forum.Post) (forum.Post, error) {
	q := `UPDATE posts
	      SET topic_id = :topic_id, author_id = :author_id, author_role = :author_role,
	          content = :content, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, post)
	if err != nil {
		return forum.Post{}, errors.Wrap(err, "updating post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.Post{}, forum.ErrPostNotFound
	}
	return post, nil
}

func (repo *forumRepository) DeletePost(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting post")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return forum.ErrPostNotFound
	}
	return nil
}
