package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/maktab-app/maktab/core/forum"
)

type forumRepository struct {
	db *forumTables
}

var _ forum.Repository = (*forumRepository)(nil) // interface compliance check

func NewForumRepository(db *DB) *forumRepository {
	return &forumRepository{db: db.forums}
}

// Forums

func (repo *forumRepository) QueryForums(_ context.Context) ([]forum.Forum, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	forums := make([]forum.Forum, 0, len(repo.db.forums))
	for _, f := range repo.db.forums {
		forums = append(forums, *f)
	}
	return forums, nil
}

func (repo *forumRepository) ForumExists(_ context.Context, id string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.forums[id]
	return ok, nil
}

// AddForum inserts a forum; test seeding helper (forums are created out of
// band in production).
func (repo *forumRepository) AddForum(f forum.Forum) forum.Forum {
	repo.db.Lock()
	defer repo.db.Unlock()

	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	repo.db.forums[f.ID] = &f
	return f
}

// Topics

func (repo *forumRepository) CreateTopic(_ context.Context, topic forum.Topic) (forum.Topic, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	topic.ID = uuid.New().String()
	repo.db.topics[topic.ID] = &topic
	return topic, nil
}

func (repo *forumRepository) QueryTopics(_ context.Context) ([]forum.Topic, error) {
	return repo.QueryTopicsByForum(nil, "")
}

func (repo *forumRepository) QueryTopicsByForum(_ context.Context, forumID string) ([]forum.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	topics := make([]forum.Topic, 0, len(repo.db.topics))
	for _, t := range repo.db.topics {
		if forumID == "" || t.ForumID == forumID {
			topics = append(topics, *t)
		}
	}
	return topics, nil
}

func (repo *forumRepository) GetTopicByID(_ context.Context, id string) (forum.Topic, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.topics[id]; ok {
		return *t, nil
	}
	return forum.Topic{}, forum.ErrTopicNotFound
}

func (repo *forumRepository) TopicExists(_ context.Context, id string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	_, ok := repo.db.topics[id]
	return ok, nil
}

func (repo *forumRepository) UpdateTopic(_ context.Context, topic forum.Topic) (forum.Topic, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.topics[topic.ID]; !ok {
		return forum.Topic{}, forum.ErrTopicNotFound
	}
	repo.db.topics[topic.ID] = &topic
	return topic, nil
}

func (repo *forumRepository) DeleteTopic(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.topics[id]; !ok {
		return forum.ErrTopicNotFound
	}
	delete(repo.db.topics, id)
	return nil
}

// Posts

func (repo *forumRepository) CreatePost(_ context.Context, post forum.Post) (forum.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	post.ID = uuid.New().String()
	repo.db.posts[post.ID] = &post
	return post, nil
}

func (repo *forumRepository) QueryPosts(_ context.Context) ([]forum.Post, error) {
	return repo.QueryPostsByTopic(nil, "")
}

func (repo *forumRepository) QueryPostsByTopic(_ context.Context, topicID string) ([]forum.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	posts := make([]forum.Post, 0, len(repo.db.posts))
	for _, p := range repo.db.posts {
		if topicID == "" || p.TopicID == topicID {
			posts = append(posts, *p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.Before(posts[j].CreatedAt) })
	return posts, nil
}

func (repo *forumRepository) GetPostByID(_ context.Context, id string) (forum.Post, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.posts[id]; ok {
		return *p, nil
	}
	return forum.Post{}, forum.ErrPostNotFound
}

func (repo *forumRepository) UpdatePost(_ context.Context, post forum.Post) (forum.Post, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.posts[post.ID]; !ok {
		return forum.Post{}, forum.ErrPostNotFound
	}
	repo.db.posts[post.ID] = &post
	return post, nil
}

func (repo *forumRepository) DeletePost(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.posts[id]; !ok {
		return forum.ErrPostNotFound
	}
	delete(repo.db.posts, id)
	return nil
}
