package forum

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
)

var (
	// errors
	ErrForumNotFound = core.NotFoundf("forum not found")
	ErrTopicNotFound = core.NotFoundf("topic not found")
	ErrPostNotFound  = core.NotFoundf("post not found")

	errAuthorPair = "author_id and author_role must be supplied together"
)

// cache key namespaces; a whole namespace is invalidated on any write.
const (
	topicCachePrefix = "topics"
	postCachePrefix  = "posts"
)

func topicListKey(forumID string) string {
	if forumID == "" {
		return topicCachePrefix + ":all"
	}
	return topicCachePrefix + ":forum:" + forumID
}

func postListKey(topicID string) string {
	if topicID == "" {
		return postCachePrefix + ":all"
	}
	return postCachePrefix + ":topic:" + topicID
}

type (
	Repository interface {
		QueryForums(ctx context.Context) ([]Forum, error)
		ForumExists(ctx context.Context, id string) (bool, error)

		CreateTopic(ctx context.Context, topic Topic) (Topic, error)
		QueryTopics(ctx context.Context) ([]Topic, error)
		// QueryTopicsByForum returns the forum's topics; no ordering is guaranteed.
		QueryTopicsByForum(ctx context.Context, forumID string) ([]Topic, error)
		GetTopicByID(ctx context.Context, id string) (Topic, error)
		TopicExists(ctx context.Context, id string) (bool, error)
		UpdateTopic(ctx context.Context, topic Topic) (Topic, error)
		DeleteTopic(ctx context.Context, id string) error

		CreatePost(ctx context.Context, post Post) (Post, error)
		// QueryPosts and QueryPostsByTopic return posts ascending by creation time.
		QueryPosts(ctx context.Context) ([]Post, error)
		QueryPostsByTopic(ctx context.Context, topicID string) ([]Post, error)
		GetPostByID(ctx context.Context, id string) (Post, error)
		UpdatePost(ctx context.Context, post Post) (Post, error)
		DeletePost(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		resolver *author.Resolver
		cache    core.Cache // nil-able; absence degrades to store reads
		logger   core.Logger
	}
)

func NewService(repo Repository, resolver *author.Resolver, cache core.Cache, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		cache:    cache,
		logger:   logger,
	}
}

// validateAuthor requires that (id, role) resolves to an existing person.
func (svc *Service) validateAuthor(ctx context.Context, id string, role author.Role) error {
	ok, err := svc.resolver.Resolve(ctx, id, role)
	if err != nil {
		return errors.Wrap(err, "resolving author")
	}
	if !ok {
		return core.NotFoundf("author with id %s and role %s not found", id, role)
	}
	return nil
}

func (svc *Service) validateForum(ctx context.Context, id string) error {
	ok, err := svc.repo.ForumExists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "checking forum")
	}
	if !ok {
		return ErrForumNotFound
	}
	return nil
}

func (svc *Service) validateTopicRef(ctx context.Context, id string) error {
	ok, err := svc.repo.TopicExists(ctx, id)
	if err != nil {
		return errors.Wrap(err, "checking topic")
	}
	if !ok {
		return ErrTopicNotFound
	}
	return nil
}

func (svc *Service) invalidateTopics() {
	if svc.cache != nil {
		svc.cache.DeleteByPrefix(topicCachePrefix)
	}
}

func (svc *Service) invalidatePosts() {
	if svc.cache != nil {
		svc.cache.DeleteByPrefix(postCachePrefix)
	}
}

func (svc *Service) QueryForums(ctx context.Context) ([]Forum, error) {
	val, err := core.CachedQuery(svc.cache, "forums:all", func() (interface{}, error) {
		return svc.repo.QueryForums(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.([]Forum), nil
}

// Topics

func (svc *Service) CreateTopic(ctx context.Context, nt NewTopic) (Topic, error) {
	if err := svc.validateForum(ctx, nt.ForumID); err != nil {
		return Topic{}, err
	}
	if err := svc.validateAuthor(ctx, nt.AuthorID, nt.AuthorRole); err != nil {
		return Topic{}, err
	}

	now := time.Now().UTC()
	topic := Topic{
		ForumID:    nt.ForumID,
		AuthorID:   nt.AuthorID,
		AuthorRole: nt.AuthorRole,
		Title:      nt.Title,
		Content:    nt.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	topic, err := svc.repo.CreateTopic(ctx, topic)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating topic: %v", err), err)
		return Topic{}, err
	}

	svc.invalidateTopics()
	svc.logger.Info(fmt.Sprintf("topic %s created", topic.ID))
	return topic, nil
}

// QueryTopics lists topics, optionally restricted to one forum. Reads may be
// served from cache.
func (svc *Service) QueryTopics(ctx context.Context, forumID string) ([]Topic, error) {
	val, err := core.CachedQuery(svc.cache, topicListKey(forumID), func() (interface{}, error) {
		if forumID != "" {
			return svc.repo.QueryTopicsByForum(ctx, forumID)
		}
		return svc.repo.QueryTopics(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.([]Topic), nil
}

func (svc *Service) GetTopicByID(ctx context.Context, id string) (Topic, error) {
	return svc.repo.GetTopicByID(ctx, id)
}

// UpdateTopic merges the non-nil fields of ut into the stored topic. The
// target must exist before any foreign key in the payload is checked. The
// author pair is re-validated only when both halves are supplied; supplying
// exactly one is rejected rather than silently skipping re-validation.
func (svc *Service) UpdateTopic(ctx context.Context, id string, ut UpdateTopic) (Topic, error) {
	topic, err := svc.repo.GetTopicByID(ctx, id)
	if err != nil {
		return Topic{}, err
	}

	if ut.ForumID != nil {
		if err = svc.validateForum(ctx, *ut.ForumID); err != nil {
			return Topic{}, err
		}
		topic.ForumID = *ut.ForumID
	}
	if (ut.AuthorID != nil) != (ut.AuthorRole != nil) {
		fld := "author_id"
		if ut.AuthorID != nil {
			fld = "author_role"
		}
		return Topic{}, core.NewValidationError(nil, core.FieldError{Field: fld, Error: errAuthorPair})
	}
	if ut.AuthorID != nil && ut.AuthorRole != nil {
		if err = svc.validateAuthor(ctx, *ut.AuthorID, *ut.AuthorRole); err != nil {
			return Topic{}, err
		}
		topic.AuthorID = *ut.AuthorID
		topic.AuthorRole = *ut.AuthorRole
	}
	if ut.Title != nil {
		topic.Title = *ut.Title
	}
	if ut.Content != nil {
		topic.Content = *ut.Content
	}
	topic.UpdatedAt = time.Now().UTC()

	topic, err = svc.repo.UpdateTopic(ctx, topic)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("updating topic %s: %v", id, err), err)
		return Topic{}, err
	}

	svc.invalidateTopics()
	svc.logger.Info(fmt.Sprintf("topic %s updated", topic.ID))
	return topic, nil
}

// DeleteTopic removes the topic only; its posts are left in place and remain
// the caller's responsibility.
func (svc *Service) DeleteTopic(ctx context.Context, id string) error {
	if err := svc.validateTopicRef(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeleteTopic(ctx, id); err != nil {
		svc.logger.Error(fmt.Sprintf("deleting topic %s: %v", id, err), err)
		return err
	}
	svc.invalidateTopics()
	svc.logger.Info(fmt.Sprintf("topic %s deleted", id))
	return nil
}

// Posts

func (svc *Service) CreatePost(ctx context.Context, np NewPost) (Post, error) {
	if err := svc.validateTopicRef(ctx, np.TopicID); err != nil {
		return Post{}, err
	}
	if err := svc.validateAuthor(ctx, np.AuthorID, np.AuthorRole); err != nil {
		return Post{}, err
	}

	now := time.Now().UTC()
	post := Post{
		TopicID:    np.TopicID,
		AuthorID:   np.AuthorID,
		AuthorRole: np.AuthorRole,
		Content:    np.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	post, err := svc.repo.CreatePost(ctx, post)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("creating post: %v", err), err)
		return Post{}, err
	}

	svc.invalidatePosts()
	svc.logger.Info(fmt.Sprintf("post %s created", post.ID))
	return post, nil
}

// QueryPosts lists posts ascending by creation time, optionally restricted
// to one topic.
func (svc *Service) QueryPosts(ctx context.Context, topicID string) ([]Post, error) {
	val, err := core.CachedQuery(svc.cache, postListKey(topicID), func() (interface{}, error) {
		if topicID != "" {
			return svc.repo.QueryPostsByTopic(ctx, topicID)
		}
		return svc.repo.QueryPosts(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.([]Post), nil
}

func (svc *Service) GetPostByID(ctx context.Context, id string) (Post, error) {
	return svc.repo.GetPostByID(ctx, id)
}

func (svc *Service) UpdatePost(ctx context.Context, id string, up UpdatePost) (Post, error) {
	post, err := svc.repo.GetPostByID(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if up.TopicID != nil {
		if err = svc.validateTopicRef(ctx, *up.TopicID); err != nil {
			return Post{}, err
		}
		post.TopicID = *up.TopicID
	}
	if (up.AuthorID != nil) != (up.AuthorRole != nil) {
		fld := "author_id"
		if up.AuthorID != nil {
			fld = "author_role"
		}
		return Post{}, core.NewValidationError(nil, core.FieldError{Field: fld, Error: errAuthorPair})
	}
	if up.AuthorID != nil && up.AuthorRole != nil {
		if err = svc.validateAuthor(ctx, *up.AuthorID, *up.AuthorRole); err != nil {
			return Post{}, err
		}
		post.AuthorID = *up.AuthorID
		post.AuthorRole = *up.AuthorRole
	}
	if up.Content != nil {
		post.Content = *up.Content
	}
	post.UpdatedAt = time.Now().UTC()

	post, err = svc.repo.UpdatePost(ctx, post)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("updating post %s: %v", id, err), err)
		return Post{}, err
	}

	svc.invalidatePosts()
	svc.logger.Info(fmt.Sprintf("post %s updated", post.ID))
	return post, nil
}

func (svc *Service) DeletePost(ctx context.Context, id string) error {
	if _, err := svc.repo.GetPostByID(ctx, id); err != nil {
		return err
	}
	if err := svc.repo.DeletePost(ctx, id); err != nil {
		svc.logger.Error(fmt.Sprintf("deleting post %s: %v", id, err), err)
		return err
	}
	svc.invalidatePosts()
	svc.logger.Info(fmt.Sprintf("post %s deleted", id))
	return nil
}
