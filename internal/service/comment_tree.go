package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pypanta/blog-comments-api/internal/model"
	"github.com/pypanta/blog-comments-api/pkg/util"

	"gorm.io/gorm"
)

const maxPostIDLength = 500

// commentOrder is applied at every level of a thread
const commentOrder = "created_at asc, id asc"

// CommentStore persists comments and assembles reply trees
type CommentStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db, now: time.Now}
}

// WithClock replaces the time source used for timestamps and "ago" strings
func (s *CommentStore) WithClock(now func() time.Time) *CommentStore {
	s.now = now
	return s
}

// CommentView is the serialized form of a comment with its replies
type CommentView struct {
	ID        uint           `json:"id"`
	PostID    string         `json:"post_id"`
	Body      string         `json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UserID    *uint          `json:"user_id"`
	User      string         `json:"user"`
	Ago       string         `json:"ago"`
	Replies   []*CommentView `json:"replies"`
}

// NewComment lists the only fields a client may set on creation
type NewComment struct {
	PostID   string `json:"post_id"`
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
}

// ListTopLevel returns the threads of a post, or of every post when postID
// is empty. Each root carries its full reply tree.
func (s *CommentStore) ListTopLevel(ctx context.Context, postID string) ([]*CommentView, error) {
	var rows []model.Comment

	q := s.db.WithContext(ctx).Preload("User").Order(commentOrder)
	if postID != "" {
		q = q.Where("post_id = ?", postID)
	}

	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch comments, %w", err)
	}

	return s.buildTree(rows, func(c *model.Comment) bool {
		return c.ParentID == nil
	}), nil
}

// Create stores a new comment. userID is nil for anonymous submissions.
func (s *CommentStore) Create(ctx context.Context, userID *uint, in NewComment) (*CommentView, error) {
	if in.Body == "" || in.PostID == "" {
		return nil, invalid(`Invalid request data. "body" and "post_id" are required.`)
	}

	if len(in.PostID) > maxPostIDLength {
		return nil, invalid(`"post_id" is too long`)
	}

	c := model.Comment{
		PostID:    in.PostID,
		Body:      in.Body,
		CreatedAt: s.now().UTC(),
		UserID:    userID,
		ParentID:  in.ParentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.ParentID != nil {
			var parent model.Comment

			err := tx.Select("id", "post_id").First(&parent, *in.ParentID).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invalid("Parent comment not found")
				}

				return err
			}

			if parent.PostID != in.PostID {
				return invalid("Parent comment belongs to another post")
			}
		}

		if err := tx.Create(&c).Error; err != nil {
			return err
		}

		return tx.Preload("User").First(&c, c.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return s.view(&c, s.now()), nil
}

// Update replaces the body of a comment owned by actor. Admins may edit any
// comment. Comments the actor can't touch are reported as not found.
func (s *CommentStore) Update(ctx context.Context, actor *model.User, id uint, body string) (*CommentView, error) {
	if body == "" {
		return nil, invalid(`Invalid request data. "body" is required.`)
	}

	var rows []model.Comment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, actor, id)
		if err != nil {
			return err
		}

		if err := tx.Model(c).Update("body", body).Error; err != nil {
			return err
		}

		rows, err = subtree(tx, *c)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.buildTree(rows, func(c *model.Comment) bool {
		return c.ID == id
	})[0], nil
}

// Delete removes a comment owned by actor together with every reply below
// it and returns how many comments were removed
func (s *CommentStore) Delete(ctx context.Context, actor *model.User, id uint) (int64, error) {
	var deleted int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findOwned(tx, actor, id)
		if err != nil {
			return err
		}

		levels, err := subtreeLevels(tx, c.ID)
		if err != nil {
			return err
		}

		// Deepest level first, rows removed by an FK cascade aren't
		// counted by RowsAffected
		for i := len(levels) - 1; i >= 0; i-- {
			r := tx.Where("id IN ?", levels[i]).Delete(&model.Comment{})
			if r.Error != nil {
				return r.Error
			}

			deleted += r.RowsAffected
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

func (s *CommentStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Comment{}).Count(&n).Error
	return n, err
}

func findOwned(tx *gorm.DB, actor *model.User, id uint) (*model.Comment, error) {
	if actor == nil {
		return nil, ErrCommentNotFound
	}

	q := tx.Where("id = ?", id)
	if !actor.IsAdmin {
		q = q.Where("user_id = ?", actor.ID)
	}

	var c model.Comment

	if err := q.First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}

		return nil, fmt.Errorf("failed to fetch comment, %w", err)
	}

	return &c, nil
}

// subtreeLevels walks the replies of root breadth first, one query per
// depth. levels[0] holds root itself.
func subtreeLevels(tx *gorm.DB, root uint) ([][]uint, error) {
	levels := [][]uint{{root}}

	for {
		var ids []uint

		err := tx.Model(&model.Comment{}).
			Where("parent_id IN ?", levels[len(levels)-1]).
			Pluck("id", &ids).
			Error
		if err != nil {
			return nil, fmt.Errorf("failed to walk replies, %w", err)
		}

		if len(ids) == 0 {
			return levels, nil
		}

		levels = append(levels, ids)
	}
}

// subtree loads root and all of its replies with their authors
func subtree(tx *gorm.DB, root model.Comment) ([]model.Comment, error) {
	levels, err := subtreeLevels(tx, root.ID)
	if err != nil {
		return nil, err
	}

	var ids []uint
	for _, l := range levels {
		ids = append(ids, l...)
	}

	var rows []model.Comment

	err = tx.Preload("User").
		Where("id IN ?", ids).
		Order(commentOrder).
		Find(&rows).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch replies, %w", err)
	}

	return rows, nil
}

// buildTree links rows into threads using a parent -> children index built
// in one pass. rows must already be in display order.
func (s *CommentStore) buildTree(rows []model.Comment, isRoot func(*model.Comment) bool) []*CommentView {
	now := s.now()
	nodes := make(map[uint]*CommentView, len(rows))

	for i := range rows {
		nodes[rows[i].ID] = s.view(&rows[i], now)
	}

	roots := []*CommentView{}

	for i := range rows {
		c := &rows[i]

		if isRoot(c) {
			roots = append(roots, nodes[c.ID])
			continue
		}

		if c.ParentID == nil {
			continue
		}

		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, nodes[c.ID])
		}
	}

	return roots
}

func (s *CommentStore) view(c *model.Comment, now time.Time) *CommentView {
	return &CommentView{
		ID:        c.ID,
		PostID:    c.PostID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UserID:    c.UserID,
		User:      c.User.DisplayName(),
		Ago:       util.TimeSince(c.CreatedAt, now),
		Replies:   []*CommentView{},
	}
}
