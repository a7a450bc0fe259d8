package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/utils"
)

type CommentInput struct {
	Content     string
	Type        models.CommentType
	ReferenceID uint
	ParentID    *uint
}

type CommentService struct {
	comments CommentStore
	projects ProjectStore
	tasks    TaskStore
	users    UserStore
	notifier Notifier
}

func NewCommentService(comments CommentStore, projects ProjectStore, tasks TaskStore, users UserStore, notifier Notifier) *CommentService {
	return &CommentService{comments: comments, projects: projects, tasks: tasks, users: users, notifier: notifier}
}

// Create stores the comment and then notifies the people involved. The
// notification step never fails the call.
func (s *CommentService) Create(ctx context.Context, actor Actor, in CommentInput) (*models.Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, invalid("comment content is required")
	}
	if !in.Type.Valid() {
		return nil, invalid("comment type must be PROJECT or TASK")
	}
	if err := s.referenceExists(ctx, in.Type, in.ReferenceID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, fromRepo("parent comment", err)
		}
		if parent.Type != in.Type || parent.ReferenceID != in.ReferenceID {
			return nil, invalid("parent comment belongs to a different %s", strings.ToLower(string(parent.Type)))
		}
	}

	author, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fromRepo("user", err)
	}

	c := &models.Comment{
		Content:     in.Content,
		Type:        in.Type,
		ReferenceID: in.ReferenceID,
		UserID:      author.ID,
		ParentID:    in.ParentID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fromRepo("comment", err)
	}
	c.User = author

	s.fanOut(ctx, c, author)
	return c, nil
}

func (s *CommentService) referenceExists(ctx context.Context, typ models.CommentType, refID uint) error {
	if typ == models.CommentTypeProject {
		_, err := s.projects.GetByID(ctx, refID)
		return fromRepo("project", err)
	}
	_, err := s.tasks.GetByID(ctx, refID)
	return fromRepo("task", err)
}

// fanOut creates one COMMENT notification per recipient. Errors are logged.
func (s *CommentService) fanOut(ctx context.Context, c *models.Comment, author *models.User) {
	title, to, err := s.recipientsFor(ctx, c)
	if err != nil {
		utils.ErrorLogger.Printf("Comment %d notification fan-out failed: %v", c.ID, err)
		return
	}
	if len(to) == 0 {
		return
	}

	verb := "commented"
	if c.IsReply() {
		verb = "replied"
	}
	content := fmt.Sprintf("%s %s: %s", author.Name, verb, preview(c.Content))
	ref := c.ID
	notifs := make([]models.Notification, 0, len(to))
	for _, userID := range to {
		notifs = append(notifs, models.Notification{
			Title:       title,
			Content:     content,
			Type:        models.NotificationTypeComment,
			ReferenceID: &ref,
			UserID:      userID,
		})
	}
	if err := s.notifier.Notify(ctx, notifs); err != nil {
		utils.ErrorLogger.Printf("Comment %d notifications not stored: %v", c.ID, err)
	}
}

// recipientsFor works out who hears about a comment:
//   - a reply goes to the parent's author only, unless they replied to themselves
//   - a project comment goes to the manager and members
//   - a task comment goes to the task creator plus the project's manager and
//     members; a task without a project notifies nobody
//
// The author is never included and every user appears once.
func (s *CommentService) recipientsFor(ctx context.Context, c *models.Comment) (string, []uint, error) {
	if c.IsReply() {
		parent, err := s.comments.GetByID(ctx, *c.ParentID)
		if err != nil {
			return "", nil, fmt.Errorf("load parent comment: %w", err)
		}
		return "New reply to your comment", recipients(c.UserID, parent.UserID), nil
	}

	switch c.Type {
	case models.CommentTypeProject:
		p, err := s.projects.GetByID(ctx, c.ReferenceID, "Users")
		if err != nil {
			return "", nil, fmt.Errorf("load project %d: %w", c.ReferenceID, err)
		}
		return fmt.Sprintf("New comment on project %s", p.Name), recipients(c.UserID, p.MemberIDs()...), nil

	case models.CommentTypeTask:
		t, err := s.tasks.GetByID(ctx, c.ReferenceID, "Project", "Project.Users")
		if err != nil {
			return "", nil, fmt.Errorf("load task %d: %w", c.ReferenceID, err)
		}
		if t.Project == nil {
			return "", nil, nil
		}
		var candidates []uint
		if t.CreatedByID != nil {
			candidates = append(candidates, *t.CreatedByID)
		}
		candidates = append(candidates, t.Project.MemberIDs()...)
		return fmt.Sprintf("New comment on task %s", t.Name), recipients(c.UserID, candidates...), nil
	}
	return "", nil, fmt.Errorf("unknown comment type %q", c.Type)
}

func (s *CommentService) ListByReference(ctx context.Context, typ models.CommentType, refID uint, req repository.PageRequest) (repository.Page[models.Comment], error) {
	if !typ.Valid() {
		return repository.Page[models.Comment]{}, invalid("comment type must be PROJECT or TASK")
	}
	page, err := s.comments.ListByReference(ctx, typ, refID, req)
	return page, fromRepo("comment", err)
}

// Delete removes a comment and its replies. Allowed for the author, the
// manager of the project the comment lives in, and admins.
func (s *CommentService) Delete(ctx context.Context, actor Actor, id uint) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return fromRepo("comment", err)
	}
	if c.UserID != actor.ID && !actor.IsAdmin() {
		p, err := s.owningProject(ctx, c)
		if err != nil {
			return err
		}
		if p == nil || !actor.canManage(p) {
			return ErrForbidden
		}
	}
	return fromRepo("comment", s.comments.Delete(ctx, id))
}

func (s *CommentService) owningProject(ctx context.Context, c *models.Comment) (*models.Project, error) {
	if c.Type == models.CommentTypeProject {
		p, err := s.projects.GetByID(ctx, c.ReferenceID)
		if err != nil {
			return nil, fromRepo("project", err)
		}
		return p, nil
	}
	t, err := s.tasks.GetByID(ctx, c.ReferenceID, "Project")
	if err != nil {
		return nil, fromRepo("task", err)
	}
	return t.Project, nil
}
