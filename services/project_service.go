package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/repository"
	"github.com/yeremiapane/projectflow/utils"
)

type ProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	Status      models.Status
	ManagerID   *uint
	MemberIDs   []uint
	TagIDs      []uint
}

type ProjectService struct {
	projects ProjectStore
	users    UserStore
	tags     TagStore
	files    ObjectStore
	notifier Notifier
}

func NewProjectService(projects ProjectStore, users UserStore, tags TagStore, files ObjectStore, notifier Notifier) *ProjectService {
	return &ProjectService{projects: projects, users: users, tags: tags, files: files, notifier: notifier}
}

func (in *ProjectInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("project name is required")
	}
	if in.Status == "" {
		in.Status = models.StatusNotStarted
	}
	if !in.Status.Valid() {
		return invalid("unknown status %q", in.Status)
	}
	if in.StartDate != nil && in.DueDate != nil && in.DueDate.Before(*in.StartDate) {
		return invalid("due date is before start date")
	}
	return nil
}

// loadUsers resolves ids to users, failing when any id is unknown.
func (s *ProjectService) loadUsers(ctx context.Context, ids []uint) ([]models.User, error) {
	ids = recipients(0, ids...)
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fromRepo("user", err)
	}
	if len(users) != len(ids) {
		return nil, fmt.Errorf("%w: one or more members do not exist", ErrNotFound)
	}
	return users, nil
}

func (s *ProjectService) loadTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	ids = recipients(0, ids...)
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fromRepo("tag", err)
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("%w: one or more tags do not exist", ErrNotFound)
	}
	return tags, nil
}

// Create stores a new project. The manager defaults to the creator.
func (s *ProjectService) Create(ctx context.Context, actor Actor, in ProjectInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	managerID := actor.ID
	if in.ManagerID != nil {
		managerID = *in.ManagerID
	}
	if _, err := s.users.GetByID(ctx, managerID); err != nil {
		return nil, fromRepo("manager", err)
	}
	members, err := s.loadUsers(ctx, in.MemberIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.loadTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	p := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		Status:      in.Status,
		ManagerID:   &managerID,
		Users:       members,
		Tags:        tags,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fromRepo("project", err)
	}
	utils.InfoLogger.Printf("Project %d created by user %d", p.ID, actor.ID)

	s.notifyMembers(ctx, p, actor.ID, p.MemberIDs())
	return s.Get(ctx, p.ID)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id, "Manager", "Users", "Tags")
	return p, fromRepo("project", err)
}

func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter, req repository.PageRequest) (repository.Page[models.Project], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return repository.Page[models.Project]{}, invalid("unknown status %q", filter.Status)
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	page, err := s.projects.List(ctx, filter, req)
	return page, fromRepo("project", err)
}

// Update replaces the project's fields, members and tags. Only the manager
// or an admin may update.
func (s *ProjectService) Update(ctx context.Context, actor Actor, id uint, in ProjectInput) (*models.Project, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByID(ctx, id, "Users")
	if err != nil {
		return nil, fromRepo("project", err)
	}
	if !actor.canManage(p) {
		return nil, ErrForbidden
	}
	if in.ManagerID != nil {
		if _, err := s.users.GetByID(ctx, *in.ManagerID); err != nil {
			return nil, fromRepo("manager", err)
		}
		p.ManagerID = in.ManagerID
	}
	members, err := s.loadUsers(ctx, in.MemberIDs)
	if err != nil {
		return nil, err
	}
	tags, err := s.loadTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	before := p.MemberIDs()

	p.Name = in.Name
	p.Description = in.Description
	p.StartDate = in.StartDate
	p.DueDate = in.DueDate
	p.Status = in.Status
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, fromRepo("project", err)
	}
	if err := s.projects.ReplaceUsers(ctx, p, members); err != nil {
		return nil, fromRepo("project members", err)
	}
	if err := s.projects.ReplaceTags(ctx, p, tags); err != nil {
		return nil, fromRepo("project tags", err)
	}

	p.Users = members
	s.notifyMembers(ctx, p, actor.ID, newIDs(before, p.MemberIDs()))
	return s.Get(ctx, id)
}

// Delete removes the project with its tasks, comments and attachments, then
// removes the attachment objects from storage. Storage failures are logged.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, id uint) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return fromRepo("project", err)
	}
	if !actor.canManage(p) {
		return ErrForbidden
	}
	keys, err := s.projects.Delete(ctx, id)
	if err != nil {
		return fromRepo("project", err)
	}
	for _, key := range keys {
		if s.files == nil {
			break
		}
		if err := s.files.Delete(key); err != nil {
			utils.ErrorLogger.Printf("Orphaned object %s after deleting project %d: %v", key, id, err)
		}
	}
	utils.InfoLogger.Printf("Project %d deleted by user %d (%d files)", id, actor.ID, len(keys))
	return nil
}

func (s *ProjectService) AddMembers(ctx context.Context, actor Actor, id uint, userIDs []uint) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id, "Users")
	if err != nil {
		return nil, fromRepo("project", err)
	}
	if !actor.canManage(p) {
		return nil, ErrForbidden
	}
	if len(userIDs) == 0 {
		return nil, invalid("no users given")
	}
	users, err := s.loadUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	before := p.MemberIDs()
	if err := s.projects.AddUsers(ctx, p, users); err != nil {
		return nil, fromRepo("project members", err)
	}
	p.Users = append(p.Users, users...)
	s.notifyMembers(ctx, p, actor.ID, newIDs(before, p.MemberIDs()))
	return s.Get(ctx, id)
}

func (s *ProjectService) RemoveMember(ctx context.Context, actor Actor, id, userID uint) error {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return fromRepo("project", err)
	}
	if !actor.canManage(p) {
		return ErrForbidden
	}
	return fromRepo("project members", s.projects.RemoveUser(ctx, p, userID))
}

// notifyMembers tells newly added people about the project. Failures are logged only.
func (s *ProjectService) notifyMembers(ctx context.Context, p *models.Project, actorID uint, ids []uint) {
	to := recipients(actorID, ids...)
	if s.notifier == nil || len(to) == 0 {
		return
	}
	notifs := make([]models.Notification, 0, len(to))
	ref := p.ID
	for _, userID := range to {
		notifs = append(notifs, models.Notification{
			Title:       "Added to project",
			Content:     fmt.Sprintf("You were added to project %s", p.Name),
			Type:        models.NotificationTypeProject,
			ReferenceID: &ref,
			UserID:      userID,
		})
	}
	if err := s.notifier.Notify(ctx, notifs); err != nil {
		utils.ErrorLogger.Printf("Project %d member notifications failed: %v", p.ID, err)
	}
}

// newIDs returns the ids in after that are not in before.
func newIDs(before, after []uint) []uint {
	old := make(map[uint]struct{}, len(before))
	for _, id := range before {
		old[id] = struct{}{}
	}
	var added []uint
	for _, id := range after {
		if _, ok := old[id]; !ok {
			added = append(added, id)
		}
	}
	return added
}
