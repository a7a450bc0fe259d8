package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/projectflow/models"
	"github.com/yeremiapane/projectflow/utils"
)

type UploadInput struct {
	ProjectID   uint
	TaskID      *uint
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type AttachmentService struct {
	attachments AttachmentStore
	projects    ProjectStore
	tasks       TaskStore
	files       ObjectStore
	notifier    Notifier
}

func NewAttachmentService(attachments AttachmentStore, projects ProjectStore, tasks TaskStore, files ObjectStore, notifier Notifier) *AttachmentService {
	return &AttachmentService{attachments: attachments, projects: projects, tasks: tasks, files: files, notifier: notifier}
}

// objectKey places uploads under their project with a random name that keeps the extension.
func objectKey(projectID uint, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), ext)
}

// Upload stores the file, records it and tells the other project members.
func (s *AttachmentService) Upload(ctx context.Context, actor Actor, in UploadInput) (*models.Attachment, error) {
	name := filepath.Base(strings.TrimSpace(in.FileName))
	if name == "" || name == "." || name == "/" {
		return nil, invalid("file name is required")
	}
	p, err := s.projects.GetByID(ctx, in.ProjectID, "Users")
	if err != nil {
		return nil, fromRepo("project", err)
	}
	if !actor.IsAdmin() && !p.HasMember(actor.ID) {
		return nil, ErrForbidden
	}
	if in.TaskID != nil {
		t, err := s.tasks.GetByID(ctx, *in.TaskID)
		if err != nil {
			return nil, fromRepo("task", err)
		}
		if t.ProjectID == nil || *t.ProjectID != p.ID {
			return nil, invalid("task %d is not part of project %d", t.ID, p.ID)
		}
	}

	key := objectKey(p.ID, name)
	if _, err := s.files.Put(key, in.Body); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	url, err := s.files.GetURL(key)
	if err != nil {
		url = ""
	}

	a := &models.Attachment{
		ProjectID:    p.ID,
		TaskID:       in.TaskID,
		FileName:     name,
		StorageKey:   key,
		URL:          url,
		ContentType:  in.ContentType,
		Size:         in.Size,
		UploadedByID: actor.ID,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		if derr := s.files.Delete(key); derr != nil {
			utils.ErrorLogger.Printf("Orphaned object %s after failed insert: %v", key, derr)
		}
		return nil, fromRepo("attachment", err)
	}
	// local storage has no public URL, so downloads go through the API
	if url == "" || url == key {
		a.URL = fmt.Sprintf("/api/files/%d/download", a.ID)
		if err := s.attachments.Update(ctx, a); err != nil {
			utils.ErrorLogger.Printf("Attachment %d url not saved: %v", a.ID, err)
		}
	}
	utils.InfoLogger.Printf("File %s uploaded to project %d by user %d", key, p.ID, actor.ID)

	s.notifyUpload(ctx, p, a, actor.ID)
	return a, nil
}

func (s *AttachmentService) notifyUpload(ctx context.Context, p *models.Project, a *models.Attachment, actorID uint) {
	to := recipients(actorID, p.MemberIDs()...)
	if s.notifier == nil || len(to) == 0 {
		return
	}
	ref := a.ID
	notifs := make([]models.Notification, 0, len(to))
	for _, userID := range to {
		notifs = append(notifs, models.Notification{
			Title:       fmt.Sprintf("New file in project %s", p.Name),
			Content:     fmt.Sprintf("%s was uploaded", a.FileName),
			Type:        models.NotificationTypeFile,
			ReferenceID: &ref,
			UserID:      userID,
		})
	}
	if err := s.notifier.Notify(ctx, notifs); err != nil {
		utils.ErrorLogger.Printf("Attachment %d notifications not stored: %v", a.ID, err)
	}
}

func (s *AttachmentService) List(ctx context.Context, projectID uint) ([]models.Attachment, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, fromRepo("project", err)
	}
	list, err := s.attachments.ListByProject(ctx, projectID)
	return list, fromRepo("attachment", err)
}

// Open returns the attachment record and a stream of its content. The caller closes the stream.
func (s *AttachmentService) Open(ctx context.Context, id uint) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fromRepo("attachment", err)
	}
	rc, err := s.files.GetStream(a.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: content of attachment %d: %v", ErrNotFound, id, err)
	}
	return a, rc, nil
}

// Delete removes the record first, then the stored object. A failed object
// delete is logged and leaves an orphan in storage.
func (s *AttachmentService) Delete(ctx context.Context, actor Actor, id uint) error {
	a, err := s.attachments.GetByID(ctx, id)
	if err != nil {
		return fromRepo("attachment", err)
	}
	if a.UploadedByID != actor.ID && !actor.IsAdmin() {
		p, err := s.projects.GetByID(ctx, a.ProjectID)
		if err != nil {
			return fromRepo("project", err)
		}
		if !actor.canManage(p) {
			return ErrForbidden
		}
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		return fromRepo("attachment", err)
	}
	if err := s.files.Delete(a.StorageKey); err != nil {
		utils.ErrorLogger.Printf("Orphaned object %s after deleting attachment %d: %v", a.StorageKey, id, err)
	}
	return nil
}
