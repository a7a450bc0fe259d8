package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/projectflow/models"
)

type TagService struct {
	tags TagStore
}

func NewTagService(tags TagStore) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) Create(ctx context.Context, name, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("tag name is required")
	}
	tag := &models.Tag{Name: name, Color: strings.TrimSpace(color)}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, fromRepo("tag", err)
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tags.List(ctx)
	return tags, fromRepo("tag", err)
}
