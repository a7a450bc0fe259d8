package services

import "github.com/yeremiapane/projectflow/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canManage reports whether the actor may edit or delete the project.
func (a Actor) canManage(p *models.Project) bool {
	return a.IsAdmin() || (p.ManagerID != nil && *p.ManagerID == a.ID)
}
