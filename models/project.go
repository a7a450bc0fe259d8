package models

import "time"

type Project struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index" json:"status"`
	ManagerID   *uint      `gorm:"index" json:"manager_id,omitempty"`
	Manager     *User      `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"manager,omitempty"`
	Users       []User     `gorm:"many2many:project_users;" json:"users,omitempty"`
	Tags        []Tag      `gorm:"many2many:project_tags;" json:"tags,omitempty"`
	Tasks       []Task     `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MemberIDs returns the manager and member ids of a loaded project, deduplicated.
func (p *Project) MemberIDs() []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(p.Users)+1)
	if p.ManagerID != nil {
		seen[*p.ManagerID] = struct{}{}
		ids = append(ids, *p.ManagerID)
	}
	for _, u := range p.Users {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		ids = append(ids, u.ID)
	}
	return ids
}

// HasMember reports whether userID manages or belongs to the project.
func (p *Project) HasMember(userID uint) bool {
	for _, id := range p.MemberIDs() {
		if id == userID {
			return true
		}
	}
	return false
}
