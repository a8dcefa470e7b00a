package model

import (
	"fmt"
	"time"
)

// Plan is a tenant's subscription tier. It controls the note quota:
// free tenants are capped at FreePlanNoteLimit, pro tenants are unlimited.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// FreePlanNoteLimit is the maximum number of notes a free tenant may hold.
const FreePlanNoteLimit = 3

// Valid reports whether the plan is one of the known tiers.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// ParsePlan converts a string into a Plan, rejecting unknown values.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan: %q", s)
	}
	return p, nil
}

// Tenant represents an isolated organization. All users and notes belong
// to exactly one tenant, and every data access is scoped by tenant ID.
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	Plan      Plan      `json:"plan" gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
