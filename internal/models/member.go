package models

type Member struct {
	Base
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	PlanID           *string      `json:"planId"`
	Status           MemberStatus `json:"status"`
	JoinDate         string       `json:"joinDate"`
	EmergencyContact string       `json:"emergencyContact"`
	Notes            string       `json:"notes"`
}

type MemberStatus string

const (
	MemberActive    MemberStatus = "active"
	MemberInactive  MemberStatus = "inactive"
	MemberSuspended MemberStatus = "suspended"
	MemberExpired   MemberStatus = "expired"
)

var MemberStatuses = []MemberStatus{MemberActive, MemberInactive, MemberSuspended, MemberExpired}

func (s MemberStatus) Valid() bool {
	for _, status := range MemberStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// HasPlan reports whether the member references a plan id.
func (m *Member) HasPlan() bool {
	return m.PlanID != nil && *m.PlanID != ""
}
