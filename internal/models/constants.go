package models

// Роли пользователей. Unassigned — роль до подтверждения.
const (
	RoleUnassigned = "unassigned"
	RoleHirer      = "hirer"
	RoleFreelancer = "freelancer"
	RoleAdmin      = "admin"
)

// JobStatus константы статусов вакансий
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// ApplicationStatus константы статусов откликов
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusCompleted = "completed"
)

// ValidConfirmableRoles роли, которые пользователь может подтвердить сам.
// Админ назначается только вручную на стороне базы.
var ValidConfirmableRoles = map[string]struct{}{
	RoleHirer:      {},
	RoleFreelancer: {},
}

// ValidJobStatuses список валидных статусов вакансий
var ValidJobStatuses = map[string]struct{}{
	JobStatusOpen:       {},
	JobStatusInProgress: {},
	JobStatusCompleted:  {},
	JobStatusCancelled:  {},
}

// ValidApplicationStatuses список валидных статусов откликов
var ValidApplicationStatuses = map[string]struct{}{
	ApplicationStatusPending:   {},
	ApplicationStatusAccepted:  {},
	ApplicationStatusRejected:  {},
	ApplicationStatusCompleted: {},
}
