package models

// ListingStatus статус объявления о донации.
type ListingStatus string

const (
	ListingStatusPosted    ListingStatus = "posted"
	ListingStatusRequested ListingStatus = "requested"
	ListingStatusConfirmed ListingStatus = "confirmed"
	ListingStatusCompleted ListingStatus = "completed"
	ListingStatusExpired   ListingStatus = "expired"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// listingTransitions задаёт граф допустимых переходов статуса объявления.
// После подтверждения (confirmed) единственный путь вперёд — completed:
// отмена и истечение срока для подтверждённого объявления невозможны.
var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingStatusPosted:    {ListingStatusRequested, ListingStatusExpired, ListingStatusCancelled},
	ListingStatusRequested: {ListingStatusConfirmed, ListingStatusExpired, ListingStatusCancelled, ListingStatusPosted},
	ListingStatusConfirmed: {ListingStatusCompleted},
	ListingStatusCompleted: {},
	ListingStatusExpired:   {},
	ListingStatusCancelled: {},
}

func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusPosted, ListingStatusRequested, ListingStatusConfirmed,
		ListingStatusCompleted, ListingStatusExpired, ListingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса нет исходящих переходов.
func (s ListingStatus) IsTerminal() bool {
	return len(listingTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода по графу статусов.
func (s ListingStatus) CanTransitionTo(target ListingStatus) bool {
	for _, allowed := range listingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// RequestStatus статус заявки НКО на самовывоз.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	}
	return false
}

// ComplaintStatus статус жалобы.
type ComplaintStatus string

const (
	ComplaintStatusPending   ComplaintStatus = "pending"
	ComplaintStatusReviewing ComplaintStatus = "reviewing"
	ComplaintStatusResolved  ComplaintStatus = "resolved"
	ComplaintStatusDismissed ComplaintStatus = "dismissed"
)

// complaintTransitions: движение только вперёд к терминальному статусу,
// reviewing — необязательный промежуточный шаг.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusPending:   {ComplaintStatusReviewing, ComplaintStatusResolved, ComplaintStatusDismissed},
	ComplaintStatusReviewing: {ComplaintStatusResolved, ComplaintStatusDismissed},
	ComplaintStatusResolved:  {},
	ComplaintStatusDismissed: {},
}

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusPending, ComplaintStatusReviewing, ComplaintStatusResolved, ComplaintStatusDismissed:
		return true
	}
	return false
}

// IsTerminal сообщает, что жалоба закрыта и переоткрыть её нельзя.
func (s ComplaintStatus) IsTerminal() bool {
	return len(complaintTransitions[s]) == 0
}

func (s ComplaintStatus) CanTransitionTo(target ComplaintStatus) bool {
	for _, allowed := range complaintTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Роли пользователей платформы.
const (
	RoleDonor = "donor"
	RoleNGO   = "ngo"
	RoleAdmin = "admin"
)

// ValidRoles список валидных ролей.
var ValidRoles = map[string]struct{}{
	RoleDonor: {},
	RoleNGO:   {},
	RoleAdmin: {},
}
