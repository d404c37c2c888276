package services

// Kind classifies a DomainError so the transport layer can pick a status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// DomainError is an expected failure carrying a stable, machine-readable
// code. Instances are sentinels and compared with errors.Is.
type DomainError struct {
	Kind Kind
	Code string
}

func (e *DomainError) Error() string {
	return e.Code
}

func newError(kind Kind, code string) *DomainError {
	return &DomainError{Kind: kind, Code: code}
}

// Authorization
var (
	ErrUnauthenticated = newError(KindUnauthenticated, "UNAUTHENTICATED")
	ErrNotMember       = newError(KindForbidden, "NOT_A_MEMBER")
	ErrForbidden       = newError(KindForbidden, "FORBIDDEN")
)

// Membership
var (
	ErrTeamNotFound       = newError(KindNotFound, "TEAM_NOT_FOUND")
	ErrInvalidName        = newError(KindValidation, "INVALID_NAME")
	ErrOwnerCannotLeave   = newError(KindConflict, "OWNER_CANT_LEAVE")
	ErrNewOwnerNotMember  = newError(KindValidation, "NEW_OWNER_NOT_A_MEMBER")
	ErrInvalidTarget      = newError(KindValidation, "INVALID_TARGET")
	ErrCannotRemoveSelf   = newError(KindValidation, "CANT_REMOVE_SELF")
	ErrCannotRemoveOwner  = newError(KindConflict, "CANT_REMOVE_OWNER")
	ErrMemberNotFound     = newError(KindNotFound, "MEMBER_NOT_FOUND")
	ErrLinkTooLong        = newError(KindValidation, "LINK_TOO_LONG")
	ErrProfileNotFound    = newError(KindNotFound, "PROFILE_NOT_FOUND")
	ErrDisplayNameTooLong = newError(KindValidation, "DISPLAY_NAME_TOO_LONG")
)

// Tasks
var (
	ErrTaskNotFound          = newError(KindNotFound, "TASK_NOT_FOUND")
	ErrOnlyAuthorCanEdit     = newError(KindForbidden, "ONLY_AUTHOR_CAN_EDIT")
	ErrOnlyAuthorCanDelete   = newError(KindForbidden, "ONLY_AUTHOR_CAN_DELETE")
	ErrOnlyAssigneeCanToggle = newError(KindForbidden, "ONLY_ASSIGNEE_CAN_TOGGLE")
	ErrTitleTooShort         = newError(KindValidation, "TITLE_TOO_SHORT")
	ErrAssigneesRequired     = newError(KindValidation, "ASSIGNEES_REQUIRED")
	ErrAssigneeNotMember     = newError(KindValidation, "ASSIGNEE_NOT_MEMBER")
	ErrDateInvalid           = newError(KindValidation, "DATE_INVALID")
	ErrTimeInvalid           = newError(KindValidation, "TIME_INVALID")
	ErrInvalidFilter         = newError(KindValidation, "INVALID_FILTER")
)

// Finances
var (
	ErrItemNotFound           = newError(KindNotFound, "ITEM_NOT_FOUND")
	ErrDateRequired           = newError(KindValidation, "DATE_REQUIRED")
	ErrAmountInvalid          = newError(KindValidation, "AMOUNT_INVALID")
	ErrSpenderRequired        = newError(KindValidation, "SPENDER_REQUIRED")
	ErrSpenderNotMember       = newError(KindValidation, "SPENDER_NOT_MEMBER")
	ErrSpenderChangeForbidden = newError(KindForbidden, "SPENDER_CHANGE_FORBIDDEN")
)

// Events
var (
	ErrEventNotFound     = newError(KindNotFound, "EVENT_NOT_FOUND")
	ErrEventDateRequired = newError(KindValidation, "DATE_REQUIRED_YYYY_MM_DD")
	ErrMonthRequired     = newError(KindValidation, "MONTH_REQUIRED_YYYY_MM")
)

// Shopping
var (
	ErrShoppingNotFound = newError(KindNotFound, "NOT_FOUND")
	ErrTitleRequired    = newError(KindValidation, "TITLE_REQUIRED")
	ErrNotAuthor        = newError(KindForbidden, "NOT_AUTHOR")
)
