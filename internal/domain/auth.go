package domain

// SubjectType distinguishes the kind of authenticated principal.
type SubjectType string

const (
	SubjectTypeUser      SubjectType = "USER"
	SubjectTypeModerator SubjectType = "MODERATOR"
)
