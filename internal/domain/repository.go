package domain

type RepositoryID int64

type RepositoryOwner struct {
	ID    int64
	Login string
}

// Repository is an immutable value; identity is the numeric ID.
type Repository struct {
	ID            RepositoryID
	Name          string
	FullName      string
	Owner         RepositoryOwner
	DefaultBranch string
	Private       bool
}
