package domain

import "time"

// ShowType is the catalog entry kind.
type ShowType string

const (
	ShowTypeMovie  ShowType = "Movie"
	ShowTypeTVShow ShowType = "TV Show"
)

// Show is a catalog entry. Rows are soft-deleted: IsDeleted rows stay in
// the store but are invisible to every read path.
type Show struct {
	ID          int64
	ShowType    ShowType
	Title       string
	Director    string
	CastMembers string
	Country     string
	DateAdded   *time.Time
	ReleaseYear int
	Rating      string
	Duration    string
	ListedIn    string
	Description string

	CreatedBy string
	CreatedAt time.Time
	UpdatedBy string
	UpdatedAt *time.Time
	IsDeleted bool
	DeletedBy string
	DeletedAt *time.Time
}
