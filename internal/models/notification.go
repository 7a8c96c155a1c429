package models

// Category identifies which record kind produced a notification.
type Category string

const (
	CategoryMaintenance Category = "maintenance"
	CategoryDocument    Category = "document"
	CategoryFine        Category = "fine"
)

// Candidate is a composed push notification for one user and one category.
// Candidates are transient: built during an evaluation pass, handed to the
// push sender, then discarded.
type Candidate struct {
	Category    Category
	Title       string
	Body        string
	TargetRoute string
	Overdue     bool
}
