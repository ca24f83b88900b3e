package domain

// Category is a ticket classification bucket.
type Category struct {
	ID   int64
	Name string
}

// CategoryKeywordEntry binds a category to the keyword bag the classification
// index is built from. Entries are immutable once the index is built and are
// rebuildable wholesale from the corpus file.
type CategoryKeywordEntry struct {
	CategoryID int64
	Keywords   []string
}
