package models

// Category is a performance category a question can fall into based on the
// attempt history. Categories overlap: a question answered correctly in one
// session and incorrectly in another is in both sets.
type Category string

const (
	CategoryUnused    Category = "unused"
	CategoryUsed      Category = "used"
	CategoryCorrect   Category = "correct"
	CategoryIncorrect Category = "incorrect"
	CategoryMarked    Category = "marked"
	CategoryOmitted   Category = "omitted"
)

// ParseCategory returns the Category for s, or false if s names no category.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryUnused, CategoryUsed, CategoryCorrect, CategoryIncorrect, CategoryMarked, CategoryOmitted:
		return Category(s), true
	}
	return "", false
}

// CategoryCounts holds the per-category set sizes over a catalog and its
// attempt history.
type CategoryCounts struct {
	Unused    int `json:"unused"`
	Used      int `json:"used"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Marked    int `json:"marked"`
	Omitted   int `json:"omitted"`
}
