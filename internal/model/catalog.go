package model

// HistoricalFigure is a read-only catalog row seeded at startup.
type HistoricalFigure struct {
	ID           int64    `json:"id" db:"id"`
	Name         string   `json:"name" db:"name"`
	BirthYear    int      `json:"birth_year" db:"birth_year"`
	DeathYear    *int     `json:"death_year,omitempty" db:"death_year"`
	Profession   string   `json:"profession" db:"profession"`
	Achievements []string `json:"achievements" db:"achievements"`
	Biography    string   `json:"biography" db:"biography"`
	ImageURL     *string  `json:"image_url,omitempty" db:"image_url"`
	Category     string   `json:"category" db:"category"`
}

// HistoricalEvent is a read-only catalog row seeded at startup.
type HistoricalEvent struct {
	ID           int64    `json:"id" db:"id"`
	Title        string   `json:"title" db:"title"`
	Year         int      `json:"year" db:"year"`
	Description  string   `json:"description" db:"description"`
	Significance string   `json:"significance" db:"significance"`
	Location     string   `json:"location" db:"location"`
	KeyFigures   []string `json:"key_figures" db:"key_figures"`
}

// CategoriesResponse wraps a distinct category list.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
