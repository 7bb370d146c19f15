package models

// explicit join model so the CSV loader can write rows with their original ids
type TitleGenre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID int64 `json:"title_id" gorm:"not null;uniqueIndex:idx_title_genre,priority:1"`
	GenreID int64 `json:"genre_id" gorm:"not null;index;uniqueIndex:idx_title_genre,priority:2"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
