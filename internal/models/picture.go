// models содержит доменные сущности галереи: профиль и его фотографии.
// Типы описывают ответ апстрима GET /profiles/{slug} и используются
// клиентом, утилитами выборки и транспортными слоями.
package models

// Rating — классификация фотографии по чувствительности контента.
type Rating string

const (
	RatingNeutral Rating = "NEUTRAL"
	RatingErotic  Rating = "EROTIC"
	RatingAppSafe Rating = "APP_SAFE"
)

// Valid сообщает, входит ли значение в закрытый набор рейтингов.
func (r Rating) Valid() bool {
	switch r {
	case RatingNeutral, RatingErotic, RatingAppSafe:
		return true
	default:
		return false
	}
}

// Safe — NEUTRAL или APP_SAFE. Неизвестные значения безопасными не считаются.
func (r Rating) Safe() bool {
	return r == RatingNeutral || r == RatingAppSafe
}

// Picture — фотография профиля.
// URLToken непрозрачен и нужен только для сборки URL изображения.
type Picture struct {
	ID       string `json:"id"`
	URLToken string `json:"url_token"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Rating   Rating `json:"rating"`
	IsPublic bool   `json:"is_public"`
	Comment  string `json:"comment,omitempty"`
}
