package models

// Mood is one of the fixed set of mood markers.
type Mood string

const (
	MoodHappy      Mood = "😊"
	MoodSad        Mood = "😔"
	MoodCool       Mood = "😎"
	MoodAngry      Mood = "😡"
	MoodTired      Mood = "😴"
	MoodThoughtful Mood = "🤔"
	MoodLoving     Mood = "😍"
	MoodCrying     Mood = "😢"
	MoodFrustrated Mood = "😤"
	MoodBlessed    Mood = "😇"
)

// Moods lists every accepted mood in display order.
var Moods = []Mood{
	MoodHappy, MoodSad, MoodCool, MoodAngry, MoodTired,
	MoodThoughtful, MoodLoving, MoodCrying, MoodFrustrated, MoodBlessed,
}

// Valid reports whether m belongs to the fixed mood set.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

func (m Mood) String() string { return string(m) }

// MoodCount is one row of the mood aggregate.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}
