package models

import "time"

// Emotion is a feeling a child reports or a game observes
type Emotion string

const (
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionSurprised Emotion = "surprised"
	EmotionFearful   Emotion = "fearful"
	EmotionDisgusted Emotion = "disgusted"
	EmotionNeutral   Emotion = "neutral"
)

// Emotions lists every recognised emotion
var Emotions = []Emotion{
	EmotionHappy,
	EmotionSad,
	EmotionAngry,
	EmotionSurprised,
	EmotionFearful,
	EmotionDisgusted,
	EmotionNeutral,
}

// Valid reports whether e is a recognised emotion
func (e Emotion) Valid() bool {
	for _, known := range Emotions {
		if known == e {
			return true
		}
	}
	return false
}

// Negative reports whether e counts toward emotional-support recommendations
func (e Emotion) Negative() bool {
	return e == EmotionSad || e == EmotionAngry || e == EmotionFearful
}

const MaxEmotionIntensity = 100

// EmotionRecord is one logged emotion for a child
type EmotionRecord struct {
	ID           int64
	ChildID      int64
	Emotion      Emotion
	Intensity    int
	Context      string
	GameResultID *int64
	RecordedAt   time.Time
}
