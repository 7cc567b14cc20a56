// Package emotion holds the canonical seven-class taxonomy every channel is
// normalized into, the per-channel vocabularies that feed it, and the
// facial misclassification heuristic.
package emotion

import "strings"

// Emotion is a canonical label. The zero value means "absent".
type Emotion string

const (
	Angry    Emotion = "angry"
	Disgust  Emotion = "disgust"
	Fear     Emotion = "fear"
	Happy    Emotion = "happy"
	Sad      Emotion = "sad"
	Surprise Emotion = "surprise"
	Neutral  Emotion = "neutral"
)

// All lists the canonical labels in taxonomy order.
var All = []Emotion{Angry, Disgust, Fear, Happy, Sad, Surprise, Neutral}

// Present reports whether e carries a label.
func (e Emotion) Present() bool { return e != "" }

// Canonical reports whether e is one of the seven canonical labels.
func (e Emotion) Canonical() bool {
	for _, c := range All {
		if e == c {
			return true
		}
	}
	return false
}

// Channel identifies the source of an observation.
type Channel string

const (
	Face   Channel = "face"
	Text   Channel = "text"
	Manual Channel = "manual"
)

var faceTable = map[string]Emotion{
	"angry":    Angry,
	"disgust":  Disgust,
	"fear":     Fear,
	"happy":    Happy,
	"sad":      Sad,
	"surprise": Surprise,
	"neutral":  Neutral,
}

// The text model emits joy/anger/sadness/others and sometimes the facial
// names. "others" is the model's "no clear emotion" class.
var textTable = map[string]Emotion{
	"joy":      Happy,
	"anger":    Angry,
	"sadness":  Sad,
	"surprise": Surprise,
	"fear":     Fear,
	"disgust":  Disgust,
	"others":   Neutral,
	"neutral":  Neutral,
	"angry":    Angry,
	"happy":    Happy,
	"sad":      Sad,
}

// Annotators wrote free-form, mostly Spanish, terms.
var manualTable = map[string]Emotion{
	"enojo":   Angry,
	"enojado": Angry,
	"ira":     Angry,
	"anger":   Angry,

	"feliz":   Happy,
	"alegria": Happy,
	"alegría": Happy,
	"joy":     Happy,
	"happy":   Happy,

	"triste":   Sad,
	"tristeza": Sad,
	"sad":      Sad,
	"sadness":  Sad,

	"miedo": Fear,
	"fear":  Fear,

	"asco":    Disgust,
	"disgust": Disgust,

	"sorpresa": Surprise,
	"surprise": Surprise,

	"neutral": Neutral,
	"serio":   Neutral,
	"normal":  Neutral,
	"others":  Neutral,
}

func table(ch Channel) map[string]Emotion {
	switch ch {
	case Face:
		return faceTable
	case Text:
		return textTable
	case Manual:
		return manualTable
	}
	return nil
}

// Key normalizes a raw label for table lookup.
func Key(raw string) string { return strings.ToLower(strings.TrimSpace(raw)) }

// Map translates a raw label of the given channel into the canonical
// taxonomy. A miss returns ok=false; callers exclude the observation rather
// than defaulting it to neutral.
func Map(ch Channel, raw string) (Emotion, bool) {
	e, ok := table(ch)[Key(raw)]
	return e, ok
}

// Vocabulary returns the raw keys known for a channel, unordered.
func Vocabulary(ch Channel) []string {
	t := table(ch)
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	return out
}
