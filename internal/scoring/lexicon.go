package scoring

// Fixed signed weights for emoji found in message text, covering both native
// glyphs and :name:-style tokens. Weights stay within [-0.6, 0.6].
var emojiScores = map[string]float64{
	"👍": 0.5, ":thumbsup:": 0.5, ":+1:": 0.5,
	"👎": -0.5, ":thumbsdown:": -0.5, ":-1:": -0.5,
	"🔥": 0.4, ":fire:": 0.4,
	"❤️": 0.6, ":heart:": 0.6,
	"😀": 0.4, ":grinning:": 0.4,
	"😊": 0.4, ":blush:": 0.4,
	"😃": 0.4, ":smiley:": 0.4,
	"😄": 0.4, ":smile:": 0.4,
	"🎉": 0.5, ":tada:": 0.5,
	"✅": 0.3, ":white_check_mark:": 0.3,
	"💯": 0.6, ":100:": 0.6,
	"🚀": 0.4, ":rocket:": 0.4,
	"⭐": 0.4, ":star:": 0.4,
	"💪": 0.4, ":muscle:": 0.4,

	"😞": -0.4, ":disappointed:": -0.4,
	"😢": -0.5, ":cry:": -0.5,
	"😭": -0.6, ":sob:": -0.6,
	"😡": -0.6, ":rage:": -0.6,
	"😤": -0.4, ":huffing_with_anger:": -0.4,
	"😬": -0.2, ":grimacing:": -0.2,
	"😰": -0.4, ":cold_sweat:": -0.4,
	"😫": -0.5, ":tired_face:": -0.5,
	"💀": -0.3, ":skull:": -0.3,
	"❌": -0.3, ":x:": -0.3,
	"⚠️": -0.2, ":warning:": -0.2,

	"🤔": 0.0, ":thinking:": 0.0, ":thinking_face:": 0.0,
	"👀": 0.1, ":eyes:": 0.1,
	"🤷": 0.0, ":shrug:": 0.0,
	"🤖": 0.0, ":robot:": 0.0,

	"💻": 0.1, ":computer:": 0.1,
	"⚡": 0.2, ":zap:": 0.2,
	"🎯": 0.2, ":dart:": 0.2,
	"📊": 0.1, ":bar_chart:": 0.1,
	"🐛": -0.2, ":bug:": -0.2,
	"🔧": 0.0, ":wrench:": 0.0,
	"☕": 0.2, ":coffee:": 0.2,
	"🍕": 0.3, ":pizza:": 0.3,
}

// Signed weights for reactions added to a message. Unknown reactions weigh 0.
var reactionScores = map[string]float64{
	"thumbsup":      0.5,
	"+1":            0.5,
	"thumbsdown":    -0.5,
	"-1":            -0.5,
	"fire":          0.4,
	"heart":         0.6,
	"tada":          0.5,
	"100":           0.6,
	"rocket":        0.4,
	"star":          0.4,
	"eyes":          0.1,
	"thinking_face": 0.0,
	"x":             -0.3,
	"warning":       -0.2,
	"bug":           -0.2,
	"coffee":        0.2,
	"pizza":         0.3,
}

// Workplace-relevant terms matched case-insensitively as substrings. The
// summed modifier is clamped to [-0.5, 0.5].
var workKeywords = map[string]float64{
	"deploy":    0.1,
	"shipped":   0.2,
	"release":   0.1,
	"launch":    0.2,
	"success":   0.3,
	"completed": 0.2,
	"fixed":     0.2,
	"resolved":  0.2,
	"great job": 0.4,
	"well done": 0.3,
	"awesome":   0.3,
	"excellent": 0.3,

	"bug":         -0.2,
	"error":       -0.2,
	"failed":      -0.3,
	"broken":      -0.3,
	"issue":       -0.1,
	"problem":     -0.2,
	"incident":    -0.3,
	"outage":      -0.4,
	"down":        -0.2,
	"crash":       -0.3,
	"urgent":      -0.1,
	"critical":    -0.2,
	"blocke":      -0.2,
	"stuck":       -0.2,
	"frustrated":  -0.4,
	"stressed":    -0.4,
	"overwhelmed": -0.5,
	"burnout":     -0.6,
	"tired":       -0.2,
}

// ReactionWeight returns the signed weight of a reaction name, 0 if unknown.
func ReactionWeight(name string) float64 {
	return reactionScores[name]
}
