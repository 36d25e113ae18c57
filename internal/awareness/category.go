package awareness

// Category is a classifier output controlling indicator color.
type Category int

const (
	CategoryYourCharacter Category = iota
	CategorySelectedCharacter
	CategoryCharacter
	CategoryNPC
	CategoryOther

	categoryCount
)

// Categories lists every category in draw order.
var Categories = [categoryCount]Category{
	CategoryYourCharacter,
	CategorySelectedCharacter,
	CategoryCharacter,
	CategoryNPC,
	CategoryOther,
}

var categoryNames = [categoryCount]string{
	CategoryYourCharacter:     "yourCharacter",
	CategorySelectedCharacter: "selectedCharacter",
	CategoryCharacter:         "character",
	CategoryNPC:               "npc",
	CategoryOther:             "other",
}

func (c Category) String() string {
	if c < 0 || c >= categoryCount {
		return "unknown"
	}
	return categoryNames[c]
}

// SettingKey is the settings key holding the category's hex color.
func (c Category) SettingKey() string {
	return c.String() + "Color"
}

// Actor kinds with dedicated categories.
const (
	KindCharacter = "character"
	KindNPC       = "npc"
)
