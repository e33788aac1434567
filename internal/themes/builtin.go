package themes

import "fmt"

// DefaultID is the theme used when settings reference an unknown theme.
const DefaultID = "Numbers"

func init() {
	Register(Theme{ID: "Numbers", Title: "Numbers", Alphabet: numbers(32)})
	Register(Theme{ID: "Letters", Title: "Letters", Alphabet: letters()})
	Register(Theme{ID: "Colors", Title: "Colors", Alphabet: []string{
		"Red", "Orange", "Yellow", "Green", "Blue", "Purple", "HotPink",
		"Cyan", "Magenta", "Lime", "Teal", "Turquoise", "Gold", "Coral",
		"Crimson", "Fuchsia", "Violet", "Indigo", "Azure", "Chartreuse",
		"Tomato", "SpringGreen", "DeepSkyBlue", "MediumOrchid",
		"DodgerBlue", "MediumVioletRed", "OrangeRed", "SkyBlue",
		"LawnGreen", "MediumSeaGreen", "FireBrick", "DeepPink",
	}})
	Register(Theme{ID: "Animals", Title: "Animals", Alphabet: []string{
		"Cat", "Dog", "Cow", "Pig", "Fox", "Bear", "Lion", "Tiger",
		"Wolf", "Frog", "Bird", "Fish", "Duck", "Deer", "Goat",
		"Horse", "Zebra", "Koala", "Panda", "Monkey", "Mouse", "Rabbit",
		"Sheep", "Snake", "Bee", "Ant", "Crab", "Whale", "Shark",
		"Dolphin", "Llama", "Camel",
	}})
	Register(Theme{ID: "Emojis", Title: "Emojis", Alphabet: []string{
		"😀", "😁", "😂", "🤣", "😃", "😄", "😅", "😆",
		"😉", "😊", "😋", "😎", "😍", "😘", "😗", "😙",
		"😚", "🙂", "🤗", "🤔", "😐", "😑", "😶", "🙄",
		"😏", "😣", "😥", "😮", "🤐", "😯", "😪", "😫",
	}})
}

// numbers returns the symbols "1".."n".
func numbers(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%d", i+1)
	}
	return out
}

// letters returns A..Z followed by doubled letters AA..FF, 32 symbols total.
func letters() []string {
	out := make([]string, 0, 32)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	for c := 'A'; c <= 'F'; c++ {
		out = append(out, string(c)+string(c))
	}
	return out
}
