// Package themes provides the catalog of card themes.
// A theme contributes the symbol alphabet a board draws its pairs from;
// themes register themselves so the settings screen can discover and cycle
// them without hardcoded dependencies.
package themes

import (
	"fmt"
	"sort"
	"sync"
)

// Theme is a named symbol alphabet for card faces.
type Theme struct {
	// ID is the stable identifier stored in player settings (e.g. "Numbers").
	ID string

	// Title is the human-readable name for display.
	Title string

	// Alphabet is the ordered symbol pool. A board draws pairs from it,
	// cycling if the level needs more symbols than the alphabet holds.
	Alphabet []string
}

var (
	registered = make(map[string]Theme)
	mu         sync.RWMutex
)

// Register adds a theme to the catalog.
// Typically called from an init() function.
// Panics if a theme with the same ID is already registered or has no symbols.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registered[t.ID]; exists {
		panic(fmt.Sprintf("themes: theme %q already registered", t.ID))
	}
	if len(t.Alphabet) == 0 {
		panic(fmt.Sprintf("themes: theme %q has an empty alphabet", t.ID))
	}

	registered[t.ID] = t
}

// List returns all registered themes, sorted by ID.
func List() []Theme {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Theme, 0, len(registered))
	for _, t := range registered {
		result = append(result, t)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Get returns the theme with the given ID.
// Returns an error if the ID is not registered.
func Get(id string) (Theme, error) {
	mu.RLock()
	defer mu.RUnlock()

	t, ok := registered[id]
	if !ok {
		return Theme{}, fmt.Errorf("themes: unknown theme %q", id)
	}

	return t, nil
}

// GetOrDefault returns the theme with the given ID, falling back to the
// default theme when the ID is unknown. Player settings may reference a
// theme that no longer exists; the board must still build.
func GetOrDefault(id string) Theme {
	if t, err := Get(id); err == nil {
		return t
	}
	t, err := Get(DefaultID)
	if err != nil {
		panic("themes: default theme not registered")
	}
	return t
}

// Exists checks if a theme with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := registered[id]
	return ok
}

// Next returns the theme ID following id in the sorted catalog, wrapping
// around at the end. Used by the settings screen to cycle themes.
func Next(id string) string {
	all := List()
	if len(all) == 0 {
		return id
	}
	for i, t := range all {
		if t.ID == id {
			return all[(i+1)%len(all)].ID
		}
	}
	return all[0].ID
}
