// Package games maps learning modules to optional companion mini-games.
package games

// Game identifies one mini-game.
type Game struct {
	ID    string
	Title string
}

// Known games.
var PasswordAudit = Game{ID: "password-audit", Title: "Password Audit"}

// registry lists every available game.
var registry = []Game{
	PasswordAudit,
}

// moduleToGame is the static module → game mapping, resolved at
// configuration time. No state, no side effects.
var moduleToGame = map[string]string{
	"passwords": PasswordAudit.ID,
}

// List returns all available games.
func List() []Game {
	out := make([]Game, len(registry))
	copy(out, registry)
	return out
}

// ByID looks up a game by its id.
func ByID(id string) (Game, bool) {
	for _, g := range registry {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// ForModule returns the companion game for a completed module, if any.
func ForModule(moduleID string) (Game, bool) {
	id, ok := moduleToGame[moduleID]
	if !ok {
		return Game{}, false
	}
	return ByID(id)
}
