package state

// Accomplishment is a hidden milestone unlocked by play.
type Accomplishment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Reward      string `json:"reward,omitempty"` // item granted on unlock
}

const (
	ChattyPioneer = "chatty_pioneer"
	// ChattyPioneerTalks is the number of conversations with Briggs that
	// unlocks ChattyPioneer.
	ChattyPioneerTalks = 10
)

var Accomplishments = map[string]Accomplishment{
	ChattyPioneer: {
		ID:          ChattyPioneer,
		Name:        "Chatty Pioneer",
		Description: "Talked Quartermaster Briggs' ear off.",
		Reward:      "Pity Shirt",
	},
}
