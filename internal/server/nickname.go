package server

import (
	"math/rand/v2"
)

var (
	adjectives = []string{
		"Lucky", "Bold", "Quiet", "Swift", "Clever",
		"Brave", "Sly", "Merry", "Stern", "Gentle",
		"Wily", "Keen", "Daring", "Steady", "Crafty",
	}

	nouns = []string{
		"Bower", "Dealer", "Joker", "Ace", "Knave",
		"Trump", "Maverick", "Shark", "Gambler", "Bluffer",
		"Card", "Spade", "Heart", "Diamond", "Club",
	}
)

// GenerateNickname produces a display name for players who connect
// without one.
func GenerateNickname() string {
	adj := adjectives[rand.IntN(len(adjectives))]
	noun := nouns[rand.IntN(len(nouns))]
	return adj + " " + noun
}
