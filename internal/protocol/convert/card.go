package convert

import (
	"github.com/dillonco/RobertaRoyale/internal/game/card"
	"github.com/dillonco/RobertaRoyale/internal/protocol"
)

// CardToInfo converts card.Card to protocol.CardInfo.
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit:        string(c.Suit),
		Rank:        int(c.Rank),
		DisplayName: c.String(),
	}
}

// CardsToInfos converts []card.Card to []protocol.CardInfo.
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard converts protocol.CardInfo to card.Card.
func InfoToCard(info protocol.CardInfo) card.Card {
	return card.Card{
		Suit: card.Suit(info.Suit),
		Rank: card.Rank(info.Rank),
	}
}

// InfosToCards converts []protocol.CardInfo to []card.Card.
func InfosToCards(infos []protocol.CardInfo) []card.Card {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		cards[i] = InfoToCard(info)
	}
	return cards
}
