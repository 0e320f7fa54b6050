package repository

import (
	"context"
	"log"

	"rulesbot/models"
)

var sampleGames = []models.Game{
	{
		Name:        "Monopoly",
		Description: "Classic board game of buying and trading properties",
		OfficialRules: `BASIC RULES:
- Each player starts with $1500
- Roll the dice and move around the board
- Buy unowned properties you land on
- Pay rent when you land on another player's property
- Build houses and hotels to raise the rent
- The goal is to be the last player who is not bankrupt`,
		CustomRules: `HOUSE VARIANTS:
- Free Parking jackpot: all taxes go onto the Free Parking square
- Quick auctions: if a player declines to buy, the property is auctioned immediately`,
	},
	{
		Name:        "Scrabble",
		Description: "Word-building game with lettered point tiles",
		OfficialRules: `OFFICIAL RULES:
- Each player draws 7 tiles
- Form words on the board to score points
- The first word must cross the centre star square
- Words must appear in the official dictionary
- Premium squares: double/triple word, double/triple letter`,
		CustomRules: `FAMILY RULES:
- Proper nouns are allowed
- Children under 12 may get help`,
	},
}

// SeedSampleGames inserts the sample games when the store holds none.
func SeedSampleGames(ctx context.Context, store Store) (int, error) {
	total, err := store.CountGames(ctx)
	if err != nil {
		return 0, err
	}
	if total > 0 {
		return 0, nil
	}

	log.Println("Inserting sample games...")
	inserted := 0
	for _, sample := range sampleGames {
		game := sample
		if err := store.CreateGame(ctx, &game); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
