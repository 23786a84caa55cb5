package models

// Category is the closed set of record categories.
type Category string

const (
	CategorySupermarkets   Category = "supermarkets"
	CategoryGames          Category = "games"
	CategoryTaxi           Category = "taxi"
	CategoryHouse          Category = "house"
	CategoryMarketplaces   Category = "marketplaces"
	CategoryAnother        Category = "another"
	CategoryAnimals        Category = "animals"
	CategoryTransfers      Category = "transfers"
	CategoryDeposit        Category = "deposit"
	CategoryWithdrawal     Category = "withdrawal"
	CategoryPurchaseReturn Category = "purchase_return"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategorySupermarkets,
	CategoryGames,
	CategoryTaxi,
	CategoryHouse,
	CategoryMarketplaces,
	CategoryAnother,
	CategoryAnimals,
	CategoryTransfers,
	CategoryDeposit,
	CategoryWithdrawal,
	CategoryPurchaseReturn,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
