package entity

const (
	LevelAll      = "all"
	LevelBeginner = "beginner"
	LevelOrdinary = "ordinary"
	LevelAdvanced = "advanced"

	StreamAll      = "all"
	StreamTech     = "tech"
	StreamCommerce = "commerce"
	StreamScience  = "science"
	StreamMaths    = "maths"
	StreamArts     = "arts"
	StreamEtc      = "etc"

	PriceAll  = "all"
	PriceFree = "free"
	PricePaid = "paid"

	SortPopularity = "popularity"
	SortMostRated  = "most_rated"
)

// CatalogQuery is a normalized catalog filter. Use usecase.ParseCatalogQuery to build one
// from raw query parameters.
type CatalogQuery struct {
	Search string `json:"q"`
	Level  string `json:"level"`
	Stream string `json:"stream"`
	Price  string `json:"price"`
	Sort   string `json:"sort"`
}
