package model

import "time"

// MonthlyCount is one point of the collection growth series.
type MonthlyCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// ConditionShare is the slice of the collection in one condition.
type ConditionShare struct {
	Condition Condition `json:"condition"`
	Count     int       `json:"count"`
	Fraction  float64   `json:"fraction"`
}

// Summary holds headline numbers for the collection.
type Summary struct {
	TotalItems       int `json:"totalItems"`
	CollectionItems  int `json:"collectionItems"`
	WishlistItems    int `json:"wishlistItems"`
	UniqueCategories int `json:"uniqueCategories"`
}
