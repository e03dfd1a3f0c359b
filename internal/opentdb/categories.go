package opentdb

import "github.com/abhisek/trivia/internal/trivia"

// KnownCategories is the category table published by Open Trivia DB. Sources
// that cannot list categories themselves offer these.
var KnownCategories = []trivia.Category{
	{ID: 9, Name: "General Knowledge"},
	{ID: 10, Name: "Entertainment: Books"},
	{ID: 11, Name: "Entertainment: Film"},
	{ID: 12, Name: "Entertainment: Music"},
	{ID: 13, Name: "Entertainment: Musicals & Theatres"},
	{ID: 14, Name: "Entertainment: Television"},
	{ID: 15, Name: "Entertainment: Video Games"},
	{ID: 16, Name: "Entertainment: Board Games"},
	{ID: 17, Name: "Science & Nature"},
	{ID: 18, Name: "Science: Computers"},
	{ID: 19, Name: "Science: Mathematics"},
	{ID: 20, Name: "Mythology"},
	{ID: 21, Name: "Sports"},
	{ID: 22, Name: "Geography"},
	{ID: 23, Name: "History"},
	{ID: 24, Name: "Politics"},
	{ID: 25, Name: "Art"},
	{ID: 26, Name: "Celebrities"},
	{ID: 27, Name: "Animals"},
	{ID: 28, Name: "Vehicles"},
	{ID: 29, Name: "Entertainment: Comics"},
	{ID: 30, Name: "Science: Gadgets"},
	{ID: 31, Name: "Entertainment: Japanese Anime & Manga"},
	{ID: 32, Name: "Entertainment: Cartoon & Animations"},
}

// LookupCategory returns the known category with the given key.
func LookupCategory(key string) (trivia.Category, bool) {
	for _, c := range KnownCategories {
		if c.Key() == key {
			return c, true
		}
	}
	return trivia.Category{}, false
}
