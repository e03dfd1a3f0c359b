package setup

import "github.com/abhisek/trivia/internal/trivia"

// CategoriesLoadedMsg carries the result of the startup category fetch.
// The app applies it to the controller whichever screen is active.
type CategoriesLoadedMsg struct {
	Categories []trivia.Category
	Err        error
}

// questionsLoadedMsg carries the result of the fetch started by Start.
type questionsLoadedMsg struct {
	Questions []trivia.Question
	Err       error
}
