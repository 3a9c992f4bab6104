package movie

// Movie is the single record type served by the API.
type Movie struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Watched bool   `json:"watched"`
	Genre   string `json:"genre"`
}

// Seed provides the sample catalogue loaded on every fresh start.
func Seed() []Movie {
	return []Movie{
		{Title: "Batman", Genre: "Action", Watched: true},
		{Title: "Truman Show", Genre: "Drama", Watched: true},
		{Title: "Star Wars", Genre: "Sci-Fi", Watched: true},
		{Title: "John Wick", Genre: "Action", Watched: false},
		{Title: "Pulp Fiction", Genre: "Drama", Watched: true},
		{Title: "The Exorcist", Genre: "Horror", Watched: true},
		{Title: "Footloose", Genre: "Musical", Watched: false},
		{Title: "Gone Girl", Genre: "Thriller", Watched: true},
		{Title: "Evil Dead", Genre: "Horror", Watched: true},
	}
}

// IsWatched is a Filter predicate selecting watched movies.
func IsWatched(m Movie) bool {
	return m.Watched
}

// TitleEquals returns a predicate matching the exact, case-sensitive title.
func TitleEquals(title string) func(Movie) bool {
	return func(m Movie) bool {
		return m.Title == title
	}
}
