package bookstore

// Book represents a book entity. The ISBN is its primary key
// and never changes once the book is created.
type Book struct {
	ISBN        string `json:"ISBN"`
	Title       string `json:"title"`
	Author      string `json:"Author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Price       Price  `json:"price" validate:"price2dp"`
	Quantity    int    `json:"quantity"`
}

// Required fields of a book payload, in the order they are checked.
var (
	BookCreateFields = []string{"ISBN", "title", "Author", "description", "genre", "price", "quantity"}
	BookUpdateFields = []string{"title", "Author", "description", "genre", "price", "quantity"}
)

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Repository[Book, string]
}
