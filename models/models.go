package models

// Coordinates is an in-game world position.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Offer represents a marketplace listing
type Offer struct {
	ID          int         `json:"id"`
	ItemName    string      `json:"item_name"`
	TotalPrice  float64     `json:"total_price"`
	Amount      int         `json:"amount"`
	PiecePrice  float64     `json:"piece_price"` // TotalPrice / Amount, fixed at creation
	Seller      string      `json:"seller"`
	LaSpawn     string      `json:"la_spawn"`
	Coordinates Coordinates `json:"coordinates"`
}
