package domain

// Rider represents a courier who carries deliveries.
type Rider struct {
	ID       int64
	Name     string
	Phone    string
	Plate    string
	IsActive bool
}
