package entity

// Source is a citation asserting where displayed information originated.
type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
