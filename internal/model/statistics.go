package model

// Statistics aggregates every mark in a table. A nil *Statistics means there
// was no data.
type Statistics struct {
	Average float64 `json:"Average Marks"`
	Highest int     `json:"Highest Marks"`
	Lowest  int     `json:"Lowest Marks"`
}

// Map returns the key-value view; empty when s is nil.
func (s *Statistics) Map() map[string]interface{} {
	if s == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"Average Marks": s.Average,
		"Highest Marks": s.Highest,
		"Lowest Marks":  s.Lowest,
	}
}
