package models

// Category категория события или поста.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EventType тип события из фиксированного справочника (concierto, teatro, ...).
type EventType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
