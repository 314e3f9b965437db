package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&Purchase{},
		&Project{},
		&Song{},
		&Group{},
		&Track{},
		&Comment{},
		&FinalFile{},
	}
}
