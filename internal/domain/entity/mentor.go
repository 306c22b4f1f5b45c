package entity

import "time"

type Mentor struct {
	ID         string    `json:"id" firestore:"id"`
	UserID     string    `json:"user_id" firestore:"userId"`
	Name       string    `json:"name" firestore:"name"`
	Skills     []string  `json:"skills" firestore:"skills"`
	Price      float64   `json:"price" firestore:"price"`
	Bio        string    `json:"bio" firestore:"bio"`
	Experience string    `json:"experience" firestore:"experience"`
	IsActive   bool      `json:"is_active" firestore:"isActive"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}
