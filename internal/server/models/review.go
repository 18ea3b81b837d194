package models

import "time"

// ReviewComment is the structured part of a review.
type ReviewComment struct {
	Advantages string `json:"advantages,omitempty"`
	Flaws      string `json:"flaws,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

type Review struct {
	ID         string
	ProductID  string
	UserID     string
	Star       int
	Comment    ReviewComment
	Experience string
	CreatedAt  time.Time
}
