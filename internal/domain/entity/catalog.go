package entity

import "time"

type CommissionType struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

var DefaultCatalog = []CommissionType{
	{
		ID:          "basic-sketch",
		Title:       "Basic Sketch",
		Description: "A simple black and white line art piece.",
		Price:       20,
	},
	{
		ID:          "full-color-bust",
		Title:       "Full Color Bust",
		Description: "A detailed, fully colored character bust.",
		Price:       80,
	},
}

func FindCommissionType(catalog []CommissionType, id string) (CommissionType, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return CommissionType{}, false
}

type Artwork struct {
	ID         string    `json:"id" firestore:"id"`
	Title      string    `json:"title" firestore:"title"`
	URL        string    `json:"url" firestore:"url"`
	UploadedBy string    `json:"uploaded_by" firestore:"uploadedBy"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
