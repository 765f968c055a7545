package models

// MenuProduct is one orderable product as published by the menu service.
type MenuProduct struct {
	ProductID  string `json:"product_id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Price      int    `json:"price"`
	IsCombo    bool   `json:"is_combo"`
	ImageURL   string `json:"image_url,omitempty"`
}

// MenuCategory groups the products of one menu section.
type MenuCategory struct {
	CategoryID string        `json:"category_id"`
	Name       string        `json:"name"`
	Products   []MenuProduct `json:"products"`
}

// Menu is the full published menu of one storefront site.
type Menu struct {
	SiteID     int            `json:"site_id"`
	Categories []MenuCategory `json:"categories"`
}
