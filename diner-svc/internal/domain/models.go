package domain

import (
	"net/url"
	"strings"
)

type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ProfileImage    string `json:"profileImage,omitempty"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	Coins           int    `json:"coins"`
	Role            string `json:"role"`
}

// AuthRecord is the durable identity record. Only these four fields are persisted.
type AuthRecord struct {
	User            *User  `json:"user"`
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

type Hotel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

type Branch struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Table struct {
	ID          string `json:"id"`
	TableNumber int    `json:"tableNumber"`
	Capacity    int    `json:"capacity,omitempty"`
	Status      string `json:"status,omitempty"`
}

type ScanParams struct {
	HotelID  string `json:"hotelId"`
	BranchID string `json:"branchId"`
	TableNo  string `json:"tableNo"`
}

func (p ScanParams) Complete() bool {
	return p.HotelID != "" && p.BranchID != "" && p.TableNo != ""
}

// ScanParamsFromQuery reads the three identifiers carried by a table QR code.
func ScanParamsFromQuery(q url.Values) ScanParams {
	return ScanParams{
		HotelID:  strings.TrimSpace(q.Get("hotelId")),
		BranchID: strings.TrimSpace(q.Get("branchId")),
		TableNo:  strings.TrimSpace(q.Get("tableNo")),
	}
}

type ScanData struct {
	Authenticated bool    `json:"authenticated"`
	Hotel         *Hotel  `json:"hotel"`
	Branch        *Branch `json:"branch"`
	Table         *Table  `json:"table"`
	User          *User   `json:"user"`
}

type ScanResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    ScanData `json:"data"`
}

// Scope is the dining scope every menu, cart and offer request is partitioned by.
type Scope struct {
	HotelID  string `json:"hotelId"`
	BranchID string `json:"branchId"`
}

func (s Scope) Complete() bool {
	return s.HotelID != "" && s.BranchID != ""
}

func (s Scope) Key() string {
	return s.HotelID + ":" + s.BranchID
}

type MenuCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId"`
	Image       string  `json:"image,omitempty"`
	IsVeg       bool    `json:"isVeg"`
	IsAvailable bool    `json:"isAvailable"`
}

type Menu struct {
	Categories []MenuCategory `json:"categories"`
	Items      []MenuItem     `json:"items"`
}
